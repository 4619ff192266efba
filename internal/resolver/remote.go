package resolver

import (
	"context"
	"net/http"

	"github.com/sasskit/base64load/internal/types"
)

// Remote resolves http and https URLs through a Fetcher.
type Remote struct {
	// Allowed gates remote resolution. When false, Resolve fails before
	// touching the network.
	Allowed bool

	// Fetcher performs the actual requests. Nil means remote resolution
	// was enabled without a working fetcher.
	Fetcher Fetcher
}

// Resolve downloads the URL and returns its body together with the
// Content-Type the server reported. Disallowed sources fail with
// ErrRemoteDisabled before any request is made.
func (r *Remote) Resolve(ctx context.Context, source string) (*Result, error) {
	if !r.Allowed {
		return nil, &types.Error{Kind: types.ErrRemoteDisabled, Source: source}
	}
	if r.Fetcher == nil {
		return nil, &types.Error{Kind: types.ErrMissingDependency, Source: source, Detail: "no fetcher configured"}
	}

	resp, err := r.Fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, &types.Error{Kind: types.ErrFetch, Source: source, Err: err}
	}
	if resp == nil {
		return nil, &types.Error{Kind: types.ErrFetch, Source: source, Detail: "no response"}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &types.Error{Kind: types.ErrFetch, Source: source, Detail: resp.Status}
	}

	return &Result{Origin: source, Bytes: resp.Body, MimeType: resp.ContentType}, nil
}
