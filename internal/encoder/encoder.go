// Package encoder turns a source reference into a quoted data URI string.
//
// Two strategies implement the same pipeline. The synchronous one resolves
// local files only and never detects mimetypes; the asynchronous one adds
// remote resolution and detection. The strategy is fixed when the load
// function is built, never per call.
package encoder

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/sasskit/base64load/internal/resolver"
	"github.com/sasskit/base64load/internal/sniff"
	"github.com/sasskit/base64load/internal/types"
)

// Encoder produces the final quoted data URI for a source. The mimeType
// argument is the raw value from the call site, "" when omitted.
type Encoder interface {
	Encode(ctx context.Context, source, mimeType string) (string, error)
}

// Config carries the collaborators an encoder strategy needs. A nil Cache
// disables caching; a nil Sniffer means detection is not enabled.
type Config struct {
	Cache   types.Cache
	Local   *resolver.Local
	Remote  *resolver.Remote
	Sniffer sniff.Sniffer
}

// NewSync creates the synchronous strategy.
func NewSync(cfg Config) Encoder {
	return &syncEncoder{core: core{cache: cfg.Cache}, local: cfg.Local}
}

// NewAsync creates the asynchronous strategy.
func NewAsync(cfg Config) Encoder {
	return &asyncEncoder{
		core:    core{cache: cfg.Cache},
		local:   cfg.Local,
		remote:  cfg.Remote,
		sniffer: cfg.Sniffer,
	}
}

// URI renders the double-quoted data URI literal for the payload. The quotes
// are part of the value so the host consumes it as a string literal.
func URI(mimeType string, data []byte) string {
	return fmt.Sprintf(`"data:%s;base64,%s"`, mimeType, base64.StdEncoding.EncodeToString(data))
}

// core carries the cache steps both strategies share. Lookups and stores key
// on the raw source string, never on a resolved path.
type core struct {
	cache types.Cache
}

func (c *core) cached(source string) (string, bool) {
	if c.cache == nil {
		return "", false
	}

	return c.cache.Get(source)
}

// finish renders the value and stores it under the raw source. The store is
// best effort; it only ever runs on the miss path.
func (c *core) finish(source, mimeType string, data []byte) string {
	value := URI(mimeType, data)
	if c.cache != nil {
		c.cache.Set(source, value)
	}

	return value
}

type syncEncoder struct {
	core
	local *resolver.Local
}

func (e *syncEncoder) Encode(ctx context.Context, source, mimeType string) (string, error) {
	if value, ok := e.cached(source); ok {
		return value, nil
	}

	if mimeType == "" {
		return "", &types.Error{Kind: types.ErrMimeRequiredSync, Source: source}
	}

	result, err := e.local.Resolve(ctx, source)
	if err != nil {
		return "", withMime(err, mimeType)
	}

	return e.finish(source, mimeType, result.Bytes), nil
}

type asyncEncoder struct {
	core
	local   *resolver.Local
	remote  *resolver.Remote
	sniffer sniff.Sniffer
}

func (e *asyncEncoder) Encode(ctx context.Context, source, mimeType string) (string, error) {
	if value, ok := e.cached(source); ok {
		return value, nil
	}

	var (
		result *resolver.Result
		err    error
	)

	remote := resolver.IsRemote(source)
	if remote {
		result, err = e.remote.Resolve(ctx, source)
	} else {
		result, err = e.local.Resolve(ctx, source)
	}
	if err != nil {
		return "", withMime(err, mimeType)
	}

	// Extension lookup applies to local paths only; a URL keeps "" here.
	path := ""
	if !remote {
		path = result.Origin
	}

	// Priority: the supplied mimetype, then the transport-reported one,
	// then detection from the content itself.
	supplied := mimeType
	if supplied == "" {
		supplied = sniff.Normalize(result.MimeType)
	}

	name, err := sniff.Detect(source, supplied, result.Bytes, path, e.sniffer)
	if err != nil {
		return "", withMime(err, mimeType)
	}

	return e.finish(source, name, result.Bytes), nil
}

// withMime stamps the mimetype call value onto an error that surfaced below
// the point where it was known.
func withMime(err error, mimeType string) error {
	if mimeType == "" {
		return err
	}

	var loadErr *types.Error
	if errors.As(err, &loadErr) && loadErr.Mime == "" {
		loadErr.Mime = mimeType
	}

	return err
}
