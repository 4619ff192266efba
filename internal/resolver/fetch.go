package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMaxFetchSize is the response body limit applied when a fetcher is
// created without an explicit size.
const DefaultMaxFetchSize int64 = 16 << 20

// DefaultFetchTimeout bounds a remote fetch when the fetcher is created
// without an explicit client.
const DefaultFetchTimeout = 30 * time.Second

// FetchResult is the outcome of a single HTTP request. Body is only
// populated for 200 responses.
type FetchResult struct {
	Body        []byte
	StatusCode  int
	Status      string
	ContentType string
}

// Fetcher retrieves the contents of a remote URL.
//
// Implementations must be safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// HTTPFetcher fetches URLs over HTTP and HTTPS.
type HTTPFetcher struct {
	// Client is the HTTP client used for requests.
	Client *http.Client

	// MaxSize limits the response body size in bytes.
	// Zero means DefaultMaxFetchSize.
	MaxSize int64
}

// NewHTTPFetcher creates an HTTPFetcher with a timeout-bounded client and the
// default body size limit.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:  &http.Client{Timeout: DefaultFetchTimeout},
		MaxSize: DefaultMaxFetchSize,
	}
}

// Fetch performs a GET request for the URL. A non-200 response is returned
// with its status and an empty body so the caller can decide how to report
// it. Transport failures and oversized bodies are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	result := &FetchResult{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if resp.StatusCode != http.StatusOK {
		return result, nil
	}

	limit := f.MaxSize
	if limit <= 0 {
		limit = DefaultMaxFetchSize
	}

	// Read one extra byte so an exactly-at-limit body succeeds while an
	// oversized one is detected without draining the connection.
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("response from %s exceeds maximum size %d bytes", url, limit)
	}

	result.Body = body

	return result, nil
}
