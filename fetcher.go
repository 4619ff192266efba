package base64load

import "github.com/sasskit/base64load/internal/resolver"

// Fetcher retrieves the contents of a remote URL. Replace the default with
// WithFetcher to control transport, authentication, or test behavior.
// Implementations MUST be safe for concurrent use by multiple goroutines.
type Fetcher = resolver.Fetcher

// FetchResult is the outcome of a single fetch.
type FetchResult = resolver.FetchResult

// HTTPFetcher is the default Fetcher. It performs a plain GET and caps the
// response body at MaxSize bytes.
type HTTPFetcher = resolver.HTTPFetcher

// NewHTTPFetcher creates an HTTPFetcher with a timeout-bounded client and
// the default body size limit.
func NewHTTPFetcher() *HTTPFetcher {
	return resolver.NewHTTPFetcher()
}
