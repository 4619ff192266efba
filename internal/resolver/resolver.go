// Package resolver turns a source reference into file content. A source is
// either a local path resolved against a base directory or an http(s) URL
// fetched through the Fetcher port; the classifier decides which, from the
// source string alone.
package resolver

import "net/url"

// Result is the outcome of resolving one source. It lives only for the
// duration of a single encode.
type Result struct {
	// Origin is the resolved path or the URL, kept for diagnostics.
	Origin string

	// Bytes is the full file or response body content.
	Bytes []byte

	// MimeType is a mimetype discovered during resolution (for remote
	// sources, the Content-Type response header). Empty when resolution
	// learned nothing; the local resolver never infers one.
	MimeType string
}

// IsRemote reports whether source names a remote URL. Only well-formed
// URIs with an http or https scheme count; anything else, including parse
// failures, is treated as a local path. Purely syntactic, no I/O.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}

	return u.Scheme == "http" || u.Scheme == "https"
}
