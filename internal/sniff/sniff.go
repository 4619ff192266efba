// Package sniff determines the media type to embed in a data URI.
//
// Detection combines three inputs in fixed priority order: the mimetype the
// caller supplied, magic-byte inspection of the content, and the registered
// type for the path's extension.
package sniff

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sasskit/base64load/internal/types"
)

// Sniffer inspects raw content and reports its media type. An inconclusive
// inspection returns "" with a nil error.
//
// Implementations must be safe for concurrent use.
type Sniffer interface {
	FromBytes(data []byte) (string, error)
}

// Content sniffs media types from magic bytes. The generic
// application/octet-stream answer is treated as inconclusive.
type Content struct{}

func (Content) FromBytes(data []byte) (string, error) {
	name := Normalize(mimetype.Detect(data).String())
	if name == "application/octet-stream" {
		return "", nil
	}

	return name, nil
}

// Normalize strips media type parameters, reducing values such as
// "text/plain; charset=utf-8" to "text/plain".
func Normalize(mediaType string) string {
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		return ""
	}

	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		return parsed
	}
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}

	return mediaType
}

// FromExtension reports the media type registered for the path's extension,
// or "" when the extension is unknown.
func FromExtension(path string) string {
	return Normalize(mime.TypeByExtension(filepath.Ext(path)))
}

// Detect determines the media type for a resolved source.
//
// A non-empty supplied mimetype wins unconditionally and no inspection
// happens. Otherwise content sniffing runs first, then extension lookup when
// a path is known. A nil sniffer means detection was never enabled and fails
// with ErrMissingDependency.
func Detect(source, supplied string, data []byte, path string, s Sniffer) (string, error) {
	if supplied != "" {
		return supplied, nil
	}
	if len(data) == 0 && path == "" {
		return "", &types.Error{Kind: types.ErrMimeRequired, Source: source}
	}
	if s == nil {
		return "", &types.Error{Kind: types.ErrMissingDependency, Source: source, Detail: "mimetype detection is not enabled"}
	}

	if len(data) > 0 {
		name, err := s.FromBytes(data)
		if err != nil {
			return "", &types.Error{Kind: types.ErrMimeUndetected, Source: source, Err: err}
		}
		if name != "" {
			return name, nil
		}
	}

	if path != "" {
		if name := FromExtension(path); name != "" {
			return name, nil
		}
	}

	return "", &types.Error{Kind: types.ErrMimeUndetected, Source: source, Detail: "content and extension inspection were inconclusive"}
}
