package types

import (
	"errors"
	"strconv"
	"strings"
)

// Sentinel errors classifying every failure the loader can produce.
// Callers match them with errors.Is; the carried *Error adds the call
// context (source, mimetype, diagnostics).
var (
	// ErrInvalidSourceType reports a first argument that is not a string value.
	ErrInvalidSourceType = errors.New("source must be a string")

	// ErrInvalidSource reports an empty source string.
	ErrInvalidSource = errors.New("source must not be empty")

	// ErrInvalidMime reports a second argument that is neither null nor a
	// non-empty string.
	ErrInvalidMime = errors.New("mimetype must be null or a non-empty string")

	// ErrRemoteRequiresAsync reports a URL source passed to a synchronous
	// loader, which must never touch the network.
	ErrRemoteRequiresAsync = errors.New("remote source requires an asynchronous loader")

	// ErrMimeRequiredSync reports a missing mimetype in synchronous mode,
	// where detection is unavailable.
	ErrMimeRequiredSync = errors.New("mimetype is required in synchronous mode")

	// ErrRemoteDisabled reports a URL source while remote access is not allowed.
	ErrRemoteDisabled = errors.New("remote sources are disabled")

	// ErrNotFound reports a local source that does not name an existing
	// regular file.
	ErrNotFound = errors.New("source file not found")

	// ErrFetch reports a failed remote fetch: a transport error or a
	// non-success HTTP status.
	ErrFetch = errors.New("remote fetch failed")

	// ErrMissingDependency reports an exercised capability (remote fetch,
	// content sniffing) that has no adapter wired.
	ErrMissingDependency = errors.New("required capability is not available")

	// ErrMimeRequired reports a detection attempt with neither content
	// bytes nor a local path to inspect.
	ErrMimeRequired = errors.New("mimetype cannot be determined without content or path")

	// ErrMimeUndetected reports that no detection strategy produced a mimetype.
	ErrMimeUndetected = errors.New("mimetype could not be detected")

	// ErrDuplicateSignature reports a registration under a signature the
	// host already has a function for.
	ErrDuplicateSignature = errors.New("function signature already registered")

	// ErrInvalidHostConfig reports a nil host configuration passed to
	// registration.
	ErrInvalidHostConfig = errors.New("host configuration must be a non-nil object")

	// ErrInternalInvariant reports a value produced by the loader itself
	// that violates its own contract. Always a bug, never user error.
	ErrInternalInvariant = errors.New("internal invariant violated")
)

// Error is the structured error returned by load invocations. It always
// echoes the original source and mimetype call values so a failed
// compilation points back at the offending stylesheet call.
type Error struct {
	Kind   error  // one of the Err* sentinels
	Source string // raw source argument
	Mime   string // raw mimetype argument, "" when omitted
	Detail string // extra diagnostics, e.g. a resolved path or HTTP status
	Err    error  // underlying cause, if any
}

// Error returns the string representation of the Error.
func (e *Error) Error() string {
	var sb strings.Builder
	if e.Kind != nil {
		sb.WriteString(e.Kind.Error())
	} else {
		sb.WriteString("load failed")
	}

	sb.WriteString(": source ")
	sb.WriteString(strconv.Quote(e.Source))
	sb.WriteString(", mimetype ")
	if e.Mime == "" {
		sb.WriteString("null")
	} else {
		sb.WriteString(strconv.Quote(e.Mime))
	}

	if e.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Detail)
		sb.WriteString(")")
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

// Unwrap exposes both the classifying sentinel and the underlying cause,
// so errors.Is matches either.
func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}
