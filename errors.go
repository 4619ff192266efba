package base64load

import "github.com/sasskit/base64load/internal/types"

// Error is the structured error returned by load invocations. It echoes the
// source and mimetype values from the failing call; match its Kind against
// the Err* sentinels with errors.Is.
type Error = types.Error

// Sentinel errors classifying every failure a load function can produce.
var (
	ErrInvalidSourceType   = types.ErrInvalidSourceType
	ErrInvalidSource       = types.ErrInvalidSource
	ErrInvalidMime         = types.ErrInvalidMime
	ErrRemoteRequiresAsync = types.ErrRemoteRequiresAsync
	ErrMimeRequiredSync    = types.ErrMimeRequiredSync
	ErrRemoteDisabled      = types.ErrRemoteDisabled
	ErrNotFound            = types.ErrNotFound
	ErrFetch               = types.ErrFetch
	ErrMissingDependency   = types.ErrMissingDependency
	ErrMimeRequired        = types.ErrMimeRequired
	ErrMimeUndetected      = types.ErrMimeUndetected
	ErrDuplicateSignature  = types.ErrDuplicateSignature
	ErrInvalidHostConfig   = types.ErrInvalidHostConfig
	ErrInternalInvariant   = types.ErrInternalInvariant
)
