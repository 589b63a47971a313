package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrVectorize        = errors.New("vectorization failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)
