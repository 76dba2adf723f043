package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrMissingInput   = errors.New("missing input")
	ErrNoTopicsScored = errors.New("no topics scored")
)
