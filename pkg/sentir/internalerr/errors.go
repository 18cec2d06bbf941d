package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrIO            = errors.New("i/o error")
	ErrExtraction    = errors.New("extraction failed")
	ErrScoring       = errors.New("scoring failed")
	ErrUnsupported   = errors.New("unsupported document type")
	ErrTaskPanic     = errors.New("task panicked")
)
