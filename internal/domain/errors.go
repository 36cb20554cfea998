package domain

import "errors"

// Sentinel errors shared across the core. Read paths report lookup misses as
// (nil, nil); these errors cover the cases where the caller needs to
// distinguish what went wrong.
var (
	ErrNotFound     = errors.New("not found")
	ErrLocked       = errors.New("resource is locked")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrStoreSize    = errors.New("document exceeds store size limit")
)
