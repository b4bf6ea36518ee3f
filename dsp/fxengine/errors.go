package fxengine

import "errors"

// Errors returned while building memories, layouts and engines.
var (
	ErrCapacity       = errors.New("fxengine: capacity must be a power of two")
	ErrLayoutOverflow = errors.New("fxengine: delay lines exceed buffer capacity")
	ErrNilMemory      = errors.New("fxengine: memory is nil")
	ErrNilLayout      = errors.New("fxengine: layout is nil")
	ErrEmptyLayout    = errors.New("fxengine: layout needs at least one line")
	ErrInvalidLine    = errors.New("fxengine: invalid delay line")
	ErrUnknownFormat  = errors.New("fxengine: unknown sample format")
)
