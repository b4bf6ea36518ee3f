package decay

import "errors"

// Errors returned by analysis functions.
var (
	ErrEmptyIR           = errors.New("decay: impulse response is empty")
	ErrInvalidSampleRate = errors.New("decay: sample rate must be positive")
	ErrInvalidTime       = errors.New("decay: time must be positive")
	ErrNoDecay           = errors.New("decay: insufficient decay for RT calculation")
	ErrLengthMismatch    = errors.New("decay: channel lengths differ")
)
