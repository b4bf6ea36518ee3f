package window

import (
	"errors"
	"fmt"
)

// ErrInvalidLength is returned for window sizes <= 0.
var ErrInvalidLength = errors.New("window: size must be > 0")

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, size)
	}
	return nil
}
