package audiofile

import "errors"

var (
	ErrUnsupportedFormat   = errors.New("audiofile: unsupported file format")
	ErrInvalidFile         = errors.New("audiofile: invalid or corrupt file")
	ErrNoChannels          = errors.New("audiofile: file has no channels")
	ErrUnsupportedBitDepth = errors.New("audiofile: unsupported bit depth")
	ErrLengthMismatch      = errors.New("audiofile: channel lengths differ")
)
