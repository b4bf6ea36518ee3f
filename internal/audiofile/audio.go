package audiofile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies a container/codec.
type Kind int

const (
	KindUnknown Kind = iota
	KindWAV
	KindAIFF
	KindMP3
	KindOgg
)

func (k Kind) String() string {
	switch k {
	case KindWAV:
		return "wav"
	case KindAIFF:
		return "aiff"
	case KindMP3:
		return "mp3"
	case KindOgg:
		return "ogg"
	default:
		return "unknown"
	}
}

// KindFromPath guesses the file kind from its extension.
func KindFromPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return KindWAV
	case ".aif", ".aiff", ".aifc":
		return KindAIFF
	case ".mp3":
		return KindMP3
	case ".ogg", ".oga":
		return KindOgg
	default:
		return KindUnknown
	}
}

// Audio is a decoded stereo signal.
type Audio struct {
	SampleRate int
	// BitDepth is the source resolution for PCM inputs, 16 for MP3 and 0
	// for Ogg Vorbis.
	BitDepth int
	// Channels is the channel count of the source before stereo mapping.
	Channels int
	Left     []float64
	Right    []float64
}

// Frames returns the number of stereo frames.
func (a *Audio) Frames() int {
	return min(len(a.Left), len(a.Right))
}

// Duration returns the length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(a.Frames()) / float64(a.SampleRate)
}

// Read decodes the file at path, choosing the decoder by extension.
func Read(path string) (*Audio, error) {
	kind := KindFromPath(path)
	if kind == KindUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := Decode(f, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Decode reads a whole stream of the given kind.
func Decode(r io.ReadSeeker, kind Kind) (*Audio, error) {
	switch kind {
	case KindWAV:
		return decodeWAV(r)
	case KindAIFF:
		return decodeAIFF(r)
	case KindMP3:
		return decodeMP3(r)
	case KindOgg:
		return decodeOgg(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind)
	}
}

// deinterleave maps interleaved samples to stereo. Mono is duplicated;
// beyond two channels, even channels are summed into left and odd ones into
// right.
func deinterleave(data []float64, channels int) (left, right []float64, err error) {
	if channels <= 0 {
		return nil, nil, ErrNoChannels
	}

	frames := len(data) / channels
	left = make([]float64, frames)
	right = make([]float64, frames)
	for i := range frames {
		frame := data[i*channels : (i+1)*channels]
		if channels == 1 {
			left[i], right[i] = frame[0], frame[0]
			continue
		}
		for ch, v := range frame {
			if ch&1 == 0 {
				left[i] += v
			} else {
				right[i] += v
			}
		}
	}
	return left, right, nil
}
