package audiofile

import (
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// Write encodes a as a stereo integer PCM WAV file at path.
func Write(path string, a *Audio, bitDepth int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Encode(f, a, bitDepth)
}

// Encode writes a as stereo WAV with 16 or 24 bit samples. Samples are
// clipped to [-1, 1] and rounded.
func Encode(w io.WriteSeeker, a *Audio, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	if len(a.Left) != len(a.Right) {
		return ErrLengthMismatch
	}
	if a.SampleRate <= 0 {
		return fmt.Errorf("audiofile: sample rate must be > 0: %d", a.SampleRate)
	}

	enc := wav.NewEncoder(w, a.SampleRate, bitDepth, 2, wavFormatPCM)

	full := math.Ldexp(1, bitDepth-1) - 1
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 2,
			SampleRate:  a.SampleRate,
		},
		Data:           make([]int, 2*len(a.Left)),
		SourceBitDepth: bitDepth,
	}
	for i := range a.Left {
		buf.Data[2*i] = quantize(a.Left[i], full)
		buf.Data[2*i+1] = quantize(a.Right[i], full)
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return enc.Close()
}

func quantize(v, full float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(-1, math.Min(1, v))
	return int(math.Round(v * full))
}
