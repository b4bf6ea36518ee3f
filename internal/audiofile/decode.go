package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

func pcmScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return math.Ldexp(1, bitDepth-1), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

func fromIntBuffer(buf *goaudio.IntBuffer, bitDepth, sampleRate int) (*Audio, error) {
	if buf == nil || buf.Format == nil {
		return nil, ErrInvalidFile
	}
	scale, err := pcmScale(bitDepth)
	if err != nil {
		return nil, err
	}

	channels := buf.Format.NumChannels
	data := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		data[i] = float64(v) / scale
	}

	left, right, err := deinterleave(data, channels)
	if err != nil {
		return nil, err
	}
	return &Audio{
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		Channels:   channels,
		Left:       left,
		Right:      right,
	}, nil
}

func decodeWAV(r io.ReadSeeker) (*Audio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: wav audio format %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	return fromIntBuffer(buf, int(dec.BitDepth), int(dec.SampleRate))
}

func decodeAIFF(r io.ReadSeeker) (*Audio, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return nil, ErrInvalidFile
	}
	bitDepth := int(dec.BitDepth)
	if _, err := pcmScale(bitDepth); err != nil {
		return nil, err
	}

	chunk := &goaudio.IntBuffer{Format: format, Data: make([]int, 4096)}
	var all []int
	for {
		n, err := dec.PCMBuffer(chunk)
		all = append(all, chunk.Data[:n]...)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("aiff: %w", err)
		}
		if n == 0 || err != nil {
			break
		}
	}

	full := &goaudio.IntBuffer{Format: format, Data: all}
	return fromIntBuffer(full, bitDepth, format.SampleRate)
}

// decodeMP3 reads the decoder's fixed 16-bit little-endian stereo stream.
func decodeMP3(r io.Reader) (*Audio, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	data := make([]float64, len(raw)/2)
	for i := range data {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		data[i] = float64(v) / 32768
	}

	left, right, err := deinterleave(data, 2)
	if err != nil {
		return nil, err
	}
	return &Audio{
		SampleRate: dec.SampleRate(),
		BitDepth:   16,
		Channels:   2,
		Left:       left,
		Right:      right,
	}, nil
}

func decodeOgg(r io.Reader) (*Audio, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ogg: %w", err)
	}

	data := make([]float64, len(samples))
	for i, v := range samples {
		data[i] = float64(v)
	}

	left, right, err := deinterleave(data, format.Channels)
	if err != nil {
		return nil, err
	}
	return &Audio{
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		Left:       left,
		Right:      right,
	}, nil
}
