package fxengine

import (
	"fmt"
	"math"
)

// Format selects how samples are persisted in the ring buffer.
type Format int

const (
	// Format12Bit stores int16 values scaled by 4096: 12 fractional bits and
	// about 18 dB of headroom above full scale.
	Format12Bit Format = iota
	// Format16Bit stores int16 values scaled by 32768, saturating at ±1.
	Format16Bit
	// Format32Bit stores float32 values.
	Format32Bit
	// Format64Bit stores float64 values; storage is lossless.
	Format64Bit
)

const (
	scale12Bit = 4096.0
	scale16Bit = 32768.0
)

// String returns a short human readable name.
func (f Format) String() string {
	switch f {
	case Format12Bit:
		return "12-bit"
	case Format16Bit:
		return "16-bit"
	case Format32Bit:
		return "32-bit float"
	case Format64Bit:
		return "64-bit float"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	return f >= Format12Bit && f <= Format64Bit
}

// BytesPerSample returns the storage size of one sample.
func (f Format) BytesPerSample() int {
	switch f {
	case Format12Bit, Format16Bit:
		return 2
	case Format32Bit:
		return 4
	case Format64Bit:
		return 8
	default:
		return 0
	}
}

// Step returns the quantization step of the format, 0 for the float formats.
func (f Format) Step() float64 {
	switch f {
	case Format12Bit:
		return 1 / scale12Bit
	case Format16Bit:
		return 1 / scale16Bit
	default:
		return 0
	}
}

// Quantize returns v after a round trip through the storage codec: what a
// Store followed by a Load yields for the same sample.
func (f Format) Quantize(v float64) float64 {
	switch f {
	case Format12Bit:
		return float64(compressFixed(v, scale12Bit)) / scale12Bit
	case Format16Bit:
		return float64(compressFixed(v, scale16Bit)) / scale16Bit
	case Format32Bit:
		return float64(float32(v))
	default:
		return v
	}
}

// ParseFormat maps a bit depth (12, 16, 32, 64) to a Format.
func ParseFormat(bits int) (Format, error) {
	switch bits {
	case 12:
		return Format12Bit, nil
	case 16:
		return Format16Bit, nil
	case 32:
		return Format32Bit, nil
	case 64:
		return Format64Bit, nil
	default:
		return 0, fmt.Errorf("%w: %d bits", ErrUnknownFormat, bits)
	}
}

func fixedScale(f Format) float64 {
	if f == Format12Bit {
		return scale12Bit
	}
	return scale16Bit
}

// compressFixed truncates toward zero and saturates to the int16 range.
func compressFixed(v, scale float64) int16 {
	x := v * scale
	if math.IsNaN(x) {
		return 0
	}
	if x >= math.MaxInt16 {
		return math.MaxInt16
	}
	if x <= math.MinInt16 {
		return math.MinInt16
	}
	return int16(x)
}
