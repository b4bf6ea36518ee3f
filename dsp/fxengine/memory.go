package fxengine

import (
	"fmt"

	"github.com/cwbudde/algo-plate/dsp/core"
)

// Memory is the ring buffer storage behind an Engine.
//
// Indices passed to Load and Store are already wrapped by the caller. Once
// a Memory is handed to New, the Engine owns its contents; only inspection
// through Load is expected from the outside.
type Memory interface {
	// Format returns the persisted sample representation.
	Format() Format
	// Len returns the number of cells.
	Len() int
	// Load decodes cell i.
	Load(i int) float64
	// Store encodes v into cell i.
	Store(i int, v float64)
	// Clear zeroes every cell.
	Clear()
}

// NewMemory allocates a zeroed memory of the given format and capacity.
func NewMemory(format Format, capacity int) (Memory, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}
	if !core.IsPowerOfTwo(capacity) {
		return nil, fmt.Errorf("%w: %d", ErrCapacity, capacity)
	}

	switch format {
	case Format12Bit, Format16Bit:
		return WrapFixed(format, make([]int16, capacity))
	case Format32Bit:
		return WrapFloat32(make([]float32, capacity)), nil
	default:
		return WrapFloat64(make([]float64, capacity)), nil
	}
}

// WrapFixed uses a caller-owned int16 slice as 12- or 16-bit storage.
func WrapFixed(format Format, data []int16) (Memory, error) {
	if format != Format12Bit && format != Format16Bit {
		return nil, fmt.Errorf("%w: %s is not a fixed-point format", ErrUnknownFormat, format)
	}

	scale := fixedScale(format)
	return &fixedMemory{data: data, format: format, scale: scale, inv: 1 / scale}, nil
}

// WrapFloat32 uses a caller-owned float32 slice as storage.
func WrapFloat32(data []float32) Memory {
	return float32Memory(data)
}

// WrapFloat64 uses a caller-owned float64 slice as storage.
func WrapFloat64(data []float64) Memory {
	return float64Memory(data)
}

type fixedMemory struct {
	data   []int16
	format Format
	scale  float64
	inv    float64
}

func (m *fixedMemory) Format() Format { return m.format }
func (m *fixedMemory) Len() int       { return len(m.data) }

func (m *fixedMemory) Load(i int) float64 {
	return float64(m.data[i]) * m.inv
}

func (m *fixedMemory) Store(i int, v float64) {
	m.data[i] = compressFixed(v, m.scale)
}

func (m *fixedMemory) Clear() {
	clear(m.data)
}

type float32Memory []float32

func (m float32Memory) Format() Format         { return Format32Bit }
func (m float32Memory) Len() int               { return len(m) }
func (m float32Memory) Load(i int) float64     { return float64(m[i]) }
func (m float32Memory) Store(i int, v float64) { m[i] = float32(v) }
func (m float32Memory) Clear()                 { clear(m) }

type float64Memory []float64

func (m float64Memory) Format() Format         { return Format64Bit }
func (m float64Memory) Len() int               { return len(m) }
func (m float64Memory) Load(i int) float64     { return m[i] }
func (m float64Memory) Store(i int, v float64) { m[i] = v }
func (m float64Memory) Clear()                 { clear(m) }
