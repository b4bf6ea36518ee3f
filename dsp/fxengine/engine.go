package fxengine

import (
	"fmt"

	"github.com/cwbudde/algo-plate/dsp/core"
)

// LFOIndex selects one of the engine's two modulation oscillators.
type LFOIndex int

const (
	LFO1 LFOIndex = iota
	LFO2
)

// lfoStride is the number of frames between LFO steps.
const lfoStride = 32

// Engine owns the ring buffer, the write cursor and the two LFOs.
type Engine struct {
	mem    Memory
	layout *Layout
	mask   int
	cursor int
	lfo    [2]Oscillator
}

// New builds an engine over mem with the given line layout. The memory is
// cleared and the cursor starts at 0.
func New(mem Memory, layout *Layout) (*Engine, error) {
	if mem == nil {
		return nil, ErrNilMemory
	}
	if layout == nil {
		return nil, ErrNilLayout
	}

	capacity := mem.Len()
	if !core.IsPowerOfTwo(capacity) {
		return nil, fmt.Errorf("%w: %d", ErrCapacity, capacity)
	}
	if layout.Span() > capacity {
		return nil, fmt.Errorf("%w: need %d cells, have %d", ErrLayoutOverflow, layout.Span(), capacity)
	}

	e := &Engine{
		mem:    mem,
		layout: layout,
		mask:   capacity - 1,
	}
	for i := range e.lfo {
		e.lfo[i].Init(0)
	}
	e.Reset()

	return e, nil
}

// SetLFOFrequency sets the rate of one LFO in cycles per sample. The
// oscillator restarts at phase zero; call it before processing starts.
func (e *Engine) SetLFOFrequency(which LFOIndex, frequency float64) {
	e.lfo[which].Init(frequency * lfoStride)
}

// Start begins a new frame: the cursor moves back one cell and c is reset
// to an empty accumulator bound to this engine.
func (e *Engine) Start(c *Context) {
	e.cursor--
	if e.cursor < 0 {
		e.cursor += e.mask + 1
	}

	c.acc = 0
	c.previous = 0
	c.mem = e.mem
	c.mask = e.mask
	c.cursor = e.cursor

	if e.cursor&(lfoStride-1) == 0 {
		c.lfo[0] = e.lfo[0].Next()
		c.lfo[1] = e.lfo[1].Next()
	} else {
		c.lfo[0] = e.lfo[0].Value()
		c.lfo[1] = e.lfo[1].Value()
	}
}

// Reset clears the memory, rewinds the cursor and restarts both LFOs.
func (e *Engine) Reset() {
	e.mem.Clear()
	e.cursor = 0
	for i := range e.lfo {
		e.lfo[i].Start()
	}
}

// Capacity returns the ring buffer size in cells.
func (e *Engine) Capacity() int { return e.mask + 1 }

// Format returns the storage format.
func (e *Engine) Format() Format { return e.mem.Format() }

// Layout returns the delay-line layout.
func (e *Engine) Layout() *Layout { return e.layout }

// Cursor returns the current write position.
func (e *Engine) Cursor() int { return e.cursor }

// Sample decodes the cell at offset of line relative to the current cursor.
func (e *Engine) Sample(l Line, offset int) float64 {
	return e.mem.Load((e.cursor + l.cell(offset)) & e.mask)
}

// LineEnergy returns the sum of squared samples at offsets [from, to) of l,
// relative to the current cursor.
func (e *Engine) LineEnergy(l Line, from, to int) float64 {
	var sum float64
	for k := from; k < to; k++ {
		v := e.mem.Load((e.cursor + l.Base + k) & e.mask)
		sum += v * v
	}
	return sum
}

// Energy returns the sum of squared samples over the whole buffer.
func (e *Engine) Energy() float64 {
	var sum float64
	for i := 0; i <= e.mask; i++ {
		v := e.mem.Load(i)
		sum += v * v
	}
	return sum
}
