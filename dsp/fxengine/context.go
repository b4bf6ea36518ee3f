package fxengine

import "github.com/cwbudde/algo-plate/dsp/core"

// Context is the per-frame accumulator handed out by Engine.Start.
//
// A Context is only valid until the next Start on the same engine. It is a
// plain value; keep one per processing loop and pass its address to Start.
type Context struct {
	acc      float64
	previous float64
	lfo      [2]float64
	mem      Memory
	mask     int
	cursor   int
}

// DCState holds the previous input and output of a DC blocker.
type DCState struct {
	X1 float64
	Y1 float64
}

// Load overwrites the accumulator.
func (c *Context) Load(v float64) {
	c.acc = v
}

// Add adds v*scale to the accumulator.
func (c *Context) Add(v, scale float64) {
	c.acc += v * scale
}

// Accumulator returns the current accumulator value.
func (c *Context) Accumulator() float64 {
	return c.acc
}

// Tap returns the accumulator and then multiplies it by scale.
func (c *Context) Tap(scale float64) float64 {
	v := c.acc
	c.acc *= scale
	return v
}

// LFO returns the oscillator snapshot taken by Start.
func (c *Context) LFO(which LFOIndex) float64 {
	return c.lfo[which]
}

// Read adds the sample at offset of l, times scale, to the accumulator.
// The raw sample is remembered for WriteAllPass.
func (c *Context) Read(l Line, offset int, scale float64) {
	r := c.mem.Load((c.cursor + l.cell(offset)) & c.mask)
	c.previous = r
	c.acc += r * scale
}

// Write stores the accumulator at offset of l, then multiplies the
// accumulator by scale.
func (c *Context) Write(l Line, offset int, scale float64) {
	c.mem.Store((c.cursor+l.cell(offset))&c.mask, c.acc)
	c.acc *= scale
}

// WriteAllPass is Write followed by adding back the last read sample.
// Paired with Read(l, Tail, g) it forms the all-pass section
// v = x + g*v[n-N], y = -g*v + v[n-N] when scale is -g.
func (c *Context) WriteAllPass(l Line, offset int, scale float64) {
	c.Write(l, offset, scale)
	c.acc += c.previous
}

// Interpolate reads l at a fractional offset with linear interpolation.
func (c *Context) Interpolate(l Line, offset, scale float64) {
	c.interpolate(l, offset, scale)
}

// InterpolateLFO reads l at offset + amplitude*LFO(which) with linear
// interpolation.
func (c *Context) InterpolateLFO(l Line, offset float64, which LFOIndex, amplitude, scale float64) {
	c.interpolate(l, offset+amplitude*c.lfo[which], scale)
}

func (c *Context) interpolate(l Line, offset, scale float64) {
	integral := int(offset)
	fractional := offset - float64(integral)

	i := c.cursor + l.Base + integral
	a := c.mem.Load(i & c.mask)
	b := c.mem.Load((i + 1) & c.mask)
	x := a + (b-a)*fractional

	c.previous = x
	c.acc += x * scale
}

// Lp runs a one-pole low-pass over the accumulator.
func (c *Context) Lp(state *float64, coefficient float64) {
	*state = core.FlushDenormals(*state + coefficient*(c.acc-*state))
	c.acc = *state
}

// Hp runs a one-pole high-pass over the accumulator (input minus Lp).
func (c *Context) Hp(state *float64, coefficient float64) {
	*state = core.FlushDenormals(*state + coefficient*(c.acc-*state))
	c.acc -= *state
}

// DCBlock applies y = x - x[n-1] + coefficient*y[n-1] to the accumulator.
func (c *Context) DCBlock(s *DCState, coefficient float64) {
	y := core.FlushDenormals(c.acc - s.X1 + coefficient*s.Y1)
	s.X1 = c.acc
	s.Y1 = y
	c.acc = y
}

// DCBlockNormalized is DCBlock with the difference scaled by
// (1+coefficient)/2:
//
//	y = (1+k)/2 * (x - x1) + k*y1
//
// Gain is 1 at Nyquist and 0 at DC.
func (c *Context) DCBlockNormalized(s *DCState, coefficient float64) {
	gain := (1 + coefficient) * 0.5
	y := core.FlushDenormals(gain*(c.acc-s.X1) + coefficient*s.Y1)
	s.X1 = c.acc
	s.Y1 = y
	c.acc = y
}
