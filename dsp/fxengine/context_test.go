package fxengine

import (
	"math"
	"testing"
)

func TestTapReturnsThenScales(t *testing.T) {
	var c Context
	c.Load(0.5)
	c.Add(0.25, 2)

	if got := c.Tap(0.5); got != 1 {
		t.Fatalf("Tap = %v, want 1", got)
	}
	if got := c.Accumulator(); got != 0.5 {
		t.Fatalf("accumulator after Tap(0.5) = %v, want 0.5", got)
	}
}

func TestWriteScalesAccumulator(t *testing.T) {
	e := mustEngine(t, Format64Bit, 16, LineSpec{"a", 4})
	a, _ := e.Layout().Line("a")

	var c Context
	e.Start(&c)
	c.Load(0.75)
	c.Write(a, 2, 2)

	if got := c.Accumulator(); got != 1.5 {
		t.Fatalf("accumulator = %v, want 1.5", got)
	}
	if got := e.Sample(a, 2); got != 0.75 {
		t.Fatalf("stored = %v, want 0.75", got)
	}
}

func TestTailReadsLastCell(t *testing.T) {
	e := mustEngine(t, Format64Bit, 32, LineSpec{"a", 6}, LineSpec{"b", 3})
	a, _ := e.Layout().Line("a")

	var c Context
	e.Start(&c)
	c.Load(0.125)
	c.Write(a, 5, 0)
	c.Read(a, Tail, 2)

	if got := c.Accumulator(); got != 0.25 {
		t.Fatalf("Read(Tail) = %v, want 0.25", got)
	}
}

func TestInterpolateLinear(t *testing.T) {
	e := mustEngine(t, Format64Bit, 32, LineSpec{"a", 8})
	a, _ := e.Layout().Line("a")

	var c Context
	e.Start(&c)
	c.Load(1)
	c.Write(a, 3, 0)
	c.Load(3)
	c.Write(a, 4, 0)

	tests := []struct {
		offset float64
		want   float64
	}{
		{3, 1},
		{3.25, 1.5},
		{3.5, 2},
		{4, 3},
		{4.5, 1.5},
	}
	for _, tt := range tests {
		c.Load(0)
		c.Interpolate(a, tt.offset, 1)
		if got := c.Accumulator(); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("Interpolate(%v) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestInterpolateLFOUsesSnapshot(t *testing.T) {
	e := mustEngine(t, Format64Bit, 32, LineSpec{"a", 8})
	a, _ := e.Layout().Line("a")

	var c Context
	e.Start(&c)
	c.Load(1)
	c.Write(a, 3, 0)
	c.Load(3)
	c.Write(a, 4, 0)

	// Zero-frequency LFOs sit at 1, so the read lands at 2.25 + 1.
	c.Load(0)
	c.InterpolateLFO(a, 2.25, LFO2, 1, 2)
	if got := c.Accumulator(); math.Abs(got-3) > 1e-12 {
		t.Fatalf("InterpolateLFO = %v, want 3", got)
	}
}

func TestInterpolateFeedsWriteAllPass(t *testing.T) {
	e := mustEngine(t, Format64Bit, 32, LineSpec{"a", 8})
	a, _ := e.Layout().Line("a")

	var c Context
	e.Start(&c)
	c.Load(2)
	c.Write(a, 5, 0)

	c.Load(0)
	c.Interpolate(a, 5, 0)
	c.WriteAllPass(a, 0, 0)
	if got := c.Accumulator(); got != 2 {
		t.Fatalf("accumulator = %v, want interpolated sample 2", got)
	}
}

func TestLpConvergesToInput(t *testing.T) {
	var c Context
	var state float64
	for i := 0; i < 2000; i++ {
		c.Load(0.8)
		c.Lp(&state, 0.05)
	}
	if math.Abs(c.Accumulator()-0.8) > 1e-9 {
		t.Fatalf("Lp steady state = %v, want 0.8", c.Accumulator())
	}

	state = 0
	c.Load(0.3)
	c.Lp(&state, 1)
	if c.Accumulator() != 0.3 {
		t.Fatalf("Lp with coefficient 1 = %v, want passthrough", c.Accumulator())
	}
}

func TestHpRemovesConstant(t *testing.T) {
	var c Context
	var state float64
	for i := 0; i < 2000; i++ {
		c.Load(0.8)
		c.Hp(&state, 0.05)
	}
	if math.Abs(c.Accumulator()) > 1e-9 {
		t.Fatalf("Hp steady state = %v, want 0", c.Accumulator())
	}
}

func TestDCBlockRemovesOffset(t *testing.T) {
	var c Context
	var s DCState
	for i := 0; i < 10000; i++ {
		c.Load(1)
		c.DCBlock(&s, 0.995)
	}
	if math.Abs(c.Accumulator()) > 1e-6 {
		t.Fatalf("DCBlock output = %v, want ~0", c.Accumulator())
	}
}

func TestDCBlockNormalizedUnityAtNyquist(t *testing.T) {
	const k = 0.98

	var c Context
	var s DCState
	var y float64
	for i := 0; i < 4000; i++ {
		x := 1.0
		if i%2 == 1 {
			x = -1
		}
		c.Load(x)
		c.DCBlockNormalized(&s, k)
		y = c.Accumulator()
	}
	if math.Abs(math.Abs(y)-1) > 1e-6 {
		t.Fatalf("Nyquist gain = %v, want 1", math.Abs(y))
	}

	s = DCState{}
	for i := 0; i < 10000; i++ {
		c.Load(0.5)
		c.DCBlockNormalized(&s, k)
	}
	if math.Abs(c.Accumulator()) > 1e-6 {
		t.Fatalf("DC output = %v, want ~0", c.Accumulator())
	}
}

func TestDCBlockNormalizedDifferenceEquation(t *testing.T) {
	const k = 0.5
	gain := (1 + k) / 2

	var c Context
	var s DCState
	inputs := []float64{1, 1, 0.25, -2}
	var x1, y1 float64
	for i, x := range inputs {
		c.Load(x)
		c.DCBlockNormalized(&s, k)

		want := gain*(x-x1) + k*y1
		if got := c.Accumulator(); math.Abs(got-want) > 1e-15 {
			t.Fatalf("sample %d: y = %v, want %v", i, got, want)
		}
		if s.X1 != x || s.Y1 != c.Accumulator() {
			t.Fatalf("sample %d: state = %+v, want {X1:%v Y1:%v}", i, s, x, c.Accumulator())
		}
		x1, y1 = x, want
	}
}

func TestFiltersFlushDenormals(t *testing.T) {
	var c Context
	state := 1e-300
	c.Load(0)
	c.Lp(&state, 0.5)
	if state != 0 {
		t.Fatalf("Lp state = %v, want flushed to 0", state)
	}

	s := DCState{Y1: 1e-300}
	c.Load(0)
	c.DCBlock(&s, 0.5)
	if s.Y1 != 0 {
		t.Fatalf("DCBlock state = %v, want flushed to 0", s.Y1)
	}
}
