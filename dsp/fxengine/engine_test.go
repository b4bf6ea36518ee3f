package fxengine

import (
	"errors"
	"math"
	"testing"
)

func mustLayout(t testing.TB, specs ...LineSpec) *Layout {
	t.Helper()

	l, err := NewLayout(specs...)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	return l
}

func mustEngine(t testing.TB, format Format, capacity int, specs ...LineSpec) *Engine {
	t.Helper()

	mem, err := NewMemory(format, capacity)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	e, err := New(mem, mustLayout(t, specs...))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewValidation(t *testing.T) {
	layout := mustLayout(t, LineSpec{"a", 100}, LineSpec{"b", 200})

	tests := []struct {
		name   string
		mem    Memory
		layout *Layout
		want   error
	}{
		{"nil memory", nil, layout, ErrNilMemory},
		{"nil layout", WrapFloat64(make([]float64, 512)), nil, ErrNilLayout},
		{"not power of two", WrapFloat64(make([]float64, 1000)), layout, ErrCapacity},
		{"too small", WrapFloat64(make([]float64, 256)), layout, ErrLayoutOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.mem, tt.layout); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewSpanMustFitIncludingGuardCells(t *testing.T) {
	// 3 lines of 85 cells need 255 + 3 guard cells.
	layout := mustLayout(t, LineSpec{"a", 85}, LineSpec{"b", 85}, LineSpec{"c", 85})
	if _, err := New(WrapFloat64(make([]float64, 256)), layout); !errors.Is(err, ErrLayoutOverflow) {
		t.Fatalf("error = %v, want ErrLayoutOverflow", err)
	}

	layout = mustLayout(t, LineSpec{"a", 83}, LineSpec{"b", 85}, LineSpec{"c", 85})
	if _, err := New(WrapFloat64(make([]float64, 256)), layout); err != nil {
		t.Fatalf("exact fit: %v", err)
	}
}

func TestNewClearsMemory(t *testing.T) {
	data := make([]float64, 64)
	for i := range data {
		data[i] = 1
	}

	e, err := New(WrapFloat64(data), mustLayout(t, LineSpec{"a", 10}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.Energy() != 0 {
		t.Fatalf("Energy() = %v after New, want 0", e.Energy())
	}
	if e.Cursor() != 0 || e.Capacity() != 64 || e.Format() != Format64Bit {
		t.Fatalf("cursor=%d capacity=%d format=%s", e.Cursor(), e.Capacity(), e.Format())
	}
}

func TestCursorWrapsAcrossZero(t *testing.T) {
	e := mustEngine(t, Format64Bit, 1024, LineSpec{"a", 1000})
	a, _ := e.Layout().Line("a")

	var c Context
	e.Start(&c)
	if e.Cursor() != 1023 {
		t.Fatalf("cursor after first Start = %d, want 1023", e.Cursor())
	}

	const x = 0.625
	c.Load(x)
	c.Write(a, 0, 0)

	e.Start(&c)
	e.Start(&c)
	if e.Cursor() != 1021 {
		t.Fatalf("cursor = %d, want 1021", e.Cursor())
	}

	c.Read(a, 2, 1)
	if got := c.Accumulator(); got != x {
		t.Fatalf("Read(a, 2) = %v, want %v", got, x)
	}
	if got := e.Sample(a, 2); got != x {
		t.Fatalf("Sample(a, 2) = %v, want %v", got, x)
	}
}

func TestWriteWrapsPastLastCell(t *testing.T) {
	data := make([]float64, 16)
	e, err := New(WrapFloat64(data), mustLayout(t, LineSpec{"a", 8}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, _ := e.Layout().Line("a")

	var c Context
	e.Start(&c) // cursor 15
	c.Load(0.5)
	c.Write(a, 1, 0)

	if data[0] != 0.5 {
		t.Fatalf("cell 0 = %v, want 0.5", data[0])
	}
}

func TestDelayLineLength(t *testing.T) {
	const length = 37
	e := mustEngine(t, Format64Bit, 64, LineSpec{"d", length})
	d, _ := e.Layout().Line("d")

	var c Context
	var out []float64
	for n := 0; n < 100; n++ {
		e.Start(&c)
		in := 0.0
		if n == 0 {
			in = 1
		}
		c.Read(d, Tail, 1)
		y := c.Tap(0)
		c.Load(in)
		c.Write(d, 0, 0)
		out = append(out, y)
	}

	for n, y := range out {
		want := 0.0
		if n == length-1 {
			want = 1
		}
		if y != want {
			t.Fatalf("out[%d] = %v, want %v", n, y, want)
		}
	}
}

func allPassResponse(t testing.TB, n int, g float64, frames int) []float64 {
	t.Helper()

	e := mustEngine(t, Format64Bit, 64, LineSpec{"ap", n + 1})
	ap, _ := e.Layout().Line("ap")

	var c Context
	out := make([]float64, frames)
	for i := range out {
		e.Start(&c)
		if i == 0 {
			c.Load(1)
		}
		c.Read(ap, Tail, g)
		c.WriteAllPass(ap, 0, -g)
		out[i] = c.Tap(0)
	}
	return out
}

func TestAllPassPreservesEnergy(t *testing.T) {
	for _, g := range []float64{0.3, 0.5, 0.625, -0.7} {
		out := allPassResponse(t, 8, g, 2000)

		var sum float64
		for _, y := range out {
			sum += y * y
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("g=%v: impulse energy = %v, want 1", g, sum)
		}
		if out[0] != -g {
			t.Fatalf("g=%v: out[0] = %v, want %v", g, out[0], -g)
		}
	}
}

func TestAllPassZeroGainIsPureDelay(t *testing.T) {
	const n = 8
	out := allPassResponse(t, n, 0, 40)

	for i, y := range out {
		want := 0.0
		if i == n {
			want = 1
		}
		if y != want {
			t.Fatalf("out[%d] = %v, want %v", i, y, want)
		}
	}
}

func TestLFOStepsEveryThirtyTwoFrames(t *testing.T) {
	e := mustEngine(t, Format64Bit, 256, LineSpec{"a", 4})
	e.SetLFOFrequency(LFO1, 0.001)
	e.SetLFOFrequency(LFO2, 0.002)

	var c Context
	prev1, prev2 := math.NaN(), math.NaN()
	changes := 0
	for n := 0; n < 512; n++ {
		e.Start(&c)
		v1, v2 := c.LFO(LFO1), c.LFO(LFO2)
		if n > 0 && (v1 != prev1 || v2 != prev2) {
			if e.Cursor()%lfoStride != 0 {
				t.Fatalf("LFO changed at cursor %d", e.Cursor())
			}
			changes++
		}
		prev1, prev2 = v1, v2
	}

	if changes < 10 {
		t.Fatalf("LFO changed %d times in 512 frames, want about 16", changes)
	}
}

func TestLFODefaultsToConstantOne(t *testing.T) {
	e := mustEngine(t, Format64Bit, 128, LineSpec{"a", 4})

	var c Context
	for n := 0; n < 200; n++ {
		e.Start(&c)
		if c.LFO(LFO1) != 1 || c.LFO(LFO2) != 1 {
			t.Fatalf("frame %d: LFO = %v, %v", n, c.LFO(LFO1), c.LFO(LFO2))
		}
	}
}

func TestResetClearsState(t *testing.T) {
	e := mustEngine(t, Format16Bit, 64, LineSpec{"a", 20})
	a, _ := e.Layout().Line("a")

	var c Context
	for n := 0; n < 10; n++ {
		e.Start(&c)
		c.Load(0.5)
		c.Write(a, 0, 0)
	}
	if e.Energy() == 0 {
		t.Fatal("expected stored samples before Reset")
	}

	e.Reset()
	if e.Energy() != 0 || e.Cursor() != 0 {
		t.Fatalf("after Reset: energy=%v cursor=%d", e.Energy(), e.Cursor())
	}
}

func TestLineEnergy(t *testing.T) {
	e := mustEngine(t, Format64Bit, 64, LineSpec{"a", 4}, LineSpec{"b", 4})
	a, _ := e.Layout().Line("a")
	b, _ := e.Layout().Line("b")

	var c Context
	e.Start(&c)
	c.Load(0.5)
	c.Write(a, 1, 0)
	c.Load(2)
	c.Write(b, 3, 0)

	if got := e.LineEnergy(a, 0, a.Length); got != 0.25 {
		t.Fatalf("LineEnergy(a) = %v, want 0.25", got)
	}
	if got := e.LineEnergy(b, 0, b.Length-1); got != 0 {
		t.Fatalf("LineEnergy(b, 0..2) = %v, want 0", got)
	}
	if got := e.Energy(); got != 4.25 {
		t.Fatalf("Energy() = %v, want 4.25", got)
	}
}

func TestFixedFormatSaturatesInsideEngine(t *testing.T) {
	e := mustEngine(t, Format16Bit, 32, LineSpec{"a", 4})
	a, _ := e.Layout().Line("a")

	var c Context
	e.Start(&c)
	c.Load(4)
	c.Write(a, 0, 1)
	if got := c.Accumulator(); got != 4 {
		t.Fatalf("accumulator = %v, want 4 (not quantized)", got)
	}

	c.Load(0)
	c.Read(a, 0, 1)
	if got := c.Accumulator(); got != 32767.0/32768 {
		t.Fatalf("stored = %v, want saturated full scale", got)
	}
}
