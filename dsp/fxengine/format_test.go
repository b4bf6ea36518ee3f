package fxengine

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestFormat16BitRoundTripWithinOneStep(t *testing.T) {
	mem, err := NewMemory(Format16Bit, 8)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	step := Format16Bit.Step()
	for i := -32768; i < 32768; i += 7 {
		x := float64(i)/32768 + 0.3*step
		mem.Store(3, x)
		got := mem.Load(3)
		if diff := math.Abs(got - x); diff >= step {
			t.Fatalf("x=%v: got %v, diff %v >= step %v", x, got, diff, step)
		}
		if got != Format16Bit.Quantize(x) {
			t.Fatalf("x=%v: Load %v != Quantize %v", x, got, Format16Bit.Quantize(x))
		}
	}
}

func TestFormat32BitRoundTripExact(t *testing.T) {
	mem, err := NewMemory(Format32Bit, 4)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	rng := rand.New(rand.NewPCG(7, 0))
	for i := 0; i < 1000; i++ {
		x := float64(float32(rng.Float64()*2 - 1))
		mem.Store(1, x)
		if got := mem.Load(1); got != x {
			t.Fatalf("round trip %v -> %v", x, got)
		}
	}
}

func TestFormat64BitLossless(t *testing.T) {
	mem, err := NewMemory(Format64Bit, 2)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	x := math.Pi / 3
	mem.Store(0, x)
	if got := mem.Load(0); got != x {
		t.Fatalf("got %v, want %v", got, x)
	}
}

func TestFixedFormatsSaturate(t *testing.T) {
	tests := []struct {
		format Format
		in     float64
		want   float64
	}{
		{Format16Bit, 2.5, 32767.0 / 32768},
		{Format16Bit, -2.5, -1},
		{Format12Bit, 3.5, 3.5},
		{Format12Bit, 100, 32767.0 / 4096},
		{Format12Bit, -100, -8},
	}

	for _, tt := range tests {
		if got := tt.format.Quantize(tt.in); got != tt.want {
			t.Fatalf("%s Quantize(%v) = %v, want %v", tt.format, tt.in, got, tt.want)
		}
	}
}

func TestFixedFormatTruncatesTowardZero(t *testing.T) {
	step := Format16Bit.Step()
	if got := Format16Bit.Quantize(0.9 * step); got != 0 {
		t.Fatalf("Quantize(0.9 step) = %v, want 0", got)
	}
	if got := Format16Bit.Quantize(-0.9 * step); got != 0 {
		t.Fatalf("Quantize(-0.9 step) = %v, want 0", got)
	}
}

func TestTwelveBitNoisierThanSixteen(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 0))

	var err12, err16 float64
	for i := 0; i < 4096; i++ {
		x := rng.Float64()*2 - 1
		err12 += math.Abs(Format12Bit.Quantize(x) - x)
		err16 += math.Abs(Format16Bit.Quantize(x) - x)
	}

	if err12 <= err16 {
		t.Fatalf("12-bit error %v should exceed 16-bit error %v", err12, err16)
	}
}

func TestQuantizeMatchesStoreLoad(t *testing.T) {
	for _, format := range []Format{Format12Bit, Format16Bit, Format32Bit, Format64Bit} {
		t.Run(format.String(), func(t *testing.T) {
			mem, err := NewMemory(format, 4)
			if err != nil {
				t.Fatalf("NewMemory: %v", err)
			}

			rng := rand.New(rand.NewPCG(11, uint64(format)))
			for i := 0; i < 2048; i++ {
				x := rng.Float64()*3 - 1.5
				mem.Store(1, x)
				if got, want := mem.Load(1), format.Quantize(x); got != want {
					t.Fatalf("x=%v: Load %v != Quantize %v", x, got, want)
				}
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for bits, want := range map[int]Format{12: Format12Bit, 16: Format16Bit, 32: Format32Bit, 64: Format64Bit} {
		got, err := ParseFormat(bits)
		if err != nil {
			t.Fatalf("ParseFormat(%d): %v", bits, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%d) = %s, want %s", bits, got, want)
		}
	}

	if _, err := ParseFormat(24); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("ParseFormat(24) error = %v, want ErrUnknownFormat", err)
	}
}

func TestBytesPerSample(t *testing.T) {
	if Format12Bit.BytesPerSample() != 2 || Format16Bit.BytesPerSample() != 2 ||
		Format32Bit.BytesPerSample() != 4 || Format64Bit.BytesPerSample() != 8 {
		t.Fatal("unexpected sample sizes")
	}
	if Format(9).BytesPerSample() != 0 || Format(9).Valid() {
		t.Fatal("unknown format should be invalid")
	}
}

func TestNewMemoryValidation(t *testing.T) {
	if _, err := NewMemory(Format16Bit, 1000); !errors.Is(err, ErrCapacity) {
		t.Fatalf("capacity 1000: error = %v, want ErrCapacity", err)
	}
	if _, err := NewMemory(Format(42), 1024); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("format 42: error = %v, want ErrUnknownFormat", err)
	}
	if _, err := WrapFixed(Format32Bit, make([]int16, 4)); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("WrapFixed(32-bit): error = %v, want ErrUnknownFormat", err)
	}
}

func TestMemoryFormatsAndClear(t *testing.T) {
	for _, f := range []Format{Format12Bit, Format16Bit, Format32Bit, Format64Bit} {
		mem, err := NewMemory(f, 16)
		if err != nil {
			t.Fatalf("NewMemory(%s): %v", f, err)
		}
		if mem.Format() != f || mem.Len() != 16 {
			t.Fatalf("%s: Format()=%s Len()=%d", f, mem.Format(), mem.Len())
		}

		mem.Store(5, 0.25)
		mem.Clear()
		if got := mem.Load(5); got != 0 {
			t.Fatalf("%s: after Clear Load = %v", f, got)
		}
	}
}
