package decay

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-plate/dsp/core"
	"github.com/cwbudde/algo-plate/dsp/window"
)

// maxCentroidFFT bounds the transform size; longer inputs are truncated.
const maxCentroidFFT = 1 << 18

// Centroid returns the power-weighted mean frequency of x in Hz. The
// signal is Hann windowed and zero padded to a power of two.
func Centroid(x []float64, sampleRate float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyIR
	}
	if sampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	n := min(len(x), maxCentroidFFT)
	fftSize := max(core.NextPowerOfTwo(n), 2)

	windowed := make([]float64, n)
	copy(windowed, x[:n])
	window.Apply(window.TypeHann, windowed)

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return 0, fmt.Errorf("decay: fft plan: %w", err)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return 0, fmt.Errorf("decay: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}
	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	var num, den float64
	binHz := sampleRate / float64(fftSize)
	for k, p := range power {
		num += float64(k) * binHz * p
		den += p
	}
	if den <= 0 {
		return 0, nil
	}
	return num / den, nil
}

// Correlation returns the zero-lag normalized cross-correlation of two
// channels in [-1, 1]. Silent channels give 0.
func Correlation(left, right []float64) (float64, error) {
	if len(left) != len(right) {
		return 0, ErrLengthMismatch
	}
	if len(left) == 0 {
		return 0, ErrEmptyIR
	}

	var lr, ll, rr float64
	for i := range left {
		lr += left[i] * right[i]
		ll += left[i] * left[i]
		rr += right[i] * right[i]
	}
	if ll == 0 || rr == 0 {
		return 0, nil
	}
	return lr / math.Sqrt(ll*rr), nil
}
