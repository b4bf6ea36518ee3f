package testutil

import "math/rand/v2"

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude]
// with a fixed seed.
func DeterministicNoise(seed uint64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewPCG(seed, 0))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Stereo returns two independent copies of x, for processors that work in
// place on a left/right pair.
func Stereo(x []float64) (left, right []float64) {
	left = append([]float64(nil), x...)
	right = append([]float64(nil), x...)
	return left, right
}

// Silence returns n zero samples.
func Silence(n int) []float64 {
	return make([]float64, n)
}
