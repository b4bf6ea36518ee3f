package core

import "math/bits"

// denormalFloor is the magnitude below which filter states are zeroed.
const denormalFloor = 1e-30

// Clamp limits value to [lo, hi]. Swapped bounds are accepted.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return min(max(value, lo), hi)
}

// FlushDenormals returns 0 for |x| < 1e-30 and x otherwise. Recursive
// filter states that decay in silence would otherwise end up on the slow
// subnormal path.
func FlushDenormals(x float64) float64 {
	if -denormalFloor < x && x < denormalFloor {
		return 0
	}
	return x
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n, and 1 for n <= 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
