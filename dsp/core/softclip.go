package core

const softClipKnee = 3.0

// SoftLimit is the rational approximation x*(27+x²)/(27+9x²) of tanh.
// It is only well behaved for |x| <= 3; use SoftClip for unbounded input.
func SoftLimit(x float64) float64 {
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// SoftClip saturates x smoothly into [-1, 1].
func SoftClip(x float64) float64 {
	switch {
	case x < -softClipKnee:
		return -1
	case x > softClipKnee:
		return 1
	default:
		return SoftLimit(x)
	}
}

// SoftClipInPlace applies SoftClip to every sample of buf.
func SoftClipInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = SoftClip(x)
	}
}
