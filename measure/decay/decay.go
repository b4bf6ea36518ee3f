package decay

import (
	"math"

	"github.com/cwbudde/algo-plate/dsp/core"
)

// Metrics holds impulse response analysis results.
type Metrics struct {
	RT60       float64 // seconds, T30 when measurable, T20 otherwise
	EDT        float64 // early decay time, 0 to -10 dB, in seconds
	T20        float64 // -5 to -25 dB slope extrapolated to 60 dB
	T30        float64 // -5 to -35 dB slope extrapolated to 60 dB
	C50        float64 // dB
	C80        float64 // dB
	CenterTime float64 // energy centroid in seconds
	Centroid   float64 // spectral centroid in Hz
	PeakIndex  int     // sample index of the absolute maximum
}

// StereoMetrics holds per-channel metrics and their correlation.
type StereoMetrics struct {
	Left        Metrics
	Right       Metrics
	Correlation float64
}

// Analyzer computes decay metrics at a fixed sample rate.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an analyzer for the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

func (a *Analyzer) check(ir []float64) error {
	if len(ir) == 0 {
		return ErrEmptyIR
	}
	if a.SampleRate <= 0 || math.IsNaN(a.SampleRate) || math.IsInf(a.SampleRate, 0) {
		return ErrInvalidSampleRate
	}
	return nil
}

// Analyze computes all metrics of a mono impulse response. Time-domain
// metrics start at the peak.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if err := a.check(ir); err != nil {
		return Metrics{}, err
	}

	peak := peakIndex(ir)
	tail := ir[peak:]
	curve := schroeder(tail)

	m := Metrics{
		PeakIndex:  peak,
		EDT:        a.slopeTime(curve, 0, -10),
		T20:        a.slopeTime(curve, -5, -25),
		T30:        a.slopeTime(curve, -5, -35),
		C50:        a.clarity(tail, 50),
		C80:        a.clarity(tail, 80),
		CenterTime: a.centerTime(tail),
	}

	m.RT60 = m.T30
	if m.RT60 == 0 {
		m.RT60 = m.T20
	}

	centroid, err := Centroid(ir, a.SampleRate)
	if err != nil {
		return Metrics{}, err
	}
	m.Centroid = centroid

	return m, nil
}

// AnalyzeStereo analyzes both channels of a stereo impulse response.
func (a *Analyzer) AnalyzeStereo(left, right []float64) (StereoMetrics, error) {
	if len(left) != len(right) {
		return StereoMetrics{}, ErrLengthMismatch
	}

	l, err := a.Analyze(left)
	if err != nil {
		return StereoMetrics{}, err
	}
	r, err := a.Analyze(right)
	if err != nil {
		return StereoMetrics{}, err
	}
	corr, err := Correlation(left, right)
	if err != nil {
		return StereoMetrics{}, err
	}

	return StereoMetrics{Left: l, Right: r, Correlation: corr}, nil
}

// DecayCurve returns the Schroeder backward integral of ir in dB relative
// to the total energy, floored at -200 dB.
func (a *Analyzer) DecayCurve(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}
	return schroeder(ir), nil
}

// RT60 returns the reverberation time from the T30 slope, falling back to
// T20 when the response does not decay 35 dB.
func (a *Analyzer) RT60(ir []float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	curve := schroeder(ir)
	if rt := a.slopeTime(curve, -5, -35); rt > 0 {
		return rt, nil
	}
	if rt := a.slopeTime(curve, -5, -25); rt > 0 {
		return rt, nil
	}
	return 0, ErrNoDecay
}

// Clarity returns C(t) = 10*log10(early/late) for a boundary in ms.
func (a *Analyzer) Clarity(ir []float64, timeMs float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}
	if timeMs <= 0 {
		return 0, ErrInvalidTime
	}
	return a.clarity(ir, timeMs), nil
}

// CenterTime returns the temporal energy centroid in seconds.
func (a *Analyzer) CenterTime(ir []float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}
	return a.centerTime(ir), nil
}

// TailLength returns the time in seconds after which the Schroeder curve of
// ir stays below floorDB. It returns the full length if it never gets there.
func (a *Analyzer) TailLength(ir []float64, floorDB float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	curve := schroeder(ir)
	for i, v := range curve {
		if v <= floorDB {
			return float64(i) / a.SampleRate, nil
		}
	}
	return float64(len(ir)) / a.SampleRate, nil
}

func schroeder(ir []float64) []float64 {
	out := make([]float64, len(ir))

	var sum float64
	for i := len(ir) - 1; i >= 0; i-- {
		sum += ir[i] * ir[i]
		out[i] = sum
	}

	total := out[0]
	if total <= 0 {
		return out
	}
	for i, v := range out {
		if v <= 0 {
			out[i] = -200
			continue
		}
		out[i] = core.LinearPowerToDB(v / total)
	}
	return out
}

// slopeTime fits a line to curve between startDB and endDB and returns the
// time it needs to fall 60 dB, or 0 if the range is not reached.
func (a *Analyzer) slopeTime(curve []float64, startDB, endDB float64) float64 {
	start, end := -1, -1
	for i, v := range curve {
		if start < 0 && v <= startDB {
			start = i
		}
		if start >= 0 && v <= endDB {
			end = i
			break
		}
	}
	if start < 0 || end <= start {
		return 0
	}

	var sx, sy, sxx, sxy float64
	n := float64(end - start + 1)
	for i := start; i <= end; i++ {
		x := float64(i - start)
		y := curve[i]
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}

	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}
	slope := (n*sxy - sx*sy) / den * a.SampleRate
	if slope >= 0 {
		return 0
	}
	return -60 / slope
}

func (a *Analyzer) clarity(ir []float64, timeMs float64) float64 {
	boundary := int(math.Round(timeMs * 0.001 * a.SampleRate))
	if boundary <= 0 {
		return math.Inf(-1)
	}
	if boundary >= len(ir) {
		return math.Inf(1)
	}

	var early, late float64
	for i, v := range ir {
		if i < boundary {
			early += v * v
		} else {
			late += v * v
		}
	}

	switch {
	case late <= 0:
		return math.Inf(1)
	case early <= 0:
		return math.Inf(-1)
	}
	return core.LinearPowerToDB(early / late)
}

func (a *Analyzer) centerTime(ir []float64) float64 {
	var num, den float64
	for i, v := range ir {
		e := v * v
		num += float64(i) * e
		den += e
	}
	if den <= 0 {
		return 0
	}
	return num / den / a.SampleRate
}

func peakIndex(ir []float64) int {
	idx := 0
	peak := 0.0
	for i, v := range ir {
		if av := math.Abs(v); av > peak {
			peak = av
			idx = i
		}
	}
	return idx
}
