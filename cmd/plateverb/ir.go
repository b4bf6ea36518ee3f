package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-plate/dsp/core"
	"github.com/cwbudde/algo-plate/dsp/signal"
	"github.com/cwbudde/algo-plate/internal/audiofile"
	"github.com/cwbudde/algo-plate/measure/decay"
)

// irPeak is the peak level of a written impulse response.
const irPeak = 0.9

// impulseResponse renders the fully wet response of a plate configured by
// opts to a unit impulse at the design sample rate.
func impulseResponse(opts renderOptions) (left, right []float64, err error) {
	opts.controls.DryWet = 1
	opts.controls.Freeze = false

	p, err := newPlate(opts)
	if err != nil {
		return nil, nil, err
	}

	impulse, err := signal.NewGenerator().Impulse(1, 1, 0)
	if err != nil {
		return nil, nil, err
	}

	left, right, _ = render(p, impulse, impulse, core.DesignSampleRate, opts)
	return left, right, nil
}

// analyzeIR prints decay metrics of the impulse response. When wavPath is
// set the response is also written there, normalized to irPeak.
func analyzeIR(w io.Writer, opts renderOptions, wavPath string) error {
	left, right, err := impulseResponse(opts)
	if err != nil {
		return err
	}

	a := decay.NewAnalyzer(core.DesignSampleRate)
	m, err := a.AnalyzeStereo(left, right)
	if err != nil {
		return err
	}

	s := opts.controls.settings()
	fmt.Fprintf(w, "plate: time %.3f  lp %.3f  hp %.4f  diffusion %.3f  format %s\n",
		s.time, s.lp, s.hp, s.diffusion, opts.format)
	fmt.Fprintf(w, "length: %.2f s\n\n", float64(len(left))/core.DesignSampleRate)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\tleft\tright\t\n")
	row := func(name, unit string, l, r float64) {
		fmt.Fprintf(tw, "%s\t%.3f %s\t%.3f %s\t\n", name, l, unit, r, unit)
	}
	row("RT60", "s", m.Left.RT60, m.Right.RT60)
	row("EDT", "s", m.Left.EDT, m.Right.EDT)
	row("T20", "s", m.Left.T20, m.Right.T20)
	row("T30", "s", m.Left.T30, m.Right.T30)
	row("C50", "dB", m.Left.C50, m.Right.C50)
	row("C80", "dB", m.Left.C80, m.Right.C80)
	row("Ts", "s", m.Left.CenterTime, m.Right.CenterTime)
	row("centroid", "Hz", m.Left.Centroid, m.Right.Centroid)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\ninter-channel correlation: %.3f\n", m.Correlation)

	if wavPath == "" {
		return nil
	}
	return writeIR(wavPath, left, right, opts.bits)
}

// writeIR scales both channels by the same factor so that the louder one
// peaks at irPeak.
func writeIR(path string, left, right []float64, bits int) error {
	peak := max(signal.Peak(left), signal.Peak(right))
	if peak == 0 {
		return fmt.Errorf("impulse response is silent")
	}

	nl, err := signal.Normalize(left, irPeak*signal.Peak(left)/peak)
	if err != nil {
		return err
	}
	nr, err := signal.Normalize(right, irPeak*signal.Peak(right)/peak)
	if err != nil {
		return err
	}

	return audiofile.Write(path, &audiofile.Audio{
		SampleRate: core.DesignSampleRate,
		Left:       nl,
		Right:      nr,
	}, bits)
}
