package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/cwbudde/algo-plate/dsp/core"
	"github.com/cwbudde/algo-plate/dsp/effects/reverb"
	"github.com/cwbudde/algo-plate/dsp/fxengine"
	"github.com/cwbudde/algo-plate/dsp/signal"
	"github.com/cwbudde/algo-plate/internal/audiofile"
)

// tailHoldBlocks is the number of consecutive quiet blocks that end a tail.
const tailHoldBlocks = 8

type renderOptions struct {
	controls  controls
	format    fxengine.Format
	outDir    string
	tail      float64 // seconds
	tailDB    float64 // dBFS
	bits      int
	blockSize int
}

func newPlate(opts renderOptions) (*reverb.Plate, error) {
	p, err := reverb.NewPlate(reverb.WithFormat(opts.format))
	if err != nil {
		return nil, err
	}
	opts.controls.apply(p)
	return p, nil
}

// outputPath places "<name>.plate.wav" in dir, or next to input when dir
// is empty.
func outputPath(input, dir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+".plate.wav")
}

// renderAll processes every input on its own plate, at most jobs at a time.
func renderAll(ctx context.Context, inputs []string, opts renderOptions, jobs int, log io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	progress := newProgress(log, len(inputs))
	for _, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out := outputPath(in, opts.outDir)
			stats, err := renderFile(in, out, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			if stats.sampleRate != core.DesignSampleRate {
				progress.warnf("%s: %d Hz input, the plate is tuned for %d Hz", in, stats.sampleRate, core.DesignSampleRate)
			}
			progress.done(in, out, stats)
			return nil
		})
	}
	return g.Wait()
}

type renderStats struct {
	sampleRate int
	tailFrames int
	peak       float64
}

func renderFile(input, output string, opts renderOptions) (renderStats, error) {
	src, err := audiofile.Read(input)
	if err != nil {
		return renderStats{}, err
	}

	p, err := newPlate(opts)
	if err != nil {
		return renderStats{}, err
	}

	left, right, tail := render(p, src.Left, src.Right, src.SampleRate, opts)

	dst := &audiofile.Audio{SampleRate: src.SampleRate, Left: left, Right: right}
	if err := audiofile.Write(output, dst, opts.bits); err != nil {
		return renderStats{}, err
	}

	return renderStats{
		sampleRate: src.SampleRate,
		tailFrames: tail,
		peak:       max(signal.Peak(left), signal.Peak(right)),
	}, nil
}

// render runs the input through p block by block, then keeps feeding
// silence for at most opts.tail seconds. The tail stops early once both the
// output and the tank stay below opts.tailDB for tailHoldBlocks blocks. The
// soft clipper is applied to everything that leaves the plate.
func render(p *reverb.Plate, inL, inR []float64, sampleRate int, opts renderOptions) (left, right []float64, tailFrames int) {
	block := max(opts.blockSize, 1)
	maxTail := int(opts.tail * float64(sampleRate))
	gate := newTailGate(p, opts.tailDB)

	frames := min(len(inL), len(inR))
	left = make([]float64, frames, frames+maxTail)
	right = make([]float64, frames, frames+maxTail)
	copy(left, inL)
	copy(right, inR)

	for start := 0; start < len(left); start += block {
		end := min(start+block, len(left))
		processBlock(p, left[start:end], right[start:end])
	}

	for tailFrames < maxTail {
		n := min(block, maxTail-tailFrames)
		start := len(left)
		left = append(left, make([]float64, n)...)
		right = append(right, make([]float64, n)...)

		l, r := left[start:], right[start:]
		processBlock(p, l, r)
		tailFrames += n

		if gate.closed(l, r) {
			break
		}
	}

	return left, right, tailFrames
}

func processBlock(p *reverb.Plate, l, r []float64) {
	p.Process(l, r)
	core.SoftClipInPlace(l)
	core.SoftClipInPlace(r)
}

// tailGate decides when a reverb tail has died away: both the rendered
// block and the energy left in the tank must stay below the threshold for
// tailHoldBlocks blocks in a row.
type tailGate struct {
	plate     *reverb.Plate
	threshold float64
	tankCells float64
	quiet     int
}

func newTailGate(p *reverb.Plate, floorDB float64) *tailGate {
	return &tailGate{
		plate:     p,
		threshold: core.DBToLinear(floorDB),
		tankCells: float64(p.Layout().Total()),
	}
}

// closed feeds the gate one processed block.
func (g *tailGate) closed(l, r []float64) bool {
	tankRMS := math.Sqrt(g.plate.Energy() / g.tankCells)
	if stereoRMS(l, r) < g.threshold && tankRMS < g.threshold {
		g.quiet++
	} else {
		g.quiet = 0
	}
	return g.quiet >= tailHoldBlocks
}

func stereoRMS(l, r []float64) float64 {
	if len(l) == 0 {
		return 0
	}
	var sum float64
	for i := range l {
		sum += l[i]*l[i] + r[i]*r[i]
	}
	return math.Sqrt(sum / float64(2*len(l)))
}

// progress reports finished files. On a terminal it keeps a single status
// line updated; otherwise it prints one line per file.
type progress struct {
	mu    sync.Mutex
	w     io.Writer
	tty   bool
	total int
	n     int
}

func newProgress(w io.Writer, total int) *progress {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &progress{w: w, tty: tty, total: total}
}

func (p *progress) warnf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tty {
		fmt.Fprint(p.w, "\r\x1b[K")
	}
	fmt.Fprintf(p.w, "warning: "+format+"\n", args...)
}

func (p *progress) done(in, out string, s renderStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.n++
	tail := float64(s.tailFrames) / float64(s.sampleRate)
	if p.tty {
		fmt.Fprintf(p.w, "\r[%d/%d] %s (+%.1fs tail, peak %.1f dBFS)\x1b[K", p.n, p.total, filepath.Base(out), tail, core.LinearToDB(s.peak))
		if p.n == p.total {
			fmt.Fprintln(p.w)
		}
		return
	}
	fmt.Fprintf(p.w, "%s -> %s (+%.1fs tail, peak %.1f dBFS)\n", in, out, tail, core.LinearToDB(s.peak))
}
