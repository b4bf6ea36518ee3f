package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-plate/dsp/core"
	"github.com/cwbudde/algo-plate/dsp/fxengine"
)

const (
	defaultPlateTime      = 0.7
	defaultPlateInputGain = 0.2
	defaultPlateLP        = 0.3
	defaultPlateHP        = 0.995
	defaultPlateAmount    = 0.5
	defaultPlateDiffusion = 0.625
	defaultPlateLFO1Hz    = 0.5
	defaultPlateLFO2Hz    = 0.3

	diffusionSlew = 0.005

	smearOffset = 10.0
	smearDepth  = 80.0
	smearWrite  = 100

	del2ReadOffset = 6211.0
	del2ModDepth   = 100.0

	// tankWriteGain scales the accumulator after each tank delay write; the
	// doubled value feeds the DC blocker and the wet output only.
	tankWriteGain = 2.0
)

// plateLines are the ten delay lines of the plate, in samples at
// core.DesignSampleRate. Their order fixes the memory layout.
var plateLines = [...]fxengine.LineSpec{
	{Name: "ap1", Length: 150},
	{Name: "ap2", Length: 214},
	{Name: "ap3", Length: 319},
	{Name: "ap4", Length: 527},
	{Name: "dap1a", Length: 2182},
	{Name: "dap1b", Length: 2690},
	{Name: "del1", Length: 4501},
	{Name: "dap2a", Length: 2525},
	{Name: "dap2b", Length: 2197},
	{Name: "del2", Length: 6312},
}

type plateConfig struct {
	format   fxengine.Format
	capacity int
	memory   fxengine.Memory
}

// Option configures NewPlate.
type Option func(*plateConfig)

// WithFormat selects the storage format of the delay memory.
// Default: 16-bit fixed point.
func WithFormat(format fxengine.Format) Option {
	return func(cfg *plateConfig) {
		cfg.format = format
	}
}

// WithCapacity sets the number of memory cells. It must be a power of two
// large enough for the plate's lines. 0 selects the default, the line span
// rounded up to a power of two (32768).
func WithCapacity(capacity int) Option {
	return func(cfg *plateConfig) {
		cfg.capacity = capacity
	}
}

// WithMemory makes the plate run on caller-owned memory. Format and
// capacity are taken from mem.
func WithMemory(mem fxengine.Memory) Option {
	return func(cfg *plateConfig) {
		cfg.memory = mem
	}
}

// Plate is a stereo Dattorro/Griesinger plate reverb: a four stage input
// diffuser followed by a figure-eight tank of two modulated all-pass/delay
// loops, running on one fxengine ring buffer.
//
// Line lengths and LFO rates are tuned for 44.1 kHz and are not rescaled at
// other rates; the reverb then sounds proportionally shorter or longer.
//
// Setters store their argument as is. Values outside the usual ranges
// (time > 1, diffusion >= 1, lp outside [0, 1]) make the network unstable;
// clamping is left to the caller.
type Plate struct {
	engine *fxengine.Engine
	ctx    fxengine.Context

	ap1, ap2, ap3, ap4 fxengine.Line
	dap1a, dap1b, del1 fxengine.Line
	dap2a, dap2b, del2 fxengine.Line

	time      float64
	inputGain float64
	diffusion float64
	lp        float64
	hp        float64
	amount    float64
	lfo1Hz    float64
	lfo2Hz    float64

	smoothedDiffusion float64
	lp1, lp2          float64
	hp1, hp2          fxengine.DCState
}

// NewPlate creates a plate reverb with default parameters.
func NewPlate(opts ...Option) (*Plate, error) {
	cfg := plateConfig{format: fxengine.Format16Bit}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	layout, err := fxengine.NewLayout(plateLines[:]...)
	if err != nil {
		return nil, fmt.Errorf("plate reverb layout: %w", err)
	}

	mem := cfg.memory
	if mem == nil {
		capacity := cfg.capacity
		if capacity == 0 {
			capacity = core.NextPowerOfTwo(layout.Span())
		}

		mem, err = fxengine.NewMemory(cfg.format, capacity)
		if err != nil {
			return nil, fmt.Errorf("plate reverb memory: %w", err)
		}
	}

	engine, err := fxengine.New(mem, layout)
	if err != nil {
		return nil, fmt.Errorf("plate reverb: %w", err)
	}

	p := &Plate{
		engine:    engine,
		time:      defaultPlateTime,
		inputGain: defaultPlateInputGain,
		diffusion: defaultPlateDiffusion,
		lp:        defaultPlateLP,
		hp:        defaultPlateHP,
		amount:    defaultPlateAmount,
	}

	lines := []*fxengine.Line{
		&p.ap1, &p.ap2, &p.ap3, &p.ap4,
		&p.dap1a, &p.dap1b, &p.del1,
		&p.dap2a, &p.dap2b, &p.del2,
	}
	for i, dst := range lines {
		*dst = layout.At(i)
	}

	p.SetLFO1(defaultPlateLFO1Hz)
	p.SetLFO2(defaultPlateLFO2Hz)
	p.smoothedDiffusion = p.diffusion

	return p, nil
}

// SetTime sets the tank feedback gain. 1 sustains forever.
func (p *Plate) SetTime(v float64) { p.time = v }

// SetInputGain sets the gain applied to (left + right) before the diffuser.
func (p *Plate) SetInputGain(v float64) { p.inputGain = v }

// SetDiffusion sets the all-pass coefficient target. The value in use
// follows it with a one-pole slew per sample.
func (p *Plate) SetDiffusion(v float64) { p.diffusion = v }

// SetLP sets the tank low-pass coefficient; 1 disables damping.
func (p *Plate) SetLP(v float64) { p.lp = v }

// SetHP sets the DC blocker coefficient on the wet outputs.
func (p *Plate) SetHP(v float64) { p.hp = v }

// SetAmount sets the dry/wet crossfade: 0 is dry, 1 is fully wet.
func (p *Plate) SetAmount(v float64) { p.amount = v }

// SetLFO1 sets the rate of the input smear modulation in Hz at the design
// sample rate. The oscillator restarts.
func (p *Plate) SetLFO1(hz float64) {
	p.lfo1Hz = hz
	p.engine.SetLFOFrequency(fxengine.LFO1, hz/core.DesignSampleRate)
}

// SetLFO2 sets the rate of the tank delay modulation in Hz at the design
// sample rate. The oscillator restarts.
func (p *Plate) SetLFO2(hz float64) {
	p.lfo2Hz = hz
	p.engine.SetLFOFrequency(fxengine.LFO2, hz/core.DesignSampleRate)
}

// Time returns the tank feedback gain.
func (p *Plate) Time() float64 { return p.time }

// InputGain returns the input gain.
func (p *Plate) InputGain() float64 { return p.inputGain }

// Diffusion returns the diffusion target.
func (p *Plate) Diffusion() float64 { return p.diffusion }

// LP returns the tank low-pass coefficient.
func (p *Plate) LP() float64 { return p.lp }

// HP returns the DC blocker coefficient.
func (p *Plate) HP() float64 { return p.hp }

// Amount returns the dry/wet crossfade.
func (p *Plate) Amount() float64 { return p.amount }

// LFO1 returns the smear modulation rate in Hz.
func (p *Plate) LFO1() float64 { return p.lfo1Hz }

// LFO2 returns the tank modulation rate in Hz.
func (p *Plate) LFO2() float64 { return p.lfo2Hz }

// Format returns the storage format of the delay memory.
func (p *Plate) Format() fxengine.Format { return p.engine.Format() }

// Capacity returns the size of the delay memory in cells.
func (p *Plate) Capacity() int { return p.engine.Capacity() }

// Layout returns the delay-line layout.
func (p *Plate) Layout() *fxengine.Layout { return p.engine.Layout() }

// Reset clears the delay memory and all filter states.
func (p *Plate) Reset() {
	p.engine.Reset()
	p.lp1, p.lp2 = 0, 0
	p.hp1, p.hp2 = fxengine.DCState{}, fxengine.DCState{}
	p.smoothedDiffusion = p.diffusion
}

// Process runs the reverb in place over min(len(left), len(right)) frames.
func (p *Plate) Process(left, right []float64) {
	n := min(len(left), len(right))
	for i := range n {
		left[i], right[i] = p.frame(left[i], right[i])
	}
}

// ProcessSample processes one stereo frame.
func (p *Plate) ProcessSample(left, right float64) (float64, float64) {
	return p.frame(left, right)
}

// ProcessInterleaved processes interleaved stereo frames in place. A
// trailing odd sample is left untouched.
func (p *Plate) ProcessInterleaved(buf []float64) {
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = p.frame(buf[i], buf[i+1])
	}
}

func (p *Plate) frame(left, right float64) (float64, float64) {
	c := &p.ctx

	p.smoothedDiffusion += diffusionSlew * (p.diffusion - p.smoothedDiffusion)
	kap := p.smoothedDiffusion
	krt := p.time
	klp := p.lp
	khp := p.hp

	p.engine.Start(c)

	c.InterpolateLFO(p.ap1, smearOffset, fxengine.LFO1, smearDepth, 1)
	c.Write(p.ap1, smearWrite, 0)

	c.Add(left+right, p.inputGain)

	c.Read(p.ap1, fxengine.Tail, kap)
	c.WriteAllPass(p.ap1, 0, -kap)
	c.Read(p.ap2, fxengine.Tail, kap)
	c.WriteAllPass(p.ap2, 0, -kap)
	c.Read(p.ap3, fxengine.Tail, kap)
	c.WriteAllPass(p.ap3, 0, -kap)
	c.Read(p.ap4, fxengine.Tail, kap)
	c.WriteAllPass(p.ap4, 0, -kap)
	apout := c.Tap(1)

	c.Load(apout)
	c.InterpolateLFO(p.del2, del2ReadOffset, fxengine.LFO2, del2ModDepth, krt)
	c.Lp(&p.lp1, klp)
	c.Read(p.dap1a, fxengine.Tail, -kap)
	c.WriteAllPass(p.dap1a, 0, kap)
	c.Read(p.dap1b, fxengine.Tail, kap)
	c.WriteAllPass(p.dap1b, 0, -kap)
	c.Write(p.del1, 0, tankWriteGain)
	c.DCBlock(&p.hp1, khp)
	wet := c.Tap(0)

	outL := left + (wet-left)*p.amount

	c.Load(apout)
	c.Read(p.del1, fxengine.Tail, krt)
	c.Lp(&p.lp2, klp)
	c.Read(p.dap2a, fxengine.Tail, kap)
	c.WriteAllPass(p.dap2a, 0, -kap)
	c.Read(p.dap2b, fxengine.Tail, -kap)
	c.WriteAllPass(p.dap2b, 0, kap)
	c.Write(p.del2, 0, tankWriteGain)
	c.DCBlock(&p.hp2, khp)
	wet = c.Tap(0)

	outR := right + (wet-right)*p.amount

	return outL, outR
}

// Energy returns the weighted energy held in the tank: the squared samples
// of both tank delays plus the squared states of the four tank all-passes
// weighted by 1 - kap². With time 1, lp 1, zero-rate LFOs and 64-bit
// storage this quantity is conserved once the input diffuser has drained.
func (p *Plate) Energy() float64 {
	e := p.engine

	delays := e.LineEnergy(p.del1, 0, p.del1.Length-1) +
		e.LineEnergy(p.del2, 0, p.del2.Length-1)
	allPasses := e.LineEnergy(p.dap1a, 0, p.dap1a.Length-1) +
		e.LineEnergy(p.dap1b, 0, p.dap1b.Length-1) +
		e.LineEnergy(p.dap2a, 0, p.dap2a.Length-1) +
		e.LineEnergy(p.dap2b, 0, p.dap2b.Length-1)

	kap := p.smoothedDiffusion

	return delays + (1-kap*kap)*allPasses
}
