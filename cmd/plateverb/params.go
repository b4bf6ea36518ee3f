package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cwbudde/algo-plate/dsp/core"
	"github.com/cwbudde/algo-plate/dsp/effects/reverb"
)

// controls are the user-facing knobs. They are mapped onto the plate's raw
// coefficients by apply.
type controls struct {
	Time      float64 `json:"time"`
	DryWet    float64 `json:"drywet"`
	Damp      float64 `json:"damp"`
	HP        float64 `json:"hp"`
	Diffusion float64 `json:"diffusion"`
	Gain      float64 `json:"gain"`
	Freeze    bool    `json:"freeze"`
	LFO1      float64 `json:"lfo1"`
	LFO2      float64 `json:"lfo2"`
}

// defaultControls reproduce the plate's construction defaults through the
// knob mapping, up to rounding of the hp knob.
func defaultControls() controls {
	return controls{
		Time:      0.7,
		DryWet:    0.5,
		Damp:      0.71,
		HP:        0.0707,
		Diffusion: 0.625,
		Gain:      0.2,
		LFO1:      0.5,
		LFO2:      0.3,
	}
}

// loadPreset overlays the JSON file at path onto c. Missing keys keep
// their current value.
func loadPreset(path string, c controls) (controls, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse preset %s: %w", path, err)
	}
	return c, nil
}

// plateSettings are the coefficients handed to the plate.
type plateSettings struct {
	time, inputGain, lp, hp, amount, diffusion float64
	lfo1, lfo2                                 float64
}

// settings maps knobs to coefficients: time is limited to 1.25, the damping
// knob is inverted around 1.01, the hp knob is squared and inverted, and
// freeze forces an endless, undamped tank with its input closed.
func (c controls) settings() plateSettings {
	s := plateSettings{
		time:      core.Clamp(c.Time, 0, 1.25),
		inputGain: c.Gain,
		lp:        core.Clamp(1.01-c.Damp, 0, 1),
		amount:    core.Clamp(c.DryWet, 0, 1),
		diffusion: core.Clamp(c.Diffusion, 0, 0.95),
		lfo1:      c.LFO1,
		lfo2:      c.LFO2,
	}

	hp := core.Clamp(c.HP, 0, 1)
	s.hp = 1 - hp*hp

	if c.Freeze {
		s.time = 1
		s.inputGain = 0
		s.lp = 1
	}
	return s
}

// maxLFORate is the Nyquist rate of an LFO stepped every 32 frames at the
// design rate. The resonator diverges well above it.
const maxLFORate = core.DesignSampleRate / 64.0

func (c controls) validate() error {
	if c.Gain < 0 {
		return fmt.Errorf("gain must be >= 0: %f", c.Gain)
	}
	for _, lfo := range []struct {
		name string
		rate float64
	}{{"lfo1", c.LFO1}, {"lfo2", c.LFO2}} {
		if !(lfo.rate >= 0 && lfo.rate <= maxLFORate) {
			return fmt.Errorf("%s rate must be in [0, %g] Hz: %f", lfo.name, maxLFORate, lfo.rate)
		}
	}
	return nil
}

func (c controls) apply(p *reverb.Plate) {
	s := c.settings()
	p.SetTime(s.time)
	p.SetInputGain(s.inputGain)
	p.SetLP(s.lp)
	p.SetHP(s.hp)
	p.SetAmount(s.amount)
	p.SetDiffusion(s.diffusion)
	p.SetLFO1(s.lfo1)
	p.SetLFO2(s.lfo2)
}
