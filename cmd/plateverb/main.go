// Command plateverb renders audio files through the plate reverb.
//
// Usage:
//
//	plateverb [flags] input...
//
// Each input (WAV, AIFF, MP3 or Ogg Vorbis) is written as a WAV file named
// "<input>.plate.wav". A reverb tail is appended until it decays below
// -tail-db or -tail seconds have passed.
//
// Examples:
//
//	plateverb vocals.wav
//	plateverb -time 0.9 -damp 0.4 -drywet 0.3 -out rendered *.wav
//	plateverb -preset hall.json -format 32 -bits 24 drums.aiff
//	plateverb -ir -time 0.8
//	plateverb -play -freeze guitar.mp3
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/cwbudde/algo-plate/dsp/core"
	"github.com/cwbudde/algo-plate/dsp/fxengine"
)

func main() {
	c := defaultControls()

	outDir := flag.String("out", "", "output directory (default: next to each input)")
	presetPath := flag.String("preset", "", "JSON preset with control values; explicit flags override it")
	bindControls(flag.CommandLine, &c)
	formatBits := flag.Int("format", 16, "delay memory format: 12, 16, 32 or 64")
	tail := flag.Float64("tail", 10, "maximum tail length in seconds")
	tailDB := flag.Float64("tail-db", -90, "tail stops once output and tank stay below this level (dBFS)")
	bits := flag.Int("bits", 16, "output bit depth: 16 or 24")
	jobs := flag.Int("jobs", runtime.NumCPU(), "files rendered in parallel")
	ir := flag.Bool("ir", false, "render the impulse response and print decay metrics")
	irOut := flag.String("ir-out", "", "with -ir, also write the normalized impulse response to this WAV file")
	play := flag.Bool("play", false, "preview the first input on the sound card")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: plateverb [flags] input...\n\n")
		fmt.Fprintf(os.Stderr, "Renders audio files through a Dattorro plate reverb.\n")
		fmt.Fprintf(os.Stderr, "Reads WAV, AIFF, MP3 and Ogg Vorbis; writes WAV.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  plateverb vocals.wav\n")
		fmt.Fprintf(os.Stderr, "  plateverb -time 0.9 -damp 0.4 -out rendered *.wav\n")
		fmt.Fprintf(os.Stderr, "  plateverb -ir -time 0.8\n")
		fmt.Fprintf(os.Stderr, "  plateverb -play -freeze guitar.mp3\n")
	}
	flag.Parse()

	if *presetPath != "" {
		preset, err := loadPreset(*presetPath, defaultControls())
		if err != nil {
			die("%v", err)
		}
		c = overrideWithFlags(flag.CommandLine, preset, c)
	}
	if err := c.validate(); err != nil {
		die("%v", err)
	}

	format, err := fxengine.ParseFormat(*formatBits)
	if err != nil {
		die("%v", err)
	}
	if *bits != 16 && *bits != 24 {
		die("bits must be 16 or 24: %d", *bits)
	}
	if *tail < 0 {
		die("tail must be >= 0: %f", *tail)
	}
	if *jobs < 1 {
		die("jobs must be >= 1: %d", *jobs)
	}

	opts := renderOptions{
		controls:  c,
		format:    format,
		outDir:    *outDir,
		tail:      *tail,
		tailDB:    *tailDB,
		bits:      *bits,
		blockSize: core.DefaultProcessorConfig().BlockSize,
	}

	if *ir {
		if err := analyzeIR(os.Stdout, opts, *irOut); err != nil {
			die("%v", err)
		}
		return
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if *play {
		if err := preview(inputs[0], opts); err != nil {
			die("%v", err)
		}
		return
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			die("%v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := renderAll(ctx, inputs, opts, *jobs, os.Stderr); err != nil {
		stop()
		die("%v", err)
	}
}

func bindControls(fs *flag.FlagSet, c *controls) {
	fs.Float64Var(&c.Time, "time", c.Time, "decay time knob [0, 1.25]")
	fs.Float64Var(&c.DryWet, "drywet", c.DryWet, "dry/wet mix [0, 1]")
	fs.Float64Var(&c.Damp, "damp", c.Damp, "high frequency damping knob [0, 1]")
	fs.Float64Var(&c.HP, "hp", c.HP, "low cut knob [0, 1]")
	fs.Float64Var(&c.Diffusion, "diffusion", c.Diffusion, "diffusion [0, 0.95]")
	fs.Float64Var(&c.Gain, "gain", c.Gain, "input gain")
	fs.BoolVar(&c.Freeze, "freeze", c.Freeze, "hold the tank: endless decay, input closed")
	fs.Float64Var(&c.LFO1, "lfo1", c.LFO1, "input smear modulation rate in Hz")
	fs.Float64Var(&c.LFO2, "lfo2", c.LFO2, "tank modulation rate in Hz")
}

// overrideWithFlags returns preset with every control flag that was set in
// fs taken from explicit.
func overrideWithFlags(fs *flag.FlagSet, preset, explicit controls) controls {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "time":
			preset.Time = explicit.Time
		case "drywet":
			preset.DryWet = explicit.DryWet
		case "damp":
			preset.Damp = explicit.Damp
		case "hp":
			preset.HP = explicit.HP
		case "diffusion":
			preset.Diffusion = explicit.Diffusion
		case "gain":
			preset.Gain = explicit.Gain
		case "freeze":
			preset.Freeze = explicit.Freeze
		case "lfo1":
			preset.LFO1 = explicit.LFO1
		case "lfo2":
			preset.LFO2 = explicit.LFO2
		}
	})
	return preset
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
