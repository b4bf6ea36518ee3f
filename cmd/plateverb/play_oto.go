//go:build !headless

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-plate/internal/audiofile"
)

// playerBuffer is the device buffer length requested from oto.
const playerBuffer = 100 * time.Millisecond

// preview plays input through the plate on the default output device. The
// plate runs inside the player's read callback.
func preview(input string, opts renderOptions) error {
	src, err := audiofile.Read(input)
	if err != nil {
		return err
	}
	p, err := newPlate(opts)
	if err != nil {
		return err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   src.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   playerBuffer,
	})
	if err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	<-ready

	stream := newPlateStream(p, src.Left, src.Right, src.SampleRate, opts)
	player := ctx.NewPlayer(stream)
	defer player.Close()

	fmt.Fprintf(os.Stderr, "playing %s (%s, %d Hz)\n", input, audiofile.KindFromPath(input), src.SampleRate)
	player.Play()
	for player.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}
	if err := player.Err(); err != nil {
		return err
	}

	tail := float64(stream.frames()-src.Frames()) / float64(src.SampleRate)
	fmt.Fprintf(os.Stderr, "done, %.1f s tail\n", tail)
	return nil
}
