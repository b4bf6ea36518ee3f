package main

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/cwbudde/algo-plate/dsp/effects/reverb"
)

// bytesPerFrame is one stereo frame of little-endian float32 samples.
const bytesPerFrame = 8

// plateStream renders a source through a plate on demand and serves the
// result as interleaved little-endian float32 stereo, the sample format of
// the audio device. After the source ends it keeps reading the tail until
// the tail gate closes or maxTail frames have been produced.
type plateStream struct {
	plate   *reverb.Plate
	gate    *tailGate
	srcL    []float64
	srcR    []float64
	pos     int
	tail    int
	maxTail int
	done    bool

	l, r []float64
	buf  []byte
	out  []byte
}

func newPlateStream(p *reverb.Plate, left, right []float64, sampleRate int, opts renderOptions) *plateStream {
	block := max(opts.blockSize, 1)
	frames := min(len(left), len(right))
	return &plateStream{
		plate:   p,
		gate:    newTailGate(p, opts.tailDB),
		srcL:    left[:frames],
		srcR:    right[:frames],
		maxTail: int(opts.tail * float64(sampleRate)),
		l:       make([]float64, block),
		r:       make([]float64, block),
		buf:     make([]byte, block*bytesPerFrame),
	}
}

func (s *plateStream) Read(b []byte) (int, error) {
	if len(s.out) == 0 && !s.fill() {
		return 0, io.EOF
	}
	n := copy(b, s.out)
	s.out = s.out[n:]
	return n, nil
}

// fill renders the next block into s.out. It reports false once the
// stream is exhausted.
func (s *plateStream) fill() bool {
	if s.done {
		return false
	}

	var n int
	if s.pos < len(s.srcL) {
		n = copy(s.l, s.srcL[s.pos:])
		copy(s.r, s.srcR[s.pos:s.pos+n])
		s.pos += n
	} else {
		n = min(len(s.l), s.maxTail-s.tail)
		if n <= 0 {
			s.done = true
			return false
		}
		clear(s.l[:n])
		clear(s.r[:n])
		s.tail += n
	}

	l, r := s.l[:n], s.r[:n]
	processBlock(s.plate, l, r)
	if s.pos >= len(s.srcL) && s.tail > 0 && s.gate.closed(l, r) {
		s.done = true
	}

	out := s.buf[:n*bytesPerFrame]
	for i := range n {
		binary.LittleEndian.PutUint32(out[i*bytesPerFrame:], math.Float32bits(float32(l[i])))
		binary.LittleEndian.PutUint32(out[i*bytesPerFrame+4:], math.Float32bits(float32(r[i])))
	}
	s.out = out
	return true
}

// frames returns the number of frames rendered so far.
func (s *plateStream) frames() int { return s.pos + s.tail }
