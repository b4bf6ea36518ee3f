// Package fxengine implements a delay-network engine on one shared ring
// buffer.
//
// A single power-of-two sized [Memory] is carved into named delay lines by a
// [Layout]. Every audio frame the [Engine] moves its write cursor back by one
// cell and hands out a [Context]: a small accumulator machine whose Read,
// Write, WriteAllPass, Interpolate and filter operations address the lines
// relative to that cursor. Reverbs and other feedback networks are written as
// a fixed sequence of Context calls per frame.
//
// # Storage formats
//
// Samples are stored in one of four representations selected at construction
// time ([Format12Bit], [Format16Bit], [Format32Bit], [Format64Bit]). All
// arithmetic happens in float64; the format only decides what is persisted
// and therefore how much quantization noise feeds back into the network.
//
// # Usage
//
//	layout, _ := fxengine.NewLayout(
//		fxengine.LineSpec{Name: "ap", Length: 150},
//		fxengine.LineSpec{Name: "del", Length: 4500},
//	)
//	mem, _ := fxengine.NewMemory(fxengine.Format16Bit, 8192)
//	e, _ := fxengine.New(mem, layout)
//	ap, _ := layout.Line("ap")
//
//	var c fxengine.Context
//	for i := range buf {
//		e.Start(&c)
//		c.Load(buf[i])
//		c.Read(ap, fxengine.Tail, 0.6)
//		c.WriteAllPass(ap, 0, -0.6)
//		buf[i] = c.Tap(0)
//	}
//
// Processing never allocates and never blocks. An Engine is not safe for
// concurrent use; give every audio worker its own instance.
package fxengine
