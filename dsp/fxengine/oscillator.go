package fxengine

// Oscillator is a two-pole resonator producing an approximate cosine in
// [0, 1]. The resonator coefficient uses a parabolic approximation of
// 2*cos(2*pi*f), which is accurate enough for slow modulation and costs one
// multiply per step.
type Oscillator struct {
	coefficient      float64
	initialAmplitude float64
	y0               float64
	y1               float64
}

// Init sets the frequency in cycles per step and restarts the oscillator.
func (o *Oscillator) Init(frequency float64) {
	sign := 16.0
	frequency -= 0.25
	if frequency < 0 {
		frequency = -frequency
	} else {
		if frequency > 0.5 {
			frequency -= 0.5
		} else {
			sign = -16.0
		}
	}

	o.coefficient = sign * frequency * (1 - 2*frequency)
	o.initialAmplitude = o.coefficient * 0.25
	o.Start()
}

// Start rewinds the oscillator to phase zero.
func (o *Oscillator) Start() {
	o.y1 = o.initialAmplitude
	o.y0 = 0.5
}

// Value returns the current output without advancing.
func (o *Oscillator) Value() float64 {
	return o.y1 + 0.5
}

// Next advances one step and returns the new output.
func (o *Oscillator) Next() float64 {
	temp := o.y0
	o.y0 = o.coefficient*o.y0 - o.y1
	o.y1 = temp
	return temp + 0.5
}
