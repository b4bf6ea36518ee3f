package core

import "math"

// DBToLinear converts a level in dB to an amplitude factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts an amplitude factor to dB: -Inf for 0, NaN below 0.
func LinearToDB(amplitude float64) float64 {
	return toDB(amplitude, 20)
}

// LinearPowerToDB converts an energy or power ratio to dB: -Inf for 0, NaN
// below 0.
func LinearPowerToDB(power float64) float64 {
	return toDB(power, 10)
}

func toDB(v, factor float64) float64 {
	switch {
	case v < 0:
		return math.NaN()
	case v == 0:
		return math.Inf(-1)
	}
	return factor * math.Log10(v)
}
