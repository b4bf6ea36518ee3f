// Package decay analyzes reverb impulse responses and tails.
//
// Energy-decay metrics (EDT, T20, T30, RT60) come from the Schroeder
// backward integral; clarity and center time follow the usual room
// acoustics definitions. Spectral centroid and inter-channel correlation
// describe the color and width of a stereo tail.
//
// All functions are pure: they take float64 buffers at a given sample rate
// and return scalar results.
package decay
