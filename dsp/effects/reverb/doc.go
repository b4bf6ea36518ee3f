// Package reverb provides reusable non-I/O reverb processors.
//
// Included processors:
//   - Plate: Dattorro/Griesinger stereo plate reverb on a shared
//     fxengine ring buffer, with selectable storage precision.
package reverb
