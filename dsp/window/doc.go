// Package window provides the tapering windows used before spectral
// analysis of reverb tails.
package window
