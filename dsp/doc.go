// Package dsp holds the small per-sample building blocks shared by the synth
// voice and the effects: a linear parameter smoother and a fractional
// circular delay buffer.
package dsp
