package synth

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

// MIDINoteToFreq converts a MIDI note number to a frequency in Hz.
func MIDINoteToFreq(note int) float64 {
	const a4Freq = 440.0
	const a4Note = 69
	return a4Freq * pow2Approx(float64(note-a4Note)/12.0)
}

func pow2Approx(x float64) float64 {
	const ln2 = 0.69314718055994530942
	return approx.FastExp(x * ln2)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
