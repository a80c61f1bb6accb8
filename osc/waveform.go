package osc

import "math"

// Waveform selects the pure per-phase function a Phasor evaluates.
type Waveform int

// Waveshape ids as exposed to the parameter layer.
const (
	Sine Waveform = iota
	Triangle
	Sawtooth
	Square
)

// DefaultPulseWidth is the square wave duty cycle.
const DefaultPulseWidth = 0.5

// WaveformFromID maps a waveshape id to a Waveform, clamping unknown ids.
func WaveformFromID(id int) Waveform {
	if id < int(Sine) {
		return Sine
	}
	if id > int(Square) {
		return Square
	}
	return Waveform(id)
}

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	case Square:
		return "square"
	default:
		return "unknown"
	}
}

// Value evaluates the raw waveform at phase p. For p in [0,1) the result is
// in [-1,1].
func (w Waveform) Value(p, pulseWidth float64) float64 {
	switch w {
	case Triangle:
		x := 0.5*p + 0.25
		frac := x - math.Floor(x)
		return 1.0 - 4.0*math.Abs(0.5-frac)
	case Sawtooth:
		return 2.0*p - 1.0
	case Square:
		if p <= pulseWidth {
			return 1.0
		}
		return -1.0
	default:
		return math.Sin(2.0 * math.Pi * p)
	}
}
