package synth

import (
	"github.com/cwbudde/algo-pmsynth/envelope"
	"github.com/cwbudde/algo-pmsynth/fx"
)

// NumOperators is the number of operators per voice (A, B, C, D).
const NumOperators = 4

// DefaultNumLFOs is the number of LFOs in the reference configuration.
const DefaultNumLFOs = 2

// Parameter bounds shared by the voice components and the parameter layout.
const (
	MinFilterFrequency = 0.1
	MaxFilterFrequency = 22000.0
	MinFilterResonance = 0.1
	MaxFilterResonance = 1.5

	MinLFORate = 0.1
	MaxLFORate = 20.0

	MinDelayTime = 0.001
	MaxDelayTime = 2.0

	MaxPitchEnvSemitones = 24.0
)

// Filter type ids.
const (
	FilterLowPass = iota
	FilterHighPass
	FilterBandPass
	FilterNotch
)

// Params is a read-only snapshot of every synthesis parameter, taken once per
// block by the audio thread.
type Params struct {
	Operators     [NumOperators]OperatorParams
	Algorithm     int
	Filter        FilterParams
	LFOs          []LFOParams
	PitchEnvelope PitchEnvelopeParams
	Delay         fx.DelayParams
	Reverb        fx.ReverbParams
}

// OperatorParams configures one operator. Index 0 is operator A.
type OperatorParams struct {
	Waveshape int
	Coarse    float64
	Fine      float64
	Level     float64
	Attack    float64
	Decay     float64
	Sustain   float64
	Release   float64

	FixedFrequency   bool
	FixedFrequencyHz float64
}

// Envelope returns the operator's amplitude envelope parameters.
func (p OperatorParams) Envelope() envelope.Params {
	return envelope.Params{Attack: p.Attack, Decay: p.Decay, Sustain: p.Sustain, Release: p.Release}
}

// FilterParams configures the voice filter.
type FilterParams struct {
	On        bool
	Type      int
	Frequency float64
	Resonance float64
	EnvAmount float64
	Attack    float64
	Decay     float64
	Sustain   float64
	Release   float64
}

// Envelope returns the filter envelope parameters.
func (p FilterParams) Envelope() envelope.Params {
	return envelope.Params{Attack: p.Attack, Decay: p.Decay, Sustain: p.Sustain, Release: p.Release}
}

// LFOParams configures one LFO.
type LFOParams struct {
	On          bool
	Destination int
	Waveshape   int
	Rate        float64
	Amount      float64
	Retrigger   bool
}

// PitchEnvelopeParams configures the shared one-shot pitch envelope.
type PitchEnvelopeParams struct {
	On           bool
	InitialLevel float64 // semitones
	Decay        float64
}

// DefaultParams returns the parameter defaults for a voice with numLFOs LFOs.
func DefaultParams(numLFOs int) *Params {
	p := &Params{LFOs: make([]LFOParams, numLFOs)}
	for _, def := range Layout(numLFOs) {
		def.apply(p, def.Default)
	}
	return p
}

// Clone returns a deep copy of p.
func (p *Params) Clone() *Params {
	c := *p
	c.LFOs = append([]LFOParams(nil), p.LFOs...)
	return &c
}
