package synth

import (
	"math"

	"github.com/cwbudde/algo-pmsynth/envelope"
	"github.com/cwbudde/algo-pmsynth/osc"
)

// Operator is one oscillator with its amplitude and pitch envelopes.
//
// Phase and amplitude offsets are accumulated by any number of writers
// during a sample and consumed and cleared by exactly one Process call.
type Operator struct {
	osc      *osc.Phasor
	ampEnv   *envelope.ADSR
	pitchEnv *envelope.ADSR

	baseFrequency float64
	pitchRatio    float64 // 2^(semitones/12) - 1

	phaseOffset     float64
	amplitudeOffset float64
}

// NewOperator returns an idle operator at sampleRate.
func NewOperator(sampleRate float64) *Operator {
	o := &Operator{
		osc:      osc.NewPhasor(),
		ampEnv:   envelope.New(sampleRate),
		pitchEnv: envelope.New(sampleRate),
	}
	o.osc.SetSampleRate(sampleRate)
	return o
}

// StartNote configures the operator for a new note and triggers its
// envelopes. The oscillator phase carries over from the previous note.
func (o *Operator) StartNote(p OperatorParams, pitch PitchEnvelopeParams, noteFrequency, velocity, sampleRate float64) {
	o.osc.SetSampleRate(sampleRate)
	o.ampEnv.SetSampleRate(sampleRate)
	o.pitchEnv.SetSampleRate(sampleRate)

	o.osc.SetWaveform(osc.WaveformFromID(p.Waveshape))
	if p.FixedFrequency {
		o.baseFrequency = p.FixedFrequencyHz
	} else {
		o.baseFrequency = noteFrequency * (p.Coarse + p.Fine/1000)
	}
	o.osc.SetFrequency(o.baseFrequency)
	o.osc.SetAmplitude(p.Level * velocity)

	o.ampEnv.SetParameters(p.Envelope())
	o.pitchEnv.SetParameters(envelope.DecayOnly(pitch.Decay))
	o.pitchRatio = math.Pow(2, pitch.InitialLevel/12) - 1

	o.ampEnv.Reset()
	o.pitchEnv.Reset()
	o.ampEnv.NoteOn()
	if pitch.On {
		o.pitchEnv.NoteOn()
	}
	o.clearOffsets()
}

// StopNote releases both envelopes.
func (o *Operator) StopNote() {
	o.ampEnv.NoteOff()
	o.pitchEnv.NoteOff()
}

// Process renders one sample and clears the accumulated offsets.
func (o *Operator) Process() float64 {
	e := o.ampEnv.NextSample()
	pe := o.pitchEnv.NextSample()
	if pe != 0 {
		o.osc.SetFrequency(o.baseFrequency * (1 + pe*o.pitchRatio))
	} else if o.osc.Frequency() != o.baseFrequency {
		o.osc.SetFrequency(o.baseFrequency)
	}

	o.osc.SetPhaseOffset(o.phaseOffset)
	o.osc.SetAmplitudeOffset(o.amplitudeOffset)
	out := e * o.osc.Process()
	o.clearOffsets()
	return out
}

func (o *Operator) clearOffsets() {
	o.phaseOffset = 0
	o.amplitudeOffset = 0
	o.osc.SetPhaseOffset(0)
	o.osc.SetAmplitudeOffset(0)
}

// AddPhaseOffset accumulates a phase offset for the next Process call.
func (o *Operator) AddPhaseOffset(v float64) { o.phaseOffset += v }

// AddAmplitudeOffset accumulates an amplitude offset for the next Process call.
func (o *Operator) AddAmplitudeOffset(v float64) { o.amplitudeOffset += v }

// PhaseOffset returns the pending phase offset.
func (o *Operator) PhaseOffset() float64 { return o.phaseOffset }

// AmplitudeOffset returns the pending amplitude offset.
func (o *Operator) AmplitudeOffset() float64 { return o.amplitudeOffset }

// IsEnvActive reports whether the amplitude envelope is still running.
func (o *Operator) IsEnvActive() bool { return o.ampEnv.IsActive() }

// Frequency returns the oscillator frequency used by the last sample.
func (o *Operator) Frequency() float64 { return o.osc.Frequency() }

// Reset silences the operator immediately.
func (o *Operator) Reset() {
	o.ampEnv.Reset()
	o.pitchEnv.Reset()
	o.clearOffsets()
}
