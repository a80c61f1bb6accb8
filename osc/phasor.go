// Package osc implements the phase accumulating oscillator shared by
// operators and LFOs.
package osc

import "math"

// Phasor advances a phase in [0,1) and shapes it through a Waveform.
//
// All state (phase, offsets, dc, power) lives outside the waveform so the
// waveform can be swapped mid-note without a discontinuity in phase.
type Phasor struct {
	wave       Waveform
	pulseWidth float64

	sampleRate float64
	frequency  float64
	phase      float64
	phaseDelta float64
	amplitude  float64

	phaseOffset     float64
	amplitudeOffset float64
	dc              float64
	power           int
}

// NewPhasor returns a sine phasor with unit amplitude and power 1.
// SetSampleRate must be called before SetFrequency.
func NewPhasor() *Phasor {
	return &Phasor{
		wave:       Sine,
		pulseWidth: DefaultPulseWidth,
		amplitude:  1,
		power:      1,
	}
}

// Process advances the phase by one sample and returns the shaped output:
// (amplitude+amplitudeOffset) * wave(phase+phaseOffset)^power + dc.
func (p *Phasor) Process() float64 {
	p.phase += p.phaseDelta
	if p.phase >= 1.0 {
		p.phase -= 1.0
	}

	v := p.wave.Value(p.phase+p.phaseOffset, p.pulseWidth)
	if p.power != 1 {
		v = math.Pow(v, float64(p.power))
	}
	return (p.amplitude+p.amplitudeOffset)*v + p.dc
}

// SetSampleRate sets the sample rate in Hz. It panics for non-positive rates.
func (p *Phasor) SetSampleRate(sampleRate float64) {
	if !(sampleRate > 0) {
		panic("osc: sample rate must be > 0")
	}
	p.sampleRate = sampleRate
	if p.frequency != 0 {
		p.phaseDelta = p.frequency / p.sampleRate
	}
}

// SampleRate returns the configured sample rate.
func (p *Phasor) SampleRate() float64 { return p.sampleRate }

// SetFrequency sets the oscillator frequency in Hz and recomputes the phase
// increment. It panics if no sample rate has been set.
func (p *Phasor) SetFrequency(frequency float64) {
	if !(p.sampleRate > 0) {
		panic("osc: sample rate must be set before frequency")
	}
	p.frequency = frequency
	p.phaseDelta = frequency / p.sampleRate
}

// Frequency returns the current frequency in Hz.
func (p *Phasor) Frequency() float64 { return p.frequency }

// PhaseDelta returns the per-sample phase increment.
func (p *Phasor) PhaseDelta() float64 { return p.phaseDelta }

// SetWaveform swaps the waveform, keeping phase, offsets, dc and power.
func (p *Phasor) SetWaveform(w Waveform) {
	p.wave = WaveformFromID(int(w))
}

// Waveform returns the active waveform.
func (p *Phasor) Waveform() Waveform { return p.wave }

// SetPulseWidth sets the square wave duty cycle in [0,1].
func (p *Phasor) SetPulseWidth(pw float64) {
	p.pulseWidth = pw
}

func (p *Phasor) SetAmplitude(a float64) {
	p.amplitude = a
}

func (p *Phasor) Amplitude() float64 { return p.amplitude }

func (p *Phasor) SetAmplitudeOffset(v float64) { p.amplitudeOffset = v }

func (p *Phasor) AmplitudeOffset() float64 { return p.amplitudeOffset }

func (p *Phasor) SetPhaseOffset(v float64) { p.phaseOffset = v }

func (p *Phasor) PhaseOffset() float64 { return p.phaseOffset }

func (p *Phasor) SetDC(dc float64) { p.dc = dc }

// SetPower sets the output exponent. Fractional powers are rounded; powers
// below 1 panic.
func (p *Phasor) SetPower(power float64) {
	r := math.Round(power)
	if r < 1 {
		panic("osc: power must be >= 1")
	}
	p.power = int(r)
}

// Phase returns the current phase in [0,1).
func (p *Phasor) Phase() float64 { return p.phase }

// SetPhase restores a phase, e.g. across a suppressed retrigger.
func (p *Phasor) SetPhase(phase float64) { p.phase = phase }
