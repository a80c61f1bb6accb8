package synth

import (
	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
	"github.com/cwbudde/algo-pmsynth/envelope"
)

// nyquistGuard keeps the coefficient frequency strictly below Nyquist,
// where the biquad designs degenerate.
const nyquistGuard = 0.49

// Filter is a per-voice biquad whose cutoff follows an ADSR envelope and
// LFO offsets. Coefficients are recomputed every sample.
type Filter struct {
	section biquad.Section
	env     *envelope.ADSR

	sampleRate float64
	filterType int
	baseFreq   float64
	baseRes    float64
	envAmount  float64
	envShift   float64

	minFreq, maxFreq float64
	minRes, maxRes   float64
	maxFreqOffset    float64
	maxResOffset     float64

	freqOffset float64
	resOffset  float64

	lastFreq float64
	lastRes  float64
}

// NewFilter returns a filter with the given frequency and resonance bounds.
func NewFilter(sampleRate, minFreq, maxFreq, minRes, maxRes float64) *Filter {
	return &Filter{
		env:           envelope.New(sampleRate),
		sampleRate:    sampleRate,
		minFreq:       minFreq,
		maxFreq:       maxFreq,
		minRes:        minRes,
		maxRes:        maxRes,
		maxFreqOffset: 0.5 * (maxFreq - minFreq),
		maxResOffset:  0.5 * (maxRes - minRes),
		baseFreq:      maxFreq,
		baseRes:       minRes,
	}
}

// StartNote resets the filter state and envelope and triggers the envelope.
func (f *Filter) StartNote(p FilterParams, sampleRate float64) {
	f.sampleRate = sampleRate
	f.env.SetSampleRate(sampleRate)
	f.section.Reset()
	f.env.Reset()

	f.filterType = clampFilterType(p.Type)
	f.baseFreq = core.Clamp(p.Frequency, f.minFreq, f.maxFreq)
	f.baseRes = core.Clamp(p.Resonance, f.minRes, f.maxRes)
	f.envAmount = core.Clamp(p.EnvAmount, -1, 1)
	f.env.SetParameters(p.Envelope())
	f.env.NoteOn()

	if f.envAmount >= 0 {
		f.envShift = 0.5*sampleRate - f.baseFreq
	} else {
		f.envShift = f.baseFreq - f.minFreq
	}
	f.ResetModulations()
}

// StopNote releases the filter envelope.
func (f *Filter) StopNote() { f.env.NoteOff() }

// Process filters one sample and clears the offsets.
func (f *Filter) Process(x float64) float64 {
	e := f.env.NextSample()
	freq := core.Clamp(f.baseFreq+f.envAmount*e*f.envShift+f.freqOffset, f.minFreq, f.maxFreq)
	res := core.Clamp(f.baseRes+f.resOffset, f.minRes, f.maxRes)
	f.lastFreq = freq
	f.lastRes = res

	f.section.Coefficients = f.coefficients(freq, res)
	y := core.FlushDenormals(f.section.ProcessSample(x))
	f.ResetModulations()
	return y
}

func (f *Filter) coefficients(freq, q float64) biquad.Coefficients {
	if limit := nyquistGuard * f.sampleRate; freq > limit {
		freq = limit
	}
	switch f.filterType {
	case FilterHighPass:
		return design.Highpass(freq, q, f.sampleRate)
	case FilterBandPass:
		// Constant-skirt design scaled to 0 dB peak gain.
		c := design.Bandpass(freq, q, f.sampleRate)
		c.B0 /= q
		c.B2 /= q
		return c
	case FilterNotch:
		return design.Notch(freq, q, f.sampleRate)
	default:
		return design.Lowpass(freq, q, f.sampleRate)
	}
}

// AddFrequencyOffset accumulates a normalized cutoff offset; v = 1 moves the
// cutoff by half the frequency range.
func (f *Filter) AddFrequencyOffset(v float64) { f.freqOffset += v * f.maxFreqOffset }

// AddResonanceOffset accumulates a normalized resonance offset.
func (f *Filter) AddResonanceOffset(v float64) { f.resOffset += v * f.maxResOffset }

// ResetModulations drops pending offsets.
func (f *Filter) ResetModulations() {
	f.freqOffset = 0
	f.resOffset = 0
}

// Frequency returns the clamped cutoff used by the last sample.
func (f *Filter) Frequency() float64 { return f.lastFreq }

// Resonance returns the clamped resonance used by the last sample.
func (f *Filter) Resonance() float64 { return f.lastRes }

func clampFilterType(t int) int {
	if t < FilterLowPass {
		return FilterLowPass
	}
	if t > FilterNotch {
		return FilterNotch
	}
	return t
}
