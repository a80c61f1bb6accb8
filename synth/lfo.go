package synth

import (
	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-pmsynth/dsp"
	"github.com/cwbudde/algo-pmsynth/osc"
)

const lfoSmoothingTime = 0.01

// Destination kinds an LFO can write to.
type DestinationKind int

const (
	DestNone DestinationKind = iota
	DestOperatorLevel
	DestOperatorPhase
	DestFilterFrequency
	DestFilterResonance
	DestLFORate
	DestLFOAmount
)

// Destination ids: one per operator level, then phase broadcast, filter
// frequency, filter resonance, and a rate/amount pair for the previous LFO.
const (
	DestIDPhase           = NumOperators
	DestIDFilterFrequency = NumOperators + 1
	DestIDFilterResonance = NumOperators + 2
	DestIDPrevLFORate     = NumOperators + 3
	DestIDPrevLFOAmount   = NumOperators + 4

	NumDestinations = NumOperators + 5
)

// Destination is a resolved LFO target. Index is the operator index for
// DestOperatorLevel and the LFO index for DestLFORate/DestLFOAmount.
type Destination struct {
	Kind  DestinationKind
	Index int
}

// ResolveDestination maps a destination id for the LFO at lfoIndex.
// LFO i may only target LFO i-1; anything else resolves to DestNone.
func ResolveDestination(id, lfoIndex int) Destination {
	switch {
	case id >= 0 && id < NumOperators:
		return Destination{Kind: DestOperatorLevel, Index: id}
	case id == DestIDPhase:
		return Destination{Kind: DestOperatorPhase}
	case id == DestIDFilterFrequency:
		return Destination{Kind: DestFilterFrequency}
	case id == DestIDFilterResonance:
		return Destination{Kind: DestFilterResonance}
	case id == DestIDPrevLFORate && lfoIndex > 0:
		return Destination{Kind: DestLFORate, Index: lfoIndex - 1}
	case id == DestIDPrevLFOAmount && lfoIndex > 0:
		return Destination{Kind: DestLFOAmount, Index: lfoIndex - 1}
	default:
		return Destination{Kind: DestNone}
	}
}

// LFO is a modulation oscillator whose rate and amount can themselves be
// offset by another LFO.
type LFO struct {
	osc      *osc.Phasor
	smoother dsp.Smoother

	minRate   float64
	maxRate   float64
	maxOffset float64

	rate   float64
	amount float64

	rateOffset   float64
	amountOffset float64
}

// NewLFO returns an LFO whose rate is limited to [minRate, maxRate] Hz.
func NewLFO(minRate, maxRate float64) *LFO {
	return &LFO{
		osc:       osc.NewPhasor(),
		minRate:   minRate,
		maxRate:   maxRate,
		maxOffset: 0.5 * (maxRate - minRate),
		rate:      minRate,
	}
}

// StartNote configures the LFO for a new note. Without retrigger the phase
// continues from the previous note.
func (l *LFO) StartNote(p LFOParams, sampleRate float64) {
	l.osc.SetSampleRate(sampleRate)
	l.osc.SetWaveform(osc.WaveformFromID(p.Waveshape))
	l.rate = p.Rate
	l.amount = p.Amount
	l.osc.SetFrequency(core.Clamp(l.rate, l.minRate, l.maxRate))
	if p.Retrigger {
		l.osc.SetPhase(0)
	}
	l.smoother.Reset(sampleRate, lfoSmoothingTime)
	l.smoother.SetCurrentAndTarget(0)
	l.ClearOffsets()
}

// Process renders one smoothed modulation sample and clears the offsets.
func (l *LFO) Process() float64 {
	amount := core.Clamp(l.amount+l.amountOffset, -1, 1)
	l.osc.SetFrequency(core.Clamp(l.rate+l.rateOffset, l.minRate, l.maxRate))
	l.smoother.SetTarget(amount * l.osc.Process())
	l.ClearOffsets()
	return l.smoother.Next()
}

// AddRateOffset accumulates a normalized rate offset; v = 1 shifts the rate
// by half the rate range.
func (l *LFO) AddRateOffset(v float64) { l.rateOffset += v * l.maxOffset }

// AddAmountOffset accumulates an amount offset.
func (l *LFO) AddAmountOffset(v float64) { l.amountOffset += v }

// RateOffset returns the pending rate offset in Hz.
func (l *LFO) RateOffset() float64 { return l.rateOffset }

// AmountOffset returns the pending amount offset.
func (l *LFO) AmountOffset() float64 { return l.amountOffset }

// Frequency returns the oscillator frequency of the last sample.
func (l *LFO) Frequency() float64 { return l.osc.Frequency() }

// ClearOffsets drops any pending modulation.
func (l *LFO) ClearOffsets() {
	l.rateOffset = 0
	l.amountOffset = 0
}
