package synth

import (
	"fmt"
	"math"
)

// ParamKind describes how a raw parameter value is quantized.
type ParamKind int

const (
	KindFloat ParamKind = iota
	KindInt
	KindBool
)

// ParamDef describes one externally settable parameter.
type ParamDef struct {
	ID      string
	Kind    ParamKind
	Min     float64
	Max     float64
	Default float64

	apply func(p *Params, v float64)
}

// Normalize clamps v to the parameter range and quantizes it by kind.
func (d ParamDef) Normalize(v float64) float64 {
	if math.IsNaN(v) {
		v = d.Default
	}
	switch d.Kind {
	case KindInt:
		v = math.Round(v)
	case KindBool:
		if v >= 0.5 {
			v = 1
		} else {
			v = 0
		}
	}
	if v < d.Min {
		v = d.Min
	}
	if v > d.Max {
		v = d.Max
	}
	return v
}

func operatorLetter(i int) string {
	return string(rune('A' + i))
}

// Layout returns the parameter table for a synth with numLFOs LFOs.
func Layout(numLFOs int) []ParamDef {
	defs := make([]ParamDef, 0, NumOperators*10+32+numLFOs*6)
	add := func(id string, kind ParamKind, lo, hi, def float64, apply func(p *Params, v float64)) {
		defs = append(defs, ParamDef{ID: id, Kind: kind, Min: lo, Max: hi, Default: def, apply: apply})
	}

	for i := 0; i < NumOperators; i++ {
		op := i
		base := "op" + operatorLetter(i)
		add(base+"Waveshape", KindInt, 0, 3, 0, func(p *Params, v float64) { p.Operators[op].Waveshape = int(v) })
		add(base+"Coarse", KindInt, 1, 48, 1, func(p *Params, v float64) { p.Operators[op].Coarse = v })
		add(base+"Fine", KindFloat, 0, 1000, 0, func(p *Params, v float64) { p.Operators[op].Fine = v })
		add(base+"Level", KindFloat, 0, 1, 1, func(p *Params, v float64) { p.Operators[op].Level = v })
		add(base+"Attack", KindFloat, 0, 10, 1, func(p *Params, v float64) { p.Operators[op].Attack = v })
		add(base+"Decay", KindFloat, 0, 10, 1, func(p *Params, v float64) { p.Operators[op].Decay = v })
		add(base+"Sustain", KindFloat, 0, 1, 1, func(p *Params, v float64) { p.Operators[op].Sustain = v })
		add(base+"Release", KindFloat, 0, 10, 1, func(p *Params, v float64) { p.Operators[op].Release = v })
		add(base+"Fixed", KindBool, 0, 1, 0, func(p *Params, v float64) { p.Operators[op].FixedFrequency = v != 0 })
		add(base+"FixedFrequency", KindFloat, 0.1, 20000, 440, func(p *Params, v float64) { p.Operators[op].FixedFrequencyHz = v })
	}

	add("algorithm", KindInt, 0, NumAlgorithms-1, 0, func(p *Params, v float64) { p.Algorithm = int(v) })

	add("filterOn", KindBool, 0, 1, 0, func(p *Params, v float64) { p.Filter.On = v != 0 })
	add("filterType", KindInt, 0, 3, FilterLowPass, func(p *Params, v float64) { p.Filter.Type = int(v) })
	add("filterFrequency", KindFloat, MinFilterFrequency, MaxFilterFrequency, 10000, func(p *Params, v float64) { p.Filter.Frequency = v })
	add("filterResonance", KindFloat, MinFilterResonance, MaxFilterResonance, 0.1, func(p *Params, v float64) { p.Filter.Resonance = v })
	add("filterEnvAmount", KindFloat, -1, 1, 0, func(p *Params, v float64) { p.Filter.EnvAmount = v })
	add("filterAttack", KindFloat, 0, 10, 1, func(p *Params, v float64) { p.Filter.Attack = v })
	add("filterDecay", KindFloat, 0, 10, 1, func(p *Params, v float64) { p.Filter.Decay = v })
	add("filterSustain", KindFloat, 0, 1, 1, func(p *Params, v float64) { p.Filter.Sustain = v })
	add("filterRelease", KindFloat, 0, 10, 1, func(p *Params, v float64) { p.Filter.Release = v })

	for i := 0; i < numLFOs; i++ {
		l := i
		base := fmt.Sprintf("lfo%d", i+1)
		add(base+"On", KindBool, 0, 1, 0, func(p *Params, v float64) { p.LFOs[l].On = v != 0 })
		add(base+"Destination", KindInt, 0, float64(NumDestinations-1), 0, func(p *Params, v float64) { p.LFOs[l].Destination = int(v) })
		add(base+"Waveshape", KindInt, 0, 3, 0, func(p *Params, v float64) { p.LFOs[l].Waveshape = int(v) })
		add(base+"Rate", KindFloat, MinLFORate, MaxLFORate, 1, func(p *Params, v float64) { p.LFOs[l].Rate = v })
		add(base+"Amount", KindFloat, -1, 1, 0.5, func(p *Params, v float64) { p.LFOs[l].Amount = v })
		add(base+"Retrigger", KindBool, 0, 1, 1, func(p *Params, v float64) { p.LFOs[l].Retrigger = v != 0 })
	}

	add("pitchEnvOn", KindBool, 0, 1, 0, func(p *Params, v float64) { p.PitchEnvelope.On = v != 0 })
	add("pitchEnvInitialLevel", KindFloat, -MaxPitchEnvSemitones, MaxPitchEnvSemitones, 12, func(p *Params, v float64) { p.PitchEnvelope.InitialLevel = v })
	add("pitchEnvDecay", KindFloat, 0, 10, 0.1, func(p *Params, v float64) { p.PitchEnvelope.Decay = v })

	add("delayOn", KindBool, 0, 1, 0, func(p *Params, v float64) { p.Delay.On = v != 0 })
	add("delayDryWet", KindFloat, 0, 1, 0.3, func(p *Params, v float64) { p.Delay.DryWet = v })
	add("delayTimeLeft", KindFloat, MinDelayTime, MaxDelayTime, 0.25, func(p *Params, v float64) { p.Delay.TimeLeft = v })
	add("delayTimeRight", KindFloat, MinDelayTime, MaxDelayTime, 0.25, func(p *Params, v float64) { p.Delay.TimeRight = v })
	add("delayTimeLink", KindBool, 0, 1, 1, func(p *Params, v float64) { p.Delay.Link = v != 0 })
	add("delayFeedback", KindFloat, 0, 0.95, 0.3, func(p *Params, v float64) { p.Delay.Feedback = v })

	add("reverbOn", KindBool, 0, 1, 0, func(p *Params, v float64) { p.Reverb.On = v != 0 })
	add("reverbDryWet", KindFloat, 0, 1, 0.3, func(p *Params, v float64) { p.Reverb.DryWet = v })
	add("reverbRoomSize", KindFloat, 0, 1, 0.5, func(p *Params, v float64) { p.Reverb.RoomSize = v })
	add("reverbWidth", KindFloat, 0, 1, 0.5, func(p *Params, v float64) { p.Reverb.Width = v })
	add("reverbDamping", KindFloat, 0, 1, 0.5, func(p *Params, v float64) { p.Reverb.Damping = v })

	return defs
}
