package synth

// Voice is one note's full signal chain: LFOs, four operators routed by an
// algorithm, and the envelope filter.
type Voice struct {
	sampleRate float64

	ops       [NumOperators]*Operator
	algorithm Algorithm
	filter    *Filter
	lfos      []*LFO

	isOutput [NumOperators]bool
	playing  bool
	note     int
	age      uint64
}

// NewVoice allocates a voice with numLFOs LFOs at sampleRate.
func NewVoice(sampleRate float64, numLFOs int) *Voice {
	if !(sampleRate > 0) {
		panic("synth: sample rate must be > 0")
	}
	v := &Voice{
		sampleRate: sampleRate,
		filter:     NewFilter(sampleRate, MinFilterFrequency, MaxFilterFrequency, MinFilterResonance, MaxFilterResonance),
		lfos:       make([]*LFO, numLFOs),
		note:       -1,
	}
	for i := range v.ops {
		v.ops[i] = NewOperator(sampleRate)
	}
	for i := range v.lfos {
		v.lfos[i] = NewLFO(MinLFORate, MaxLFORate)
	}
	return v
}

// StartNote configures every component from p and starts playing.
// velocity is in [0,1].
func (v *Voice) StartNote(p *Params, noteFrequency, velocity, sampleRate float64) {
	if sampleRate > 0 {
		v.sampleRate = sampleRate
	}
	for i, op := range v.ops {
		op.StartNote(p.Operators[i], p.PitchEnvelope, noteFrequency, velocity, v.sampleRate)
	}
	v.algorithm.StartNote(p)
	v.filter.StartNote(p.Filter, v.sampleRate)
	for i, l := range v.lfos {
		if i < len(p.LFOs) {
			l.StartNote(p.LFOs[i], v.sampleRate)
		}
	}
	v.playing = true
}

// StopNote releases the operator and filter envelopes.
func (v *Voice) StopNote() {
	for _, op := range v.ops {
		op.StopNote()
	}
	v.filter.StopNote()
}

// Kill silences the voice without a release tail.
func (v *Voice) Kill() {
	for _, op := range v.ops {
		op.Reset()
	}
	v.playing = false
	v.note = -1
}

// IsActive reports whether the voice still produces sound.
func (v *Voice) IsActive() bool { return v.playing }

// Note returns the MIDI note assigned by the engine, or -1.
func (v *Voice) Note() int { return v.note }

// RenderNextBlock adds numSamples samples starting at startSample to every
// channel of out. The caller clears out beforehand.
func (v *Voice) RenderNextBlock(p *Params, out [][]float32, startSample, numSamples int) {
	if !v.playing {
		return
	}
	for n := startSample; n < startSample+numSamples; n++ {
		v.applyLFOs(p)

		s := v.algorithm.Process(&v.ops, &v.isOutput)
		if p.Filter.On {
			s = v.filter.Process(s)
		} else {
			v.filter.ResetModulations()
		}

		sample := float32(s)
		for ch := range out {
			out[ch][n] += sample
		}

		if !v.audibleActive() {
			v.playing = false
			v.note = -1
			return
		}
	}
}

// applyLFOs runs the LFOs from the highest index down so an offset written
// to LFO i-1 is consumed in the same sample.
func (v *Voice) applyLFOs(p *Params) {
	for i := len(v.lfos) - 1; i >= 0; i-- {
		l := v.lfos[i]
		if i >= len(p.LFOs) || !p.LFOs[i].On {
			l.ClearOffsets()
			continue
		}
		x := l.Process()
		d := ResolveDestination(p.LFOs[i].Destination, i)
		switch d.Kind {
		case DestOperatorLevel:
			v.ops[d.Index].AddAmplitudeOffset(x)
		case DestOperatorPhase:
			for _, op := range v.ops {
				op.AddPhaseOffset(x)
			}
		case DestFilterFrequency:
			v.filter.AddFrequencyOffset(x)
		case DestFilterResonance:
			v.filter.AddResonanceOffset(x)
		case DestLFORate:
			v.lfos[d.Index].AddRateOffset(x)
		case DestLFOAmount:
			v.lfos[d.Index].AddAmountOffset(x)
		}
	}
}

func (v *Voice) audibleActive() bool {
	for i, out := range v.isOutput {
		if out && v.ops[i].IsEnvActive() {
			return true
		}
	}
	return false
}
