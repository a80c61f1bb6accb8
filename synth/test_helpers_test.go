package synth

import (
	"math"
	"testing"
)

const testSampleRate = 48000.0

// plainParams returns defaults with every operator a sustained unit sine.
func plainParams() *Params {
	p := DefaultParams(DefaultNumLFOs)
	for i := range p.Operators {
		op := &p.Operators[i]
		op.Waveshape = 0
		op.Coarse = 1
		op.Fine = 0
		op.Level = 1
		op.Attack = 0
		op.Decay = 0
		op.Sustain = 1
		op.Release = 0
	}
	return p
}

func newStartedOperators(t *testing.T, p *Params, freq float64) *[NumOperators]*Operator {
	t.Helper()
	var ops [NumOperators]*Operator
	for i := range ops {
		ops[i] = NewOperator(testSampleRate)
		ops[i].StartNote(p.Operators[i], p.PitchEnvelope, freq, 1, testSampleRate)
	}
	return &ops
}

func newStereo(n int) [][]float32 {
	return [][]float32{make([]float32, n), make([]float32, n)}
}

func rms(samples []float32) float64 {
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}
