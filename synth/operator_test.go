package synth

import (
	"math"
	"testing"
)

func TestOperatorOffsetsAreClearedAfterProcess(t *testing.T) {
	p := plainParams()
	op := NewOperator(testSampleRate)
	op.StartNote(p.Operators[0], p.PitchEnvelope, 440, 1, testSampleRate)

	op.AddPhaseOffset(0.3)
	op.AddPhaseOffset(0.4)
	op.AddAmplitudeOffset(0.5)
	op.AddAmplitudeOffset(-2)
	op.Process()

	if op.PhaseOffset() != 0 || op.AmplitudeOffset() != 0 {
		t.Fatalf("expected offsets cleared, got phase=%f amp=%f", op.PhaseOffset(), op.AmplitudeOffset())
	}
	if op.osc.PhaseOffset() != 0 || op.osc.AmplitudeOffset() != 0 {
		t.Fatalf("expected oscillator offsets cleared, got phase=%f amp=%f", op.osc.PhaseOffset(), op.osc.AmplitudeOffset())
	}
}

func TestOperatorOffsetsAccumulate(t *testing.T) {
	p := plainParams()
	op := NewOperator(testSampleRate)
	op.StartNote(p.Operators[0], p.PitchEnvelope, 440, 1, testSampleRate)

	op.AddPhaseOffset(0.125)
	op.AddPhaseOffset(0.125)
	op.AddAmplitudeOffset(0.5)
	if op.PhaseOffset() != 0.25 {
		t.Fatalf("expected accumulated phase offset 0.25, got=%f", op.PhaseOffset())
	}

	got := op.Process()
	phase := 440.0 / testSampleRate
	want := 1.5 * math.Sin(2*math.Pi*(phase+0.25))
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got=%f want=%f", got, want)
	}
}

func TestOperatorFrequencyFromRatio(t *testing.T) {
	p := plainParams()
	p.Operators[1].Coarse = 2
	p.Operators[1].Fine = 500
	op := NewOperator(testSampleRate)
	op.StartNote(p.Operators[1], p.PitchEnvelope, 440, 1, testSampleRate)
	op.Process()
	if math.Abs(op.Frequency()-1100) > 1e-9 {
		t.Fatalf("expected 440*(2+0.5)=1100 Hz, got=%f", op.Frequency())
	}

	p.Operators[1].FixedFrequency = true
	p.Operators[1].FixedFrequencyHz = 55
	op.StartNote(p.Operators[1], p.PitchEnvelope, 440, 1, testSampleRate)
	op.Process()
	if op.Frequency() != 55 {
		t.Fatalf("expected fixed frequency 55 Hz, got=%f", op.Frequency())
	}
}

func TestOperatorVelocityScalesLevel(t *testing.T) {
	p := plainParams()
	p.Operators[0].Level = 0.8
	p.Operators[0].Waveshape = 3 // square: +1 on the first half cycle
	op := NewOperator(testSampleRate)
	op.StartNote(p.Operators[0], p.PitchEnvelope, 440, 0.5, testSampleRate)
	if got := op.Process(); math.Abs(got-0.4) > 1e-12 {
		t.Fatalf("expected level*velocity=0.4, got=%f", got)
	}
}

func TestOperatorPitchEnvelopeDecaysToBase(t *testing.T) {
	p := plainParams()
	p.PitchEnvelope = PitchEnvelopeParams{On: true, InitialLevel: 12, Decay: 0.1}
	op := NewOperator(testSampleRate)
	op.StartNote(p.Operators[0], p.PitchEnvelope, 440, 1, testSampleRate)

	op.Process()
	if op.Frequency() < 1.99*440 {
		t.Fatalf("expected roughly one octave up at note start, got=%f", op.Frequency())
	}
	for i := 0; i < 4810; i++ {
		op.Process()
	}
	if op.Frequency() != 440 {
		t.Fatalf("expected pitch to settle on 440 Hz, got=%f", op.Frequency())
	}
}

func TestOperatorPitchEnvelopeOffKeepsBase(t *testing.T) {
	p := plainParams()
	p.PitchEnvelope = PitchEnvelopeParams{On: false, InitialLevel: 12, Decay: 0.1}
	op := NewOperator(testSampleRate)
	op.StartNote(p.Operators[0], p.PitchEnvelope, 440, 1, testSampleRate)
	op.Process()
	if op.Frequency() != 440 {
		t.Fatalf("expected base frequency with pitch envelope off, got=%f", op.Frequency())
	}
}

func TestOperatorStopNoteReleases(t *testing.T) {
	p := plainParams()
	p.Operators[0].Release = 0.01
	op := NewOperator(testSampleRate)
	op.StartNote(p.Operators[0], p.PitchEnvelope, 440, 1, testSampleRate)
	op.Process()
	op.StopNote()
	for i := 0; i < 600; i++ {
		op.Process()
	}
	if op.IsEnvActive() {
		t.Fatalf("expected envelope to finish after the release time")
	}
}
