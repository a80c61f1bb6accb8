package synth

import (
	"math"
	"testing"
)

func TestResolveDestination(t *testing.T) {
	tests := []struct {
		id, lfo int
		want    Destination
	}{
		{0, 0, Destination{Kind: DestOperatorLevel, Index: 0}},
		{3, 1, Destination{Kind: DestOperatorLevel, Index: 3}},
		{DestIDPhase, 0, Destination{Kind: DestOperatorPhase}},
		{DestIDFilterFrequency, 1, Destination{Kind: DestFilterFrequency}},
		{DestIDFilterResonance, 0, Destination{Kind: DestFilterResonance}},
		{DestIDPrevLFORate, 1, Destination{Kind: DestLFORate, Index: 0}},
		{DestIDPrevLFOAmount, 2, Destination{Kind: DestLFOAmount, Index: 1}},
		{DestIDPrevLFORate, 0, Destination{Kind: DestNone}},
		{DestIDPrevLFOAmount, 0, Destination{Kind: DestNone}},
		{-1, 1, Destination{Kind: DestNone}},
		{NumDestinations, 1, Destination{Kind: DestNone}},
	}
	for _, tc := range tests {
		if got := ResolveDestination(tc.id, tc.lfo); got != tc.want {
			t.Fatalf("id=%d lfo=%d: got=%+v want=%+v", tc.id, tc.lfo, got, tc.want)
		}
	}
}

func TestLFORateOffsetIsClampedAndCleared(t *testing.T) {
	l := NewLFO(MinLFORate, MaxLFORate)
	l.StartNote(LFOParams{On: true, Rate: 2, Amount: 1, Retrigger: true}, testSampleRate)

	l.AddRateOffset(100)
	l.AddAmountOffset(3)
	l.Process()
	if l.Frequency() != MaxLFORate {
		t.Fatalf("expected rate clamped to %f, got=%f", MaxLFORate, l.Frequency())
	}
	if l.RateOffset() != 0 || l.AmountOffset() != 0 {
		t.Fatalf("expected offsets cleared after Process")
	}

	l.Process()
	if l.Frequency() != 2 {
		t.Fatalf("expected base rate once the offset is consumed, got=%f", l.Frequency())
	}

	l.AddRateOffset(-100)
	l.Process()
	if l.Frequency() != MinLFORate {
		t.Fatalf("expected rate clamped to %f, got=%f", MinLFORate, l.Frequency())
	}
}

func TestLFORateOffsetScalesByHalfRange(t *testing.T) {
	l := NewLFO(MinLFORate, MaxLFORate)
	l.StartNote(LFOParams{Rate: 1, Amount: 1}, testSampleRate)
	l.AddRateOffset(0.1)
	want := 0.1 * 0.5 * (MaxLFORate - MinLFORate)
	if math.Abs(l.RateOffset()-want) > 1e-12 {
		t.Fatalf("got=%f want=%f", l.RateOffset(), want)
	}
}

func TestLFOOutputIsSmoothedAndBounded(t *testing.T) {
	l := NewLFO(MinLFORate, MaxLFORate)
	l.StartNote(LFOParams{Waveshape: 3, Rate: 5, Amount: 0.5, Retrigger: true}, testSampleRate)

	first := l.Process()
	if first <= 0 || first >= 0.5 {
		t.Fatalf("expected first sample to ramp toward 0.5, got=%f", first)
	}
	for i := 0; i < 48000; i++ {
		v := l.Process()
		if v > 0.5+1e-12 || v < -0.5-1e-12 {
			t.Fatalf("sample %d out of amount range: %f", i, v)
		}
	}
}

func TestLFORetriggerResetsPhase(t *testing.T) {
	l := NewLFO(MinLFORate, MaxLFORate)
	p := LFOParams{Rate: 3, Amount: 1, Retrigger: true}
	l.StartNote(p, testSampleRate)
	for i := 0; i < 1000; i++ {
		l.Process()
	}
	l.StartNote(p, testSampleRate)
	if l.osc.Phase() != 0 {
		t.Fatalf("expected retrigger to reset phase, got=%f", l.osc.Phase())
	}

	for i := 0; i < 1000; i++ {
		l.Process()
	}
	before := l.osc.Phase()
	p.Retrigger = false
	l.StartNote(p, testSampleRate)
	if l.osc.Phase() != before {
		t.Fatalf("expected phase to carry over without retrigger")
	}
}
