package synth

import (
	"math"
	"testing"
)

func sustainedFilter(typ int, freq, res, envAmount float64) FilterParams {
	return FilterParams{On: true, Type: typ, Frequency: freq, Resonance: res, EnvAmount: envAmount, Sustain: 1}
}

func TestFilterStaysWithinBoundsUnderExtremeOffsets(t *testing.T) {
	f := NewFilter(testSampleRate, MinFilterFrequency, MaxFilterFrequency, MinFilterResonance, MaxFilterResonance)
	f.StartNote(sustainedFilter(FilterLowPass, 1000, 0.7, 0), testSampleRate)

	f.AddFrequencyOffset(100)
	f.AddResonanceOffset(100)
	y := f.Process(0.5)
	if f.Frequency() != MaxFilterFrequency || f.Resonance() != MaxFilterResonance {
		t.Fatalf("expected upper bounds, got freq=%f res=%f", f.Frequency(), f.Resonance())
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		t.Fatalf("expected finite output at the upper bound, got=%f", y)
	}

	f.AddFrequencyOffset(-100)
	f.AddResonanceOffset(-100)
	y = f.Process(0.5)
	if f.Frequency() != MinFilterFrequency || f.Resonance() != MinFilterResonance {
		t.Fatalf("expected lower bounds, got freq=%f res=%f", f.Frequency(), f.Resonance())
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		t.Fatalf("expected finite output at the lower bound, got=%f", y)
	}

	f.Process(0.5)
	if f.Frequency() != 1000 || f.Resonance() != 0.7 {
		t.Fatalf("expected offsets consumed, got freq=%f res=%f", f.Frequency(), f.Resonance())
	}
}

func TestFilterEnvelopeSpan(t *testing.T) {
	f := NewFilter(testSampleRate, MinFilterFrequency, MaxFilterFrequency, MinFilterResonance, MaxFilterResonance)

	f.StartNote(sustainedFilter(FilterLowPass, 1000, 0.7, 1), testSampleRate)
	f.Process(0)
	if f.Frequency() != MaxFilterFrequency {
		t.Fatalf("expected full positive envelope to hit the upper bound, got=%f", f.Frequency())
	}

	f.StartNote(sustainedFilter(FilterLowPass, 1000, 0.7, -1), testSampleRate)
	f.Process(0)
	if math.Abs(f.Frequency()-MinFilterFrequency) > 1e-9 {
		t.Fatalf("expected full negative envelope to reach the minimum, got=%f", f.Frequency())
	}

	f.StartNote(sustainedFilter(FilterLowPass, 1000, 0.7, 0.5), testSampleRate)
	f.Process(0)
	want := 1000 + 0.5*(0.5*testSampleRate-1000)
	if math.Abs(f.Frequency()-want) > 1e-9 {
		t.Fatalf("got=%f want=%f", f.Frequency(), want)
	}
}

func TestFilterTypesAtDC(t *testing.T) {
	tests := []struct {
		typ  int
		want float64
	}{
		{FilterLowPass, 1},
		{FilterHighPass, 0},
		{FilterBandPass, 0},
		{FilterNotch, 1},
	}
	for _, tc := range tests {
		f := NewFilter(testSampleRate, MinFilterFrequency, MaxFilterFrequency, MinFilterResonance, MaxFilterResonance)
		f.StartNote(sustainedFilter(tc.typ, 1000, 0.7, 0), testSampleRate)
		var y float64
		for i := 0; i < 9600; i++ {
			y = f.Process(1)
		}
		if math.Abs(y-tc.want) > 1e-3 {
			t.Fatalf("type %d: DC response got=%f want=%f", tc.typ, y, tc.want)
		}
	}
}

func TestFilterBandPassPeakIsUnity(t *testing.T) {
	f := NewFilter(testSampleRate, MinFilterFrequency, MaxFilterFrequency, MinFilterResonance, MaxFilterResonance)
	f.StartNote(sustainedFilter(FilterBandPass, 1000, 1.5, 0), testSampleRate)
	c := f.coefficients(1000, 1.5)
	if mag := c.MagnitudeDB(1000, testSampleRate); math.Abs(mag) > 1e-6 {
		t.Fatalf("expected 0 dB at the center frequency, got=%f dB", mag)
	}
}

func TestFilterStartNoteClearsState(t *testing.T) {
	f := NewFilter(testSampleRate, MinFilterFrequency, MaxFilterFrequency, MinFilterResonance, MaxFilterResonance)
	p := sustainedFilter(FilterLowPass, 500, 1.2, 0)
	f.StartNote(p, testSampleRate)
	for i := 0; i < 100; i++ {
		f.Process(1)
	}
	f.StartNote(p, testSampleRate)
	if y := f.Process(0); y != 0 {
		t.Fatalf("expected silent output after restart, got=%f", y)
	}
}
