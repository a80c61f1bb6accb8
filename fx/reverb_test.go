package fx

import (
	"math"
	"testing"
)

func TestReverbOffIsTransparent(t *testing.T) {
	r := NewReverb()
	r.Prepare(48000)
	p := &ReverbParams{On: false, DryWet: 1, RoomSize: 0.5, Width: 1, Damping: 0.5}
	l := []float32{1, 0.5, -0.25}
	rr := []float32{-1, 0.25, 0}
	r.ProcessBlock(p, l, rr)
	if l[0] != 1 || l[1] != 0.5 || rr[0] != -1 || rr[2] != 0 {
		t.Fatalf("expected bypass while off")
	}
}

func TestReverbProducesFiniteTail(t *testing.T) {
	r := NewReverb()
	r.Prepare(48000)
	p := &ReverbParams{On: true, DryWet: 0.5, RoomSize: 0.8, Width: 1, Damping: 0.3}

	// Let the dry/wet ramp finish.
	r.ProcessBlock(p, make([]float32, 9600), make([]float32, 9600))
	if math.Abs(r.WetLevel()-0.5) > 1e-12 {
		t.Fatalf("expected wet level 0.5, got=%f", r.WetLevel())
	}

	l := make([]float32, 9600)
	rr := make([]float32, 9600)
	l[0], rr[0] = 1, 1
	r.ProcessBlock(p, l, rr)

	var tail float64
	for i := 4800; i < len(l); i++ {
		if math.IsNaN(float64(l[i])) || math.IsInf(float64(l[i]), 0) {
			t.Fatalf("non-finite sample at %d", i)
		}
		tail += float64(l[i])*float64(l[i]) + float64(rr[i])*float64(rr[i])
	}
	if tail == 0 {
		t.Fatalf("expected reverb tail energy")
	}
}

func TestReverbSwitchOffResetsTail(t *testing.T) {
	r := NewReverb()
	r.Prepare(48000)
	p := &ReverbParams{On: true, DryWet: 1, RoomSize: 0.9, Width: 0.5, Damping: 0.1}
	l := make([]float32, 4800)
	rr := make([]float32, 4800)
	for i := range l {
		l[i], rr[i] = 1, 1
	}
	r.ProcessBlock(p, l, rr)

	p.On = false
	r.ProcessBlock(p, make([]float32, 16), make([]float32, 16))

	p.On = true
	l = make([]float32, 4800)
	rr = make([]float32, 4800)
	r.ProcessBlock(p, l, rr)
	for i := range l {
		if l[i] != 0 || rr[i] != 0 {
			t.Fatalf("expected silence after reset, sample %d L=%f R=%f", i, l[i], rr[i])
		}
	}
}
