package envelope

import "testing"

func TestNoteOnReachesSustainWithinAttackPlusDecay(t *testing.T) {
	const sampleRate = 48000.0
	e := New(sampleRate)
	e.SetParameters(Params{Attack: 0.01, Decay: 0.02, Sustain: 0.4, Release: 0.05})
	e.NoteOn()

	limit := int((0.01+0.02)*sampleRate) + 2
	n := 0
	for e.Stage() != Sustain {
		e.NextSample()
		n++
		if n > limit {
			t.Fatalf("expected sustain within %d samples, still in %s", limit, e.Stage())
		}
	}
	if got := e.NextSample(); got != 0.4 {
		t.Fatalf("expected sustain level 0.4, got=%f", got)
	}
}

func TestNoteOffDecaysMonotonicallyToZero(t *testing.T) {
	const sampleRate = 48000.0
	e := New(sampleRate)
	e.SetParameters(Params{Attack: 0, Decay: 0, Sustain: 0.8, Release: 0.1})
	e.NoteOn()
	e.NextSample()
	e.NoteOff()

	limit := int(0.1*sampleRate) + 1
	prev := e.Level()
	n := 0
	for e.IsActive() {
		v := e.NextSample()
		if v > prev {
			t.Fatalf("release not monotonic at sample %d: %f > %f", n, v, prev)
		}
		prev = v
		n++
		if n > limit {
			t.Fatalf("expected release to finish within %d samples", limit)
		}
	}
	if e.Level() != 0 || e.Stage() != Idle {
		t.Fatalf("expected idle at zero after release, got stage=%s level=%f", e.Stage(), e.Level())
	}
}

func TestIsActiveFalseOnlyWhenIdleAtZero(t *testing.T) {
	e := New(1000)
	e.SetParameters(Params{Attack: 0.005, Decay: 0.005, Sustain: 0, Release: 0.005})
	if e.IsActive() {
		t.Fatalf("expected new envelope to be idle")
	}
	e.NoteOn()
	for i := 0; i < 50; i++ {
		e.NextSample()
		if !e.IsActive() && (e.Level() != 0 || e.Stage() != Idle) {
			t.Fatalf("inactive envelope must be idle at zero")
		}
	}
	// Sustain level zero still holds the note.
	if !e.IsActive() || e.Stage() != Sustain {
		t.Fatalf("expected zero-level sustain to stay active, got %s", e.Stage())
	}
	e.NoteOff()
	e.NextSample()
	if e.IsActive() {
		t.Fatalf("expected release from zero level to finish after one sample")
	}
}

func TestNoteOnRetriggersFromCurrentLevel(t *testing.T) {
	e := New(1000)
	e.SetParameters(Params{Attack: 0.1, Decay: 0, Sustain: 1, Release: 0.1})
	e.NoteOn()
	for i := 0; i < 50; i++ {
		e.NextSample()
	}
	e.NoteOff()
	for i := 0; i < 20; i++ {
		e.NextSample()
	}
	before := e.Level()
	if before <= 0 {
		t.Fatalf("expected non-zero level mid release")
	}
	e.NoteOn()
	after := e.NextSample()
	if after < before || after-before > 0.011 {
		t.Fatalf("expected attack to continue from current level: before=%f after=%f", before, after)
	}
}

func TestZeroTimesJumpStraightToSustain(t *testing.T) {
	e := New(48000)
	e.SetParameters(Params{Sustain: 1})
	e.NoteOn()
	if got := e.NextSample(); got != 1 {
		t.Fatalf("expected immediate sustain level, got=%f", got)
	}
	e.NoteOff()
	if e.IsActive() {
		t.Fatalf("expected zero release to reset to idle")
	}
}

func TestDecayOnlyFallsFromOne(t *testing.T) {
	e := New(1000)
	e.SetParameters(DecayOnly(0.01))
	e.NoteOn()
	first := e.NextSample()
	if first >= 1 || first < 0.89 {
		t.Fatalf("expected first decay sample just below 1, got=%f", first)
	}
	for i := 0; i < 20; i++ {
		e.NextSample()
	}
	if e.Level() != 0 || e.Stage() != Sustain {
		t.Fatalf("expected decay to settle at zero sustain, got stage=%s level=%f", e.Stage(), e.Level())
	}
}

func TestResetForcesIdle(t *testing.T) {
	e := New(1000)
	e.SetParameters(Params{Attack: 0.01, Sustain: 1})
	e.NoteOn()
	e.NextSample()
	e.Reset()
	if e.IsActive() || e.Level() != 0 {
		t.Fatalf("expected reset to force idle at zero")
	}
	if e.NextSample() != 0 {
		t.Fatalf("expected idle envelope to output zero")
	}
}
