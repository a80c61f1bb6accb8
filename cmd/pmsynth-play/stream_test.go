package main

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/cwbudde/algo-pmsynth/synth"
)

func TestSequenceOrdersOffBeforeOn(t *testing.T) {
	ev := sequence([]int{60, 60}, 8000, 0.01, 0.01)
	want := []event{
		{frame: 0, note: 60, on: true},
		{frame: 80, note: 60, on: false},
		{frame: 80, note: 60, on: true},
		{frame: 160, note: 60, on: false},
	}
	if len(ev) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(ev))
	}
	for i := range want {
		if ev[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, ev[i], want[i])
		}
	}
}

func TestSequenceClampsGateToStep(t *testing.T) {
	ev := sequence([]int{60}, 1000, 0.1, 0.5)
	if ev[1].frame != 100 {
		t.Fatalf("expected NoteOff at frame 100, got %d", ev[1].frame)
	}
}

func TestStreamReaderRendersSequenceThenEOF(t *testing.T) {
	const sr = 8000
	e := synth.NewEngine(sr, 4, nil)
	events := sequence([]int{60, 64}, sr, 0.01, 0.01)
	s := newStreamReader(e, events, 100, 40)

	p := make([]byte, 8*50)
	n, err := s.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("Read() = %d, %v", n, err)
	}
	if e.ActiveVoices() != 1 {
		t.Fatalf("expected the first note to sound, got %d voices", e.ActiveVoices())
	}
	nonZero := false
	for i := 0; i < n; i += 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(p[i:]))
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("non-finite sample at byte %d", i)
		}
		if v != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Fatalf("expected audible output")
	}

	total := int64(n / 8)
	for {
		n, err := s.Read(p)
		total += int64(n / 8)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read() error: %v", err)
		}
	}
	if total != 160+40 {
		t.Fatalf("expected 200 frames, got %d", total)
	}
	if !s.Done() {
		t.Fatalf("expected reader to be done")
	}
}
