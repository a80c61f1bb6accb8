package main

import (
	"encoding/binary"
	"io"
	"math"
	"sort"
	"sync"

	"github.com/cwbudde/algo-pmsynth/synth"
)

type event struct {
	frame int64
	note  int
	on    bool
}

// sequence builds note events for notes played one after another, each
// held for gate seconds out of every step seconds.
func sequence(notes []int, sampleRate int, step, gate float64) []event {
	stepFrames := int64(step * float64(sampleRate))
	gateFrames := int64(gate * float64(sampleRate))
	if gateFrames > stepFrames {
		gateFrames = stepFrames
	}
	events := make([]event, 0, 2*len(notes))
	for i, n := range notes {
		start := int64(i) * stepFrames
		events = append(events, event{frame: start, note: n, on: true})
		events = append(events, event{frame: start + gateFrames, note: n, on: false})
	}
	sort.SliceStable(events, func(i, j int) bool { return less(events[i], events[j]) })
	return events
}

// less orders by frame; offs precede ons at the same frame so repeated notes
// retrigger.
func less(a, b event) bool {
	if a.frame != b.frame {
		return a.frame < b.frame
	}
	return !a.on && b.on
}

// streamReader renders the engine on demand as 32-bit little-endian float
// stereo for an oto player. Events fire on exact frames; after the last
// event the stream runs for tail frames and then reports io.EOF.
type streamReader struct {
	mu       sync.Mutex
	engine   *synth.Engine
	velocity int
	events   []event
	next     int
	frame    int64
	end      int64
	buf      []float32
}

func newStreamReader(e *synth.Engine, events []event, velocity int, tailFrames int64) *streamReader {
	var end int64
	if len(events) > 0 {
		end = events[len(events)-1].frame
	}
	return &streamReader{
		engine:   e,
		velocity: velocity,
		events:   events,
		end:      end + tailFrames,
	}
}

func (s *streamReader) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frame >= s.end {
		return 0, io.EOF
	}
	frames := int64(len(p) / 8)
	if frames == 0 {
		return 0, nil
	}
	if rem := s.end - s.frame; frames > rem {
		frames = rem
	}
	if cap(s.buf) < int(frames)*2 {
		s.buf = make([]float32, frames*2)
	}
	out := s.buf[:frames*2]

	done := int64(0)
	for done < frames {
		s.fireEvents()
		n := frames - done
		if s.next < len(s.events) {
			if until := s.events[s.next].frame - s.frame; until < n {
				n = until
			}
		}
		s.engine.ProcessTo(out[done*2 : (done+n)*2])
		done += n
		s.frame += n
	}

	for i, v := range out {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return int(frames) * 8, nil
}

func (s *streamReader) fireEvents() {
	for s.next < len(s.events) && s.events[s.next].frame <= s.frame {
		ev := s.events[s.next]
		if ev.on {
			s.engine.NoteOn(ev.note, s.velocity)
		} else {
			s.engine.NoteOff(ev.note)
		}
		s.next++
	}
}

// Done reports whether the whole sequence and its tail were rendered.
func (s *streamReader) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame >= s.end
}
