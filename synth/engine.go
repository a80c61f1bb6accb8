package synth

import (
	"github.com/cwbudde/algo-pmsynth/fx"
)

// Engine is a small polyphonic driver: a fixed voice pool fed from a
// ParamStore, followed by the shared delay and reverb.
type Engine struct {
	sampleRate float64
	store      *ParamStore
	params     Params

	voices  []*Voice
	counter uint64

	delay  *fx.Delay
	reverb *fx.Reverb

	left, right []float32
	channels    [2][]float32
}

// NewEngine creates an engine with maxPolyphony voices.
func NewEngine(sampleRate int, maxPolyphony int, store *ParamStore) *Engine {
	if maxPolyphony < 1 {
		maxPolyphony = 1
	}
	if store == nil {
		store = NewParamStore(DefaultNumLFOs)
	}
	e := &Engine{
		sampleRate: float64(sampleRate),
		store:      store,
		voices:     make([]*Voice, maxPolyphony),
		delay:      fx.NewDelay(MinDelayTime, MaxDelayTime),
		reverb:     fx.NewReverb(),
	}
	for i := range e.voices {
		e.voices[i] = NewVoice(e.sampleRate, store.NumLFOs())
	}
	e.delay.Prepare(e.sampleRate)
	e.reverb.Prepare(e.sampleRate)
	store.Snapshot(&e.params)
	return e
}

// Params returns the store the engine reads from.
func (e *Engine) Params() *ParamStore { return e.store }

// NoteOn starts a note with a MIDI velocity in [0,127]. An idle voice is
// used when available, otherwise the oldest voice is stolen.
func (e *Engine) NoteOn(note int, velocity int) {
	if velocity <= 0 {
		e.NoteOff(note)
		return
	}
	if velocity > 127 {
		velocity = 127
	}
	e.store.Snapshot(&e.params)

	v := e.allocate()
	e.counter++
	v.age = e.counter
	v.StartNote(&e.params, MIDINoteToFreq(note), float64(velocity)/127, e.sampleRate)
	v.note = note
}

func (e *Engine) allocate() *Voice {
	for _, v := range e.voices {
		if !v.IsActive() {
			return v
		}
	}
	oldest := e.voices[0]
	for _, v := range e.voices[1:] {
		if v.age < oldest.age {
			oldest = v
		}
	}
	oldest.Kill()
	return oldest
}

// NoteOff releases every voice playing note.
func (e *Engine) NoteOff(note int) {
	for _, v := range e.voices {
		if v.IsActive() && v.note == note {
			v.StopNote()
		}
	}
}

// AllNotesOff releases every sounding voice.
func (e *Engine) AllNotesOff() {
	for _, v := range e.voices {
		if v.IsActive() {
			v.StopNote()
		}
	}
}

// ActiveVoices returns the number of sounding voices.
func (e *Engine) ActiveVoices() int {
	n := 0
	for _, v := range e.voices {
		if v.IsActive() {
			n++
		}
	}
	return n
}

// Process renders numFrames of interleaved stereo audio.
func (e *Engine) Process(numFrames int) []float32 {
	out := make([]float32, numFrames*2)
	e.ProcessTo(out)
	return out
}

// ProcessTo renders len(dst)/2 frames of interleaved stereo audio into dst.
// It only allocates when the block is larger than any previous one.
func (e *Engine) ProcessTo(dst []float32) {
	numFrames := len(dst) / 2
	if numFrames == 0 {
		return
	}
	if cap(e.left) < numFrames {
		e.left = make([]float32, numFrames)
		e.right = make([]float32, numFrames)
	}
	left := e.left[:numFrames]
	right := e.right[:numFrames]
	clear(left)
	clear(right)

	e.store.Snapshot(&e.params)
	e.channels[0], e.channels[1] = left, right
	for _, v := range e.voices {
		v.RenderNextBlock(&e.params, e.channels[:], 0, numFrames)
	}

	// Signal flow: voices -> delay -> reverb -> interleaved output.
	e.delay.ProcessBlock(&e.params.Delay, left, right)
	e.reverb.ProcessBlock(&e.params.Reverb, left, right)

	for i := 0; i < numFrames; i++ {
		dst[i*2] = left[i]
		dst[i*2+1] = right[i]
	}
}
