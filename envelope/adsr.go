// Package envelope implements the linear ADSR generator used for operator
// amplitude, operator pitch and filter cutoff.
package envelope

// Stage is the current segment of the envelope.
type Stage int

const (
	Idle Stage = iota
	Attack
	Decay
	Sustain
	Release
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case Attack:
		return "attack"
	case Decay:
		return "decay"
	case Sustain:
		return "sustain"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// Params holds stage times in seconds and the sustain level in [0,1].
type Params struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// DecayOnly returns parameters for a one-shot decay from 1 toward 0.
func DecayOnly(decay float64) Params {
	return Params{Decay: decay}
}

// ADSR is a linear four-stage envelope. A zero stage time skips the stage.
type ADSR struct {
	params     Params
	sampleRate float64

	stage Stage
	level float64

	attackRate  float64
	decayRate   float64
	releaseRate float64
}

// New returns an idle envelope at the given sample rate.
func New(sampleRate float64) *ADSR {
	e := &ADSR{params: Params{Sustain: 1}}
	e.SetSampleRate(sampleRate)
	return e
}

// SetSampleRate updates the sample rate and recomputes stage rates.
func (e *ADSR) SetSampleRate(sampleRate float64) {
	if !(sampleRate > 0) {
		panic("envelope: sample rate must be > 0")
	}
	e.sampleRate = sampleRate
	e.recalculateRates()
}

// SetParameters applies new stage times and sustain level.
func (e *ADSR) SetParameters(p Params) {
	if p.Sustain < 0 {
		p.Sustain = 0
	}
	if p.Sustain > 1 {
		p.Sustain = 1
	}
	e.params = p
	e.recalculateRates()
}

// Parameters returns the active parameters.
func (e *ADSR) Parameters() Params { return e.params }

// NoteOn enters the attack stage from the current level.
func (e *ADSR) NoteOn() {
	switch {
	case e.attackRate > 0:
		e.stage = Attack
	case e.decayRate > 0:
		e.level = 1
		e.stage = Decay
	default:
		e.level = e.params.Sustain
		e.stage = Sustain
	}
}

// NoteOff enters the release stage from the current level.
func (e *ADSR) NoteOff() {
	if e.stage == Idle {
		return
	}
	if e.params.Release > 0 {
		e.releaseRate = e.level / (e.params.Release * e.sampleRate)
		e.stage = Release
		return
	}
	e.Reset()
}

// Reset forces the envelope to idle at level zero.
func (e *ADSR) Reset() {
	e.level = 0
	e.stage = Idle
}

// IsActive reports whether the envelope is outside the idle stage.
func (e *ADSR) IsActive() bool { return e.stage != Idle }

// Stage returns the current stage.
func (e *ADSR) Stage() Stage { return e.stage }

// Level returns the most recent output level.
func (e *ADSR) Level() float64 { return e.level }

// NextSample advances the envelope by one sample and returns its level.
func (e *ADSR) NextSample() float64 {
	switch e.stage {
	case Idle:
		return 0
	case Attack:
		e.level += e.attackRate
		if e.level >= 1 {
			e.level = 1
			e.goToNextStage()
		}
	case Decay:
		e.level -= e.decayRate
		if e.level <= e.params.Sustain {
			e.level = e.params.Sustain
			e.goToNextStage()
		}
	case Sustain:
		e.level = e.params.Sustain
	case Release:
		e.level -= e.releaseRate
		if e.level <= 0 {
			e.goToNextStage()
		}
	}
	return e.level
}

func (e *ADSR) goToNextStage() {
	switch e.stage {
	case Attack:
		if e.decayRate > 0 {
			e.stage = Decay
		} else {
			e.stage = Sustain
		}
	case Decay:
		e.stage = Sustain
	case Release:
		e.Reset()
	}
}

func (e *ADSR) recalculateRates() {
	e.attackRate = rate(1, e.params.Attack, e.sampleRate)
	e.decayRate = rate(1-e.params.Sustain, e.params.Decay, e.sampleRate)
	e.releaseRate = rate(e.params.Sustain, e.params.Release, e.sampleRate)

	if (e.stage == Attack && e.attackRate <= 0) ||
		(e.stage == Decay && (e.decayRate <= 0 || e.level <= e.params.Sustain)) ||
		(e.stage == Release && e.releaseRate <= 0) {
		e.goToNextStage()
	}
}

func rate(distance, seconds, sampleRate float64) float64 {
	if seconds > 0 && sampleRate > 0 {
		return distance / (seconds * sampleRate)
	}
	return -1
}
