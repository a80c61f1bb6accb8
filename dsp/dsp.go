package dsp

import "math"

// Smoother ramps linearly from its current value to a target over a fixed
// number of steps (no heap allocations in Next).
type Smoother struct {
	current   float64
	target    float64
	step      float64
	countdown int
	steps     int
}

// Reset sets the ramp length to floor(rampSeconds*sampleRate) steps and
// snaps the current value to the target.
func (s *Smoother) Reset(sampleRate, rampSeconds float64) {
	s.steps = int(math.Floor(rampSeconds * sampleRate))
	s.SetCurrentAndTarget(s.target)
}

// SetCurrentAndTarget jumps to v without ramping.
func (s *Smoother) SetCurrentAndTarget(v float64) {
	s.current = v
	s.target = v
	s.countdown = 0
}

// SetTarget starts a new ramp toward v. Repeating the same target does not
// restart the ramp.
func (s *Smoother) SetTarget(v float64) {
	if v == s.target {
		return
	}
	if s.steps <= 0 {
		s.SetCurrentAndTarget(v)
		return
	}
	s.target = v
	s.countdown = s.steps
	s.step = (s.target - s.current) / float64(s.countdown)
}

// Next advances the ramp by one step and returns the new current value.
// The last step lands exactly on the target.
func (s *Smoother) Next() float64 {
	if s.countdown <= 0 {
		return s.target
	}
	s.countdown--
	if s.countdown > 0 {
		s.current += s.step
	} else {
		s.current = s.target
	}
	return s.current
}

// Skip advances the ramp by n steps.
func (s *Smoother) Skip(n int) float64 {
	if n >= s.countdown {
		s.SetCurrentAndTarget(s.target)
		return s.target
	}
	s.current += s.step * float64(n)
	s.countdown -= n
	return s.current
}

// Current returns the value most recently produced.
func (s *Smoother) Current() float64 { return s.current }

// Target returns the ramp destination.
func (s *Smoother) Target() float64 { return s.target }

// IsSmoothing reports whether a ramp is in progress.
func (s *Smoother) IsSmoothing() bool { return s.countdown > 0 }

// DelayLine is a circular buffer addressed by an external write index and
// read at fractional positions.
type DelayLine struct {
	buffer []float64
	size   int
}

// NewDelayLine creates a new delay line with the given size.
func NewDelayLine(size int) *DelayLine {
	if size < 1 {
		size = 1
	}
	return &DelayLine{
		buffer: make([]float64, size),
		size:   size,
	}
}

// Len returns the buffer size in samples.
func (d *DelayLine) Len() int { return d.size }

// Set stores sample at index i (taken modulo the size).
func (d *DelayLine) Set(i int, sample float64) {
	d.buffer[wrapIndex(i, d.size)] = sample
}

// At returns the sample at index i (taken modulo the size).
func (d *DelayLine) At(i int) float64 {
	return d.buffer[wrapIndex(i, d.size)]
}

// ReadFractional reads at a fractional position in [0, size) using linear
// interpolation between floor(pos) and floor(pos)+1 (wrapping).
func (d *DelayLine) ReadFractional(pos float64) float64 {
	indexA := int(math.Floor(pos))
	weight := pos - float64(indexA)
	indexA = wrapIndex(indexA, d.size)
	indexB := (indexA + 1) % d.size
	return (1.0-weight)*d.buffer[indexA] + weight*d.buffer[indexB]
}

// WrapPosition folds pos into [0, size) by adding or subtracting the size.
func (d *DelayLine) WrapPosition(pos float64) float64 {
	n := float64(d.size)
	for pos < 0 {
		pos += n
	}
	for pos >= n {
		pos -= n
	}
	return pos
}

// Reset clears the delay line.
func (d *DelayLine) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
}

func wrapIndex(i, size int) int {
	i %= size
	if i < 0 {
		i += size
	}
	return i
}
