package fx

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-pmsynth/dsp"
)

const (
	smoothingTime   = 0.1
	timeConvergence = 1e-6
)

// DelayParams configures the stereo feedback delay.
type DelayParams struct {
	On        bool
	DryWet    float64
	TimeLeft  float64 // seconds
	TimeRight float64 // seconds
	Link      bool    // right channel follows TimeLeft
	Feedback  float64
}

// Delay is a two-channel feedback delay that fades its wet path to zero while
// the delay time moves, then fades back in.
type Delay struct {
	minTime float64
	maxTime float64

	sampleRate float64
	size       int
	writeIndex int
	lines      [2]*dsp.DelayLine
	cleared    bool

	dryWet   dsp.Smoother
	feedback dsp.Smoother
	time     [2]dsp.Smoother
}

// NewDelay returns a delay whose times are limited to [minTime, maxTime]
// seconds. Call Prepare before processing.
func NewDelay(minTime, maxTime float64) *Delay {
	if minTime <= 0 || maxTime < minTime {
		panic("fx: invalid delay time range")
	}
	return &Delay{minTime: minTime, maxTime: maxTime}
}

// Prepare allocates the buffers for sampleRate and resets the smoothers.
func (d *Delay) Prepare(sampleRate float64) {
	if sampleRate <= 0 {
		panic("fx: sample rate must be positive")
	}
	d.sampleRate = sampleRate
	d.size = int(math.Ceil(d.maxTime * sampleRate))
	for ch := range d.lines {
		d.lines[ch] = dsp.NewDelayLine(d.size)
	}
	d.writeIndex = 0
	d.cleared = true

	d.dryWet.Reset(sampleRate, smoothingTime)
	d.dryWet.SetCurrentAndTarget(0)
	d.feedback.Reset(sampleRate, smoothingTime)
	d.feedback.SetCurrentAndTarget(0)
	for ch := range d.time {
		d.time[ch].Reset(sampleRate, smoothingTime)
		d.time[ch].SetCurrentAndTarget(d.minTime)
	}
}

// BufferSize returns the per-channel buffer length in samples.
func (d *Delay) BufferSize() int { return d.size }

// WetLevel returns the current smoothed dry/wet mix.
func (d *Delay) WetLevel() float64 { return d.dryWet.Current() }

// Time returns the current smoothed delay time of a channel in seconds.
func (d *Delay) Time(ch int) float64 { return d.time[ch].Current() }

// ProcessBlock runs the delay in place. right may be nil for mono input.
// While switched off the buffers are cleared once and the input passes
// through untouched.
func (d *Delay) ProcessBlock(p *DelayParams, left, right []float32) {
	if d.size == 0 {
		panic("fx: delay used before Prepare")
	}
	if !p.On {
		if !d.cleared {
			d.clear()
		}
		return
	}
	d.cleared = false

	timeL := core.Clamp(p.TimeLeft, d.minTime, d.maxTime)
	timeR := core.Clamp(p.TimeRight, d.minTime, d.maxTime)
	if p.Link {
		timeR = timeL
	}
	wet := core.Clamp(p.DryWet, 0, 1)
	fb := core.Clamp(p.Feedback, 0, 1)

	stereo := right != nil
	n := len(left)
	if stereo && len(right) < n {
		n = len(right)
	}

	for i := 0; i < n; i++ {
		d.time[0].SetTarget(timeL)
		d.time[1].SetTarget(timeR)
		if !d.timeSettled(0) || !d.timeSettled(1) {
			d.dryWet.SetTarget(0)
		} else {
			d.dryWet.SetTarget(wet)
		}

		// Delay time only moves while the wet path is fully silent.
		gateOpen := d.dryWet.Current() == 0
		var t [2]float64
		for ch := range t {
			if gateOpen {
				t[ch] = d.time[ch].Next()
			} else {
				t[ch] = d.time[ch].Current()
			}
		}

		d.feedback.SetTarget(fb)
		feedback := d.feedback.Next()
		mix := d.dryWet.Next()

		left[i] = float32(d.tap(0, float64(left[i]), t[0], feedback, mix))
		if stereo {
			right[i] = float32(d.tap(1, float64(right[i]), t[1], feedback, mix))
		}
		d.writeIndex = (d.writeIndex + 1) % d.size
	}
}

func (d *Delay) timeSettled(ch int) bool {
	return math.Abs(d.time[ch].Current()-d.time[ch].Target()) <= timeConvergence
}

func (d *Delay) tap(ch int, in, seconds, feedback, mix float64) float64 {
	line := d.lines[ch]
	pos := line.WrapPosition(float64(d.writeIndex) - seconds*d.sampleRate)
	delayed := line.ReadFractional(pos)
	line.Set(d.writeIndex, core.FlushDenormals(in+feedback*delayed))
	return (1-mix)*in + mix*delayed
}

func (d *Delay) clear() {
	for _, line := range d.lines {
		line.Reset()
	}
	d.cleared = true
}
