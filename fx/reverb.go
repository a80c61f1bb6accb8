package fx

import (
	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/effects"
	"github.com/cwbudde/algo-pmsynth/dsp"
)

// stereoSpread offsets the right tank input, as in classic Freeverb.
const stereoSpread = 23

// ReverbParams configures the output reverb.
type ReverbParams struct {
	On       bool
	DryWet   float64
	RoomSize float64
	Width    float64
	Damping  float64
}

// Reverb is a stereo wrapper around two mono Freeverb tanks with smoothed
// parameters and a width control.
type Reverb struct {
	tanks       [2]*effects.Reverb
	spread      *dsp.DelayLine
	spreadIndex int
	reset       bool

	dryWet   dsp.Smoother
	roomSize dsp.Smoother
	width    dsp.Smoother
	damping  dsp.Smoother
}

// NewReverb returns a reverb. Call Prepare before processing.
func NewReverb() *Reverb {
	r := &Reverb{spread: dsp.NewDelayLine(stereoSpread)}
	for ch := range r.tanks {
		r.tanks[ch] = effects.NewReverb()
		r.tanks[ch].SetWet(1)
		r.tanks[ch].SetDry(0)
	}
	return r
}

// Prepare resets the tanks and the parameter smoothers for sampleRate.
func (r *Reverb) Prepare(sampleRate float64) {
	if sampleRate <= 0 {
		panic("fx: sample rate must be positive")
	}
	r.clear()
	r.dryWet.Reset(sampleRate, smoothingTime)
	r.dryWet.SetCurrentAndTarget(0)
	for _, s := range []*dsp.Smoother{&r.roomSize, &r.width, &r.damping} {
		s.Reset(sampleRate, smoothingTime)
		s.SetCurrentAndTarget(0.5)
	}
}

// WetLevel returns the current smoothed dry/wet mix.
func (r *Reverb) WetLevel() float64 { return r.dryWet.Current() }

// ProcessBlock runs the reverb in place. right may be nil for mono input.
// Parameters are updated once per block; the smoothers advance by the block
// length so ramps keep their duration regardless of block size.
func (r *Reverb) ProcessBlock(p *ReverbParams, left, right []float32) {
	if !p.On {
		if !r.reset {
			r.clear()
		}
		return
	}
	r.reset = false

	n := len(left)
	if right != nil && len(right) < n {
		n = len(right)
	}
	if n == 0 {
		return
	}

	r.dryWet.SetTarget(core.Clamp(p.DryWet, 0, 1))
	r.roomSize.SetTarget(core.Clamp(p.RoomSize, 0, 1))
	r.width.SetTarget(core.Clamp(p.Width, 0, 1))
	r.damping.SetTarget(core.Clamp(p.Damping, 0, 1))

	wet := r.dryWet.Skip(n)
	dry := 1 - wet
	room := r.roomSize.Skip(n)
	width := r.width.Skip(n)
	damp := r.damping.Skip(n)

	// Freeverb maps room size into [0.7, 0.98] comb feedback.
	for _, tank := range r.tanks {
		tank.SetRoomSize(0.7 + 0.28*room)
		tank.SetDamp(damp * 0.4)
	}
	wet1 := wet * (0.5*width + 0.5)
	wet2 := wet * 0.5 * (1 - width)

	if right == nil {
		for i := 0; i < n; i++ {
			in := float64(left[i])
			left[i] = float32(dry*in + wet*r.tanks[0].ProcessSample(in))
		}
		return
	}

	for i := 0; i < n; i++ {
		inL := float64(left[i])
		inR := float64(right[i])
		spreadR := r.spread.At(r.spreadIndex)
		r.spread.Set(r.spreadIndex, inR)
		r.spreadIndex = (r.spreadIndex + 1) % r.spread.Len()

		outL := r.tanks[0].ProcessSample(inL)
		outR := r.tanks[1].ProcessSample(spreadR)
		left[i] = float32(dry*inL + wet1*outL + wet2*outR)
		right[i] = float32(dry*inR + wet1*outR + wet2*outL)
	}
}

func (r *Reverb) clear() {
	for _, tank := range r.tanks {
		tank.Reset()
	}
	r.spread.Reset()
	r.spreadIndex = 0
	r.reset = true
}
