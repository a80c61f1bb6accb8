package cli

import (
	"math"

	"github.com/cwbudde/algo-pmsynth/synth"
)

// RenderOptions describes a single-note offline render.
type RenderOptions struct {
	Note         int
	Velocity     int
	Duration     float64 // seconds; the maximum when DecayDBFS is set
	ReleaseAfter float64 // seconds before NoteOff
	BlockSize    int

	// DecayDBFS stops the render once the block RMS stays below this level
	// for DecayHoldBlocks blocks after the release. +Inf disables it.
	DecayDBFS       float64
	DecayHoldBlocks int
}

// DefaultRenderOptions renders two seconds of A4 with a one second hold.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Note:            69,
		Velocity:        100,
		Duration:        2,
		ReleaseAfter:    1,
		BlockSize:       128,
		DecayDBFS:       math.Inf(1),
		DecayHoldBlocks: 6,
	}
}

// RenderNote plays one note on e and returns interleaved stereo samples.
func RenderNote(e *synth.Engine, sampleRate int, opts RenderOptions) []float32 {
	blockSize := opts.BlockSize
	if blockSize < 1 {
		blockSize = 128
	}
	totalFrames := int(float64(sampleRate) * opts.Duration)
	if totalFrames < 1 {
		totalFrames = 1
	}
	releaseAt := int(float64(sampleRate) * opts.ReleaseAfter)
	if releaseAt < 0 {
		releaseAt = 0
	}
	hold := opts.DecayHoldBlocks
	if hold < 1 {
		hold = 1
	}
	autoStop := !math.IsInf(opts.DecayDBFS, 1)
	threshold := math.Pow(10, opts.DecayDBFS/20)

	samples := make([]float32, 0, totalFrames*2)
	block := make([]float32, blockSize*2)
	e.NoteOn(opts.Note, opts.Velocity)
	released := false
	below := 0
	for rendered := 0; rendered < totalFrames; {
		n := blockSize
		if !released && releaseAt > rendered && releaseAt-rendered < n {
			n = releaseAt - rendered
		}
		if rendered+n > totalFrames {
			n = totalFrames - rendered
		}
		if !released && rendered >= releaseAt {
			e.NoteOff(opts.Note)
			released = true
		}
		buf := block[:n*2]
		e.ProcessTo(buf)
		samples = append(samples, buf...)
		rendered += n

		if autoStop && released {
			if StereoRMS(buf) < threshold {
				below++
				if below >= hold {
					break
				}
			} else {
				below = 0
			}
		}
	}
	return samples
}

// StereoRMS returns the RMS over both channels of an interleaved block.
func StereoRMS(interleaved []float32) float64 {
	if len(interleaved) == 0 {
		return 0
	}
	var sum float64
	for _, s := range interleaved {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(interleaved)))
}
