package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-pmsynth/analysis"
	"github.com/cwbudde/algo-pmsynth/internal/cli"
	"github.com/cwbudde/algo-pmsynth/internal/wavio"
	"github.com/cwbudde/algo-pmsynth/synth"
)

func main() {
	var sets cli.Assignments
	referencePath := flag.String("reference", "", "Reference WAV path")
	candidatePath := flag.String("candidate", "", "Candidate WAV path; if empty, render the candidate from the engine")
	note := flag.Int("note", 69, "MIDI note for rendered candidate")
	velocity := flag.Int("velocity", 100, "MIDI velocity for rendered candidate")
	duration := flag.Float64("duration", 2.0, "Rendered candidate duration in seconds")
	releaseAfter := flag.Float64("release-after", 1.0, "Note hold time before NoteOff for rendered candidate")
	sampleRate := flag.Int("sample-rate", 48000, "Analysis sample rate in Hz")
	raw := flag.Bool("raw", false, "Compare sample by sample without alignment or level normalization")
	writeCandidate := flag.String("write-candidate", "", "Optional path to write rendered candidate WAV")
	jsonOut := flag.Bool("json", false, "Print metrics as JSON")
	flag.Var(&sets, "set", "Parameter assignment id=value for the rendered candidate (repeatable)")
	flag.Parse()

	if *referencePath == "" {
		die("-reference is required")
	}
	if *sampleRate <= 0 {
		die("sample-rate must be > 0")
	}

	ref, err := loadMono(*referencePath, *sampleRate)
	if err != nil {
		die("failed to read reference: %v", err)
	}

	var cand []float64
	if *candidatePath != "" {
		cand, err = loadMono(*candidatePath, *sampleRate)
		if err != nil {
			die("failed to read candidate: %v", err)
		}
	} else {
		store := synth.NewParamStore(synth.DefaultNumLFOs)
		if err := sets.Apply(store); err != nil {
			die("invalid -set: %v", err)
		}
		opts := cli.DefaultRenderOptions()
		opts.Note = *note
		opts.Velocity = *velocity
		opts.Duration = *duration
		opts.ReleaseAfter = *releaseAfter
		stereo := cli.RenderNote(synth.NewEngine(*sampleRate, 8, store), *sampleRate, opts)
		cand = wavio.StereoToMono64(stereo)
		if *writeCandidate != "" {
			if err := wavio.WriteStereoInterleavedWAV(*writeCandidate, stereo, *sampleRate); err != nil {
				die("failed to write candidate wav: %v", err)
			}
		}
	}

	opts := analysis.DefaultOptions
	if *raw {
		opts = analysis.Options{}
	}
	metrics := analysis.CompareWith(ref, cand, *sampleRate, opts)
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(metrics); err != nil {
			die("json encode failed: %v", err)
		}
		return
	}

	fmt.Printf("Reference frames: %d\n", metrics.ReferenceFrames)
	fmt.Printf("Candidate frames: %d\n", metrics.CandidateFrames)
	fmt.Printf("Aligned frames:   %d\n", metrics.AlignedFrames)
	fmt.Printf("Lag:              %d samples (%.3f ms)\n", metrics.LagSamples, 1000.0*float64(metrics.LagSamples)/float64(metrics.SampleRate))
	fmt.Println()
	fmt.Printf("Time RMSE:        %.6f (%.1f dB)\n", metrics.TimeRMSE, 20*math.Log10(math.Max(metrics.TimeRMSE, 1e-12)))
	fmt.Printf("Envelope RMSE:    %.1f dB\n", metrics.EnvelopeRMSEDB)
	fmt.Printf("Spectral RMSE:    %.1f dB\n", metrics.SpectralRMSEDB)
	fmt.Printf("Peak:             ref=%.2f Hz  cand=%.2f Hz  (%.1f cents)\n", metrics.RefPeakHz, metrics.CandPeakHz, metrics.PitchDiffCents)
	fmt.Println()
	fmt.Printf("Score:            %.4f  (0 best, 1 worst)\n", metrics.Score)
	fmt.Printf("Similarity:       %.2f%%\n", metrics.Similarity*100.0)
}

func loadMono(path string, sampleRate int) ([]float64, error) {
	x, sr, err := wavio.ReadWAVMono(path)
	if err != nil {
		return nil, err
	}
	return wavio.ResampleIfNeeded(x, sr, sampleRate)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
