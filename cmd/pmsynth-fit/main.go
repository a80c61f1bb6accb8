package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/cwbudde/algo-pmsynth/internal/cli"
	"github.com/cwbudde/algo-pmsynth/internal/wavio"
	"github.com/cwbudde/algo-pmsynth/synth"
)

func main() {
	var sets cli.Assignments
	referencePath := flag.String("reference", "", "Reference WAV path")
	knobs := flag.String("knobs", defaultKnobs, "Comma-separated parameter ids to fit")
	reportPath := flag.String("report", "out/fit/report.json", "Report JSON path")
	outputWAV := flag.String("output", "", "Optional path to write the best render")
	note := flag.Int("note", 69, "MIDI note to fit")
	velocity := flag.Int("velocity", 100, "MIDI velocity for rendering during fit")
	duration := flag.Float64("duration", 2.0, "Render duration in seconds")
	releaseAfter := flag.Float64("release-after", 1.0, "Seconds before NoteOff for each evaluation render")
	sampleRate := flag.Int("sample-rate", 48000, "Render/analysis sample rate")
	seed := flag.Int64("seed", 1, "Random seed")
	timeBudget := flag.Float64("time-budget", 60.0, "Optimization time budget in seconds")
	maxEvals := flag.Int("max-evals", 2000, "Maximum objective evaluations")
	reportEvery := flag.Int("report-every", 20, "Print progress every N evaluations")
	topK := flag.Int("top-k", 5, "How many top candidates to keep in report")
	workers := flag.String("workers", "1", "Parallel workers running independent Mayfly rounds (number or 'auto')")
	mayflyVariant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	mayflyPop := flag.Int("mayfly-pop", 10, "Male and female population size per Mayfly run")
	mayflyRoundEvals := flag.Int("mayfly-round-evals", 240, "Target eval budget per Mayfly round")
	flag.Var(&sets, "set", "Fixed parameter assignment id=value applied before every candidate (repeatable)")
	flag.Parse()

	if *referencePath == "" {
		die("-reference is required")
	}
	if *sampleRate <= 0 {
		die("sample-rate must be > 0")
	}
	if *maxEvals < 1 {
		die("max-evals must be >= 1")
	}
	if *timeBudget <= 0 {
		die("time-budget must be > 0")
	}
	if *mayflyPop < 2 {
		*mayflyPop = 2
	}
	if *mayflyRoundEvals < *mayflyPop*2 {
		*mayflyRoundEvals = *mayflyPop * 2
	}
	if *topK < 1 {
		*topK = 1
	}
	nWorkers, err := cli.ParseWorkers(*workers)
	if err != nil {
		die("invalid workers value: %v", err)
	}
	if nWorkers == 0 {
		nWorkers = runtime.NumCPU()
	}

	store := synth.NewParamStore(synth.DefaultNumLFOs)
	if err := sets.Apply(store); err != nil {
		die("invalid -set: %v", err)
	}
	defs, err := parseKnobs(*knobs, store)
	if err != nil {
		die("invalid -knobs: %v", err)
	}

	refRaw, refSR, err := wavio.ReadWAVMono(*referencePath)
	if err != nil {
		die("failed to read reference: %v", err)
	}
	ref, err := wavio.ResampleIfNeeded(refRaw, refSR, *sampleRate)
	if err != nil {
		die("failed to resample reference: %v", err)
	}

	render := cli.DefaultRenderOptions()
	render.Note = *note
	render.Velocity = *velocity
	render.Duration = *duration
	render.ReleaseAfter = *releaseAfter

	cfg := &optimizationConfig{
		reference:        ref,
		sampleRate:       *sampleRate,
		numLFOs:          store.NumLFOs(),
		base:             sets,
		render:           render,
		defs:             defs,
		initCandidate:    initCandidate(defs, store),
		seed:             *seed,
		timeBudget:       *timeBudget,
		maxEvals:         *maxEvals,
		reportEvery:      *reportEvery,
		mayflyVariant:    strings.ToLower(*mayflyVariant),
		mayflyPop:        *mayflyPop,
		mayflyRoundEvals: *mayflyRoundEvals,
		workers:          nWorkers,
		topK:             *topK,
	}

	fmt.Printf("Fitting %d parameters against %s (variant=%s workers=%d)\n", len(defs), *referencePath, cfg.mayflyVariant, nWorkers)
	result, err := runOptimization(cfg)
	if err != nil {
		die("optimization failed: %v", err)
	}

	report := newRunReport(*referencePath, cfg, result)
	if err := writeJSON(*reportPath, report); err != nil {
		die("failed to write report: %v", err)
	}
	if *outputWAV != "" {
		_, stereo, err := evaluateCandidate(cfg, result.best)
		if err != nil {
			die("failed to render best candidate: %v", err)
		}
		if err := wavio.WriteStereoInterleavedWAV(*outputWAV, stereo, *sampleRate); err != nil {
			die("failed to write %s: %v", *outputWAV, err)
		}
	}

	fmt.Printf("Done evals=%d elapsed=%.1fs best_score=%.4f best_similarity=%.2f%%\n", result.evals, result.elapsed, result.bestMetrics.Score, result.bestMetrics.Similarity*100.0)
	fmt.Printf("-set %s\n", report.BestSet)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
