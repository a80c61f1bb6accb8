package main

import (
	"testing"

	"github.com/cwbudde/algo-pmsynth/analysis"
	"github.com/cwbudde/algo-pmsynth/internal/cli"
	"github.com/cwbudde/algo-pmsynth/internal/wavio"
	"github.com/cwbudde/algo-pmsynth/synth"
)

const testRate = 16000

var sineVoice = cli.Assignments{"algorithm=10", "opBLevel=0", "opCLevel=0", "opDLevel=0", "opAAttack=0.01"}

func testConfig(t *testing.T) *optimizationConfig {
	t.Helper()
	render := cli.DefaultRenderOptions()
	render.Duration = 0.3
	render.ReleaseAfter = 0.2

	store := synth.NewParamStore(synth.DefaultNumLFOs)
	if err := sineVoice.Apply(store); err != nil {
		t.Fatalf("apply: %v", err)
	}
	ref := wavio.StereoToMono64(cli.RenderNote(synth.NewEngine(testRate, 1, store), testRate, render))

	defs, err := parseKnobs("opACoarse,opALevel", store)
	if err != nil {
		t.Fatalf("parseKnobs: %v", err)
	}
	return &optimizationConfig{
		reference:        ref,
		sampleRate:       testRate,
		numLFOs:          synth.DefaultNumLFOs,
		base:             sineVoice,
		render:           render,
		defs:             defs,
		initCandidate:    initCandidate(defs, store),
		seed:             1,
		timeBudget:       20,
		maxEvals:         6,
		mayflyVariant:    "desma",
		mayflyPop:        2,
		mayflyRoundEvals: 4,
		workers:          1,
		topK:             3,
	}
}

func TestEvaluateCandidateRanksExactMatchFirst(t *testing.T) {
	cfg := testConfig(t)
	same, stereo, err := evaluateCandidate(cfg, cfg.initCandidate)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(stereo) != 2*len(cfg.reference) {
		t.Fatalf("render length %d does not match reference %d", len(stereo), len(cfg.reference))
	}
	if same.Score > 0.05 {
		t.Fatalf("expected near-zero score for the reference settings, got %f", same.Score)
	}

	octave := cloneCandidate(cfg.initCandidate)
	octave.Vals[0] = 2
	diff, _, err := evaluateCandidate(cfg, octave)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if diff.Score < same.Score+0.1 {
		t.Fatalf("expected octave shift to score worse: same=%f octave=%f", same.Score, diff.Score)
	}
}

func TestRunOptimizationRespectsBudget(t *testing.T) {
	cfg := testConfig(t)
	res, err := runOptimization(cfg)
	if err != nil {
		t.Fatalf("runOptimization: %v", err)
	}
	if res.evals > cfg.maxEvals {
		t.Fatalf("evals %d exceed budget %d", res.evals, cfg.maxEvals)
	}
	if res.bestMetrics.Score > res.initMetrics.Score {
		t.Fatalf("best score %f worse than initial %f", res.bestMetrics.Score, res.initMetrics.Score)
	}
	if len(res.top) == 0 || len(res.top) > cfg.topK {
		t.Fatalf("unexpected top list size %d", len(res.top))
	}
	if len(res.best.Vals) != len(cfg.defs) {
		t.Fatalf("best candidate has %d values, want %d", len(res.best.Vals), len(cfg.defs))
	}
}

func TestRunOptimizationRejectsUnknownVariant(t *testing.T) {
	cfg := testConfig(t)
	cfg.mayflyVariant = "nope"
	if _, err := runOptimization(cfg); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestUpdateTopCandidatesKeepsBest(t *testing.T) {
	defs := []knobDef{{Name: "x", Min: 0, Max: 1}}
	var top []topCandidate
	for i, s := range []float64{0.5, 0.2, 0.9, 0.1} {
		top = updateTopCandidates(top, 2, i+1, analysis.Metrics{Score: s}, defs, candidate{Vals: []float64{s}})
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].Score != 0.1 || top[1].Score != 0.2 {
		t.Fatalf("unexpected order: %+v", top)
	}
	if top[0].Knobs["x"] != 0.1 {
		t.Fatalf("knobs not recorded: %+v", top[0])
	}
}

func TestReserveEvalStopsAtBudget(t *testing.T) {
	var evals int64
	for i := 1; i <= 3; i++ {
		n, ok := reserveEval(&evals, 3)
		if !ok || n != int64(i) {
			t.Fatalf("reserveEval #%d = %d,%v", i, n, ok)
		}
	}
	if _, ok := reserveEval(&evals, 3); ok {
		t.Fatalf("expected budget exhaustion")
	}
}
