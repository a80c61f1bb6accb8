package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-pmsynth/analysis"
)

type runReport struct {
	ReferencePath  string             `json:"reference_path"`
	SampleRate     int                `json:"sample_rate"`
	Note           int                `json:"note"`
	Velocity       int                `json:"velocity"`
	BaseSet        []string           `json:"base_set,omitempty"`
	DurationSec    float64            `json:"elapsed_seconds"`
	Evaluations    int                `json:"evaluations"`
	MayflyVariant  string             `json:"mayfly_variant"`
	InitialScore   float64            `json:"initial_score"`
	BestScore      float64            `json:"best_score"`
	BestSimilarity float64            `json:"best_similarity"`
	BestMetrics    analysis.Metrics   `json:"best_metrics"`
	BestKnobs      map[string]float64 `json:"best_knobs"`
	BestSet        string             `json:"best_set"`
	TopCandidates  []topCandidate     `json:"top_candidates,omitempty"`
}

func newRunReport(referencePath string, cfg *optimizationConfig, res *optimizationResult) runReport {
	knobs := make(map[string]float64, len(cfg.defs))
	for i, d := range cfg.defs {
		knobs[d.Name] = res.best.Vals[i]
	}
	return runReport{
		ReferencePath:  referencePath,
		SampleRate:     cfg.sampleRate,
		Note:           cfg.render.Note,
		Velocity:       cfg.render.Velocity,
		BaseSet:        []string(cfg.base),
		DurationSec:    res.elapsed,
		Evaluations:    res.evals,
		MayflyVariant:  cfg.mayflyVariant,
		InitialScore:   res.initMetrics.Score,
		BestScore:      res.bestMetrics.Score,
		BestSimilarity: res.bestMetrics.Similarity,
		BestMetrics:    res.bestMetrics,
		BestKnobs:      knobs,
		BestSet:        formatAssignments(cfg.defs, res.best),
		TopCandidates:  res.top,
	}
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}
