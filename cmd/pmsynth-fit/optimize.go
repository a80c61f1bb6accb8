package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-pmsynth/analysis"
	"github.com/cwbudde/algo-pmsynth/internal/cli"
	"github.com/cwbudde/algo-pmsynth/internal/wavio"
	"github.com/cwbudde/algo-pmsynth/synth"
	"github.com/cwbudde/mayfly"
)

type optimizationConfig struct {
	reference  []float64
	sampleRate int
	numLFOs    int
	base       cli.Assignments
	render     cli.RenderOptions

	defs          []knobDef
	initCandidate candidate

	seed             int64
	timeBudget       float64
	maxEvals         int
	reportEvery      int
	mayflyVariant    string
	mayflyPop        int
	mayflyRoundEvals int
	workers          int
	topK             int
}

type topCandidate struct {
	Eval       int                `json:"eval"`
	Score      float64            `json:"score"`
	Similarity float64            `json:"similarity"`
	Knobs      map[string]float64 `json:"knobs"`
}

type optimizationState struct {
	mu          sync.Mutex
	best        candidate
	bestMetrics analysis.Metrics
	top         []topCandidate
}

type optimizationResult struct {
	best        candidate
	bestMetrics analysis.Metrics
	initMetrics analysis.Metrics
	top         []topCandidate
	evals       int
	elapsed     float64
}

func runOptimization(cfg *optimizationConfig) (*optimizationResult, error) {
	variant := strings.ToLower(cfg.mayflyVariant)
	if _, err := newMayflyConfig(variant, cfg.mayflyPop, len(cfg.defs), 1); err != nil {
		return nil, err
	}

	initMetrics, _, err := evaluateCandidate(cfg, cfg.initCandidate)
	if err != nil {
		return nil, fmt.Errorf("initial evaluation: %w", err)
	}
	fmt.Printf("Initial score=%.4f sim=%.2f%%\n", initMetrics.Score, initMetrics.Similarity*100.0)

	state := &optimizationState{
		best:        cloneCandidate(cfg.initCandidate),
		bestMetrics: initMetrics,
	}
	state.top = updateTopCandidates(nil, cfg.topK, 0, initMetrics, cfg.defs, cfg.initCandidate)

	workers := cfg.workers
	if workers < 1 {
		workers = 1
	}
	start := time.Now()
	deadline := start.Add(time.Duration(cfg.timeBudget * float64(time.Second)))
	var evals int64
	var rounds int64

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if time.Now().After(deadline) {
					return
				}
				remaining := cfg.maxEvals - int(atomic.LoadInt64(&evals))
				if remaining <= 0 {
					return
				}
				round := atomic.AddInt64(&rounds, 1)
				budget := minInt(cfg.mayflyRoundEvals, remaining)
				iters := maxInt(1, budget/(2*cfg.mayflyPop))

				mcfg, err := newMayflyConfig(variant, cfg.mayflyPop, len(cfg.defs), iters)
				if err != nil {
					fmt.Fprintf(os.Stderr, "mayfly round %d setup failed: %v\n", round, err)
					return
				}
				mcfg.Rand = rand.New(rand.NewSource(cfg.seed + round*7919))
				mcfg.ObjectiveFunc = func(pos []float64) float64 {
					if time.Now().After(deadline) {
						return currentBestScore(state) + 1.0
					}
					evalNum, ok := reserveEval(&evals, cfg.maxEvals)
					if !ok {
						return currentBestScore(state) + 1.0
					}
					cand := fromNormalized(pos, cfg.defs)
					m, _, err := evaluateCandidate(cfg, cand)
					if err != nil {
						return currentBestScore(state) + 0.8
					}

					state.mu.Lock()
					state.top = updateTopCandidates(state.top, cfg.topK, int(evalNum), m, cfg.defs, cand)
					improved := m.Score < state.bestMetrics.Score
					if improved {
						state.best = cloneCandidate(cand)
						state.bestMetrics = m
					}
					best := state.bestMetrics
					state.mu.Unlock()

					if improved {
						fmt.Printf("Improved eval=%d score=%.4f sim=%.2f%%\n", evalNum, m.Score, m.Similarity*100.0)
					} else if cfg.reportEvery > 0 && evalNum%int64(cfg.reportEvery) == 0 {
						fmt.Printf("eval=%d best=%.4f elapsed=%.1fs\n", evalNum, best.Score, time.Since(start).Seconds())
					}
					return m.Score
				}
				if _, err := runMayfly(mcfg); err != nil {
					fmt.Fprintf(os.Stderr, "mayfly round %d failed: %v\n", round, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	state.mu.Lock()
	defer state.mu.Unlock()
	return &optimizationResult{
		best:        cloneCandidate(state.best),
		bestMetrics: state.bestMetrics,
		initMetrics: initMetrics,
		top:         cloneTopCandidates(state.top),
		evals:       int(atomic.LoadInt64(&evals)),
		elapsed:     time.Since(start).Seconds(),
	}, nil
}

// evaluateCandidate renders cand on a fresh engine and scores it against the
// reference. It also returns the interleaved render.
func evaluateCandidate(cfg *optimizationConfig, cand candidate) (analysis.Metrics, []float32, error) {
	store := synth.NewParamStore(cfg.numLFOs)
	if err := cfg.base.Apply(store); err != nil {
		return analysis.Metrics{}, nil, err
	}
	if err := applyCandidate(store, cfg.defs, cand); err != nil {
		return analysis.Metrics{}, nil, err
	}
	e := synth.NewEngine(cfg.sampleRate, 1, store)
	stereo := cli.RenderNote(e, cfg.sampleRate, cfg.render)
	m := analysis.Compare(cfg.reference, wavio.StereoToMono64(stereo), cfg.sampleRate)
	if math.IsNaN(m.Score) {
		return m, stereo, fmt.Errorf("non-finite score")
	}
	return m, stereo, nil
}

func newMayflyConfig(variant string, pop int, dims int, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = maxInt(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}

func reserveEval(evals *int64, maxEvals int) (int64, bool) {
	for {
		cur := atomic.LoadInt64(evals)
		if cur >= int64(maxEvals) {
			return 0, false
		}
		if atomic.CompareAndSwapInt64(evals, cur, cur+1) {
			return cur + 1, true
		}
	}
}

func currentBestScore(state *optimizationState) float64 {
	state.mu.Lock()
	score := state.bestMetrics.Score
	state.mu.Unlock()
	return score
}

func updateTopCandidates(top []topCandidate, topK int, eval int, metrics analysis.Metrics, defs []knobDef, cand candidate) []topCandidate {
	entry := topCandidate{
		Eval:       eval,
		Score:      metrics.Score,
		Similarity: metrics.Similarity,
		Knobs:      make(map[string]float64, len(defs)),
	}
	for i, d := range defs {
		entry.Knobs[d.Name] = cand.Vals[i]
	}
	top = append(top, entry)
	sort.Slice(top, func(i, j int) bool {
		if top[i].Score == top[j].Score {
			return top[i].Eval < top[j].Eval
		}
		return top[i].Score < top[j].Score
	})
	if topK > 0 && len(top) > topK {
		top = top[:topK]
	}
	return top
}

func cloneCandidate(c candidate) candidate {
	vals := make([]float64, len(c.Vals))
	copy(vals, c.Vals)
	return candidate{Vals: vals}
}

func cloneTopCandidates(in []topCandidate) []topCandidate {
	out := make([]topCandidate, len(in))
	for i, t := range in {
		out[i] = t
		out[i].Knobs = make(map[string]float64, len(t.Knobs))
		for k, v := range t.Knobs {
			out[i].Knobs[k] = v
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
