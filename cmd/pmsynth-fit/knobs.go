package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-pmsynth/synth"
)

const defaultKnobs = "opALevel,opBLevel,opCLevel,opDLevel,opBCoarse,opBFine,opADecay,opASustain,filterFrequency"

type knobDef struct {
	Name  string
	Min   float64
	Max   float64
	IsInt bool
}

type candidate struct {
	Vals []float64
}

// parseKnobs resolves a comma-separated list of parameter ids against the
// store layout. Boolean parameters cannot be searched continuously and are
// rejected.
func parseKnobs(raw string, store *synth.ParamStore) ([]knobDef, error) {
	var defs []knobDef
	seen := make(map[string]bool)
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		d, ok := store.Def(s)
		if !ok {
			return nil, fmt.Errorf("unknown parameter %q", s)
		}
		if d.Kind == synth.KindBool {
			return nil, fmt.Errorf("boolean parameter %q cannot be fitted (use -set)", s)
		}
		seen[s] = true
		defs = append(defs, knobDef{Name: d.ID, Min: d.Min, Max: d.Max, IsInt: d.Kind == synth.KindInt})
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("no parameters to fit")
	}
	return defs, nil
}

func initCandidate(defs []knobDef, store *synth.ParamStore) candidate {
	vals := make([]float64, len(defs))
	for i, d := range defs {
		v, err := store.Get(d.Name)
		if err != nil {
			v = d.Min
		}
		vals[i] = v
	}
	return candidate{Vals: vals}
}

func applyCandidate(store *synth.ParamStore, defs []knobDef, cand candidate) error {
	for i, d := range defs {
		if err := store.Set(d.Name, cand.Vals[i]); err != nil {
			return err
		}
	}
	return nil
}

func fromNormalized(pos []float64, defs []knobDef) candidate {
	vals := make([]float64, len(defs))
	for i := range defs {
		x := 0.0
		if i < len(pos) {
			x = clamp(pos[i], 0, 1)
		}
		v := defs[i].Min + x*(defs[i].Max-defs[i].Min)
		if defs[i].IsInt {
			v = math.Round(v)
		}
		vals[i] = v
	}
	return candidate{Vals: vals}
}

// formatAssignments renders cand as a -set argument accepted by the other
// pmsynth commands.
func formatAssignments(defs []knobDef, cand candidate) string {
	var b strings.Builder
	for i, d := range defs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(d.Name)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(cand.Vals[i], 'g', 6, 64))
	}
	return b.String()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
