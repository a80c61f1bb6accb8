package synth

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

// ErrUnknownParam is returned for parameter ids missing from the layout.
var ErrUnknownParam = errors.New("unknown parameter")

// ParamStore publishes parameters from a control thread to the audio thread.
// Every parameter is an independent atomic slot; Snapshot reads each slot
// once, so values are atomic per field but not across fields.
type ParamStore struct {
	numLFOs int
	defs    []ParamDef
	index   map[string]int
	slots   []atomic.Uint64
}

// NewParamStore returns a store holding the layout defaults.
func NewParamStore(numLFOs int) *ParamStore {
	if numLFOs < 0 {
		numLFOs = 0
	}
	defs := Layout(numLFOs)
	s := &ParamStore{
		numLFOs: numLFOs,
		defs:    defs,
		index:   make(map[string]int, len(defs)),
		slots:   make([]atomic.Uint64, len(defs)),
	}
	for i, d := range defs {
		s.index[d.ID] = i
		s.slots[i].Store(math.Float64bits(d.Default))
	}
	return s
}

// NumLFOs returns the number of LFOs the layout was built for.
func (s *ParamStore) NumLFOs() int { return s.numLFOs }

// Set clamps v to the parameter range and publishes it.
func (s *ParamStore) Set(id string, v float64) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("set %q: %w", id, ErrUnknownParam)
	}
	s.slots[i].Store(math.Float64bits(s.defs[i].Normalize(v)))
	return nil
}

// Get returns the latest published value of a parameter.
func (s *ParamStore) Get(id string) (float64, error) {
	i, ok := s.index[id]
	if !ok {
		return 0, fmt.Errorf("get %q: %w", id, ErrUnknownParam)
	}
	return math.Float64frombits(s.slots[i].Load()), nil
}

// Def returns the layout entry for id.
func (s *ParamStore) Def(id string) (ParamDef, bool) {
	i, ok := s.index[id]
	if !ok {
		return ParamDef{}, false
	}
	return s.defs[i], true
}

// SetString parses an "id=value" assignment. Booleans accept true/false/on/off.
func (s *ParamStore) SetString(assignment string) error {
	id, raw, ok := strings.Cut(assignment, "=")
	if !ok {
		return fmt.Errorf("invalid assignment %q (expected id=value)", assignment)
	}
	id = strings.TrimSpace(id)
	raw = strings.TrimSpace(raw)
	var v float64
	switch strings.ToLower(raw) {
	case "true", "on", "yes":
		v = 1
	case "false", "off", "no":
		v = 0
	default:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %q: %w", id, err)
		}
		v = f
	}
	return s.Set(id, v)
}

// IDs returns all parameter ids in sorted order.
func (s *ParamStore) IDs() []string {
	ids := make([]string, 0, len(s.defs))
	for _, d := range s.defs {
		ids = append(ids, d.ID)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot copies every slot into dst. It only allocates when dst.LFOs has
// the wrong length.
func (s *ParamStore) Snapshot(dst *Params) {
	if len(dst.LFOs) != s.numLFOs {
		dst.LFOs = make([]LFOParams, s.numLFOs)
	}
	for i := range s.defs {
		s.defs[i].apply(dst, math.Float64frombits(s.slots[i].Load()))
	}
}
