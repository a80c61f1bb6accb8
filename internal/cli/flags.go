// Package cli holds the flag types and render loop shared by the pmsynth
// commands.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-pmsynth/synth"
)

// Assignments collects repeated -set id=value flags.
type Assignments []string

func (a *Assignments) String() string {
	if a == nil {
		return ""
	}
	return strings.Join(*a, ",")
}

// Set accepts a single assignment or a comma-separated list.
func (a *Assignments) Set(raw string) error {
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.Contains(s, "=") {
			return fmt.Errorf("invalid assignment %q (expected id=value)", s)
		}
		*a = append(*a, s)
	}
	return nil
}

// Apply publishes every assignment to store in flag order.
func (a Assignments) Apply(store *synth.ParamStore) error {
	for _, s := range a {
		if err := store.SetString(s); err != nil {
			return err
		}
	}
	return nil
}

// ParseWorkers accepts a positive integer or "auto" (returned as 0).
func ParseWorkers(raw string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return 0, fmt.Errorf("empty value (use integer >= 1 or 'auto')")
	}
	if v == "auto" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%q (use integer >= 1 or 'auto')", raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("%d (must be >= 1 or 'auto')", n)
	}
	return n, nil
}

// ParseNotes parses a comma-separated list of MIDI note numbers.
func ParseNotes(raw string) ([]int, error) {
	var notes []int
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid note %q", s)
		}
		if n < 0 || n > 127 {
			return nil, fmt.Errorf("note %d out of range 0..127", n)
		}
		notes = append(notes, n)
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("no notes given")
	}
	return notes, nil
}
