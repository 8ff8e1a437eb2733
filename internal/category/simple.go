package category

import (
	"fmt"

	"github.com/vk/simforge/internal/dataset"
)

// Simple is a fundamental category backed directly by a dataset
// categorical variable. Its label is read straight from the view.
type Simple struct {
	name   string
	states []string
}

// NewSimple builds a Simple category from a dataset variable definition.
// The state list is copied; later mutation of the dataset definition does
// not affect an in-progress build.
func NewSimple(v *dataset.CategoryVar) *Simple {
	states := make([]string, len(v.States))
	copy(states, v.States)
	return &Simple{name: v.Name, states: states}
}

// Name implements Category.
func (s *Simple) Name() string { return s.name }

// States implements Category.
func (s *Simple) States() []string {
	out := make([]string, len(s.states))
	copy(out, s.states)
	return out
}

// Label implements Category.
func (s *Simple) Label(v View) (string, error) {
	lbl, ok := v[s.name]
	if !ok {
		return "", missingStateErr(s.name)
	}
	return lbl, nil
}

// Restricted is a Simple category with a caller-limited allowed subset.
// The full state space is still enumerated (States returns the whole
// domain); the restriction governs which assembled states receive a
// component, via Allows.
type Restricted struct {
	Simple
	only []string
	set  map[string]bool
}

// NewRestricted wraps a dataset variable with an allowed-state subset.
// Every listed label must exist on the variable; an unknown label is a
// fatal build error.
func NewRestricted(v *dataset.CategoryVar, only []string) (*Restricted, error) {
	r := &Restricted{
		Simple: *NewSimple(v),
		set:    make(map[string]bool, len(only)),
	}
	for _, lbl := range only {
		if !v.HasState(lbl) {
			return nil, fmt.Errorf("category %q has no state named %q", v.Name, lbl)
		}
		if !r.set[lbl] {
			r.only = append(r.only, lbl)
			r.set[lbl] = true
		}
	}
	return r, nil
}

// Allows reports whether the given state label survives the restriction.
func (r *Restricted) Allows(label string) bool {
	return r.set[label]
}

// Only returns the allowed subset in declaration order.
func (r *Restricted) Only() []string {
	out := make([]string, len(r.only))
	copy(out, r.only)
	return out
}
