// Package dataset describes the variables a build resolves against: the
// categorical variables that may act as split or selector categories, and
// the real-valued observables. The build engine only ever reads these
// definitions; it never touches dataset records.
package dataset

import "fmt"

// CategoryVar is a discrete categorical variable with a finite, ordered
// set of string-labeled states.
type CategoryVar struct {
	Name   string
	States []string
}

// HasState reports whether label is one of the variable's states.
func (c *CategoryVar) HasState(label string) bool {
	for _, s := range c.States {
		if s == label {
			return true
		}
	}
	return false
}

// RealVar is a real-valued observable. The engine treats it as opaque; it
// exists so that prototype leaves backed by observables can be recognized
// and excluded from the splittable parameter set.
type RealVar struct {
	Name string
	Min  float64
	Max  float64
}

// Variables is the set of variable definitions for one dataset.
type Variables struct {
	cats  map[string]*CategoryVar
	reals map[string]*RealVar
	order []string
}

// NewVariables returns an empty variable set.
func NewVariables() *Variables {
	return &Variables{
		cats:  make(map[string]*CategoryVar),
		reals: make(map[string]*RealVar),
	}
}

// AddCategory registers a categorical variable. Duplicate names across
// either kind are rejected.
func (v *Variables) AddCategory(c *CategoryVar) error {
	if c.Name == "" {
		return fmt.Errorf("category variable has empty name")
	}
	if len(c.States) == 0 {
		return fmt.Errorf("category variable %q has no states", c.Name)
	}
	if v.Has(c.Name) {
		return fmt.Errorf("duplicate dataset variable %q", c.Name)
	}
	v.cats[c.Name] = c
	v.order = append(v.order, c.Name)
	return nil
}

// AddReal registers a real-valued variable.
func (v *Variables) AddReal(r *RealVar) error {
	if r.Name == "" {
		return fmt.Errorf("real variable has empty name")
	}
	if v.Has(r.Name) {
		return fmt.Errorf("duplicate dataset variable %q", r.Name)
	}
	v.reals[r.Name] = r
	v.order = append(v.order, r.Name)
	return nil
}

// Category looks up a categorical variable by name.
func (v *Variables) Category(name string) (*CategoryVar, bool) {
	c, ok := v.cats[name]
	return c, ok
}

// Real looks up a real variable by name.
func (v *Variables) Real(name string) (*RealVar, bool) {
	r, ok := v.reals[name]
	return r, ok
}

// Has reports whether any variable (of either kind) has the given name.
func (v *Variables) Has(name string) bool {
	if _, ok := v.cats[name]; ok {
		return true
	}
	_, ok := v.reals[name]
	return ok
}

// Names returns all variable names in registration order.
func (v *Variables) Names() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}
