package customizer

import (
	"fmt"
	"strings"

	"github.com/vk/simforge/internal/category"
	"github.com/vk/simforge/internal/model"
)

// Customizer produces per-state clones of one prototype model. Split
// parameters are registered up front; Build then walks the prototype graph
// for a requested state, cloning every node on a dependency path from a
// split parameter to the root and sharing everything else.
//
// The clone caches are owned by the customizer and are never cleared, so
// an engine holding on to a customizer across builds hands identical
// shared clones to every composite it produces.
type Customizer struct {
	proto *model.Model

	// rules in registration order; gov maps each split parameter to its
	// governing category.
	rules []splitRule
	gov   map[*model.Param]category.Category

	// paramClones memoizes parameter clones by name and governing label;
	// nodeClones memoizes derived-node clones by name and governing-state
	// signature.
	paramClones map[cloneKey]*model.Param
	nodeClones  map[cloneKey]model.Node
}

type splitRule struct {
	cat    category.Category
	params []*model.Param
}

type cloneKey struct {
	name string
	sig  string
}

// New creates a customizer for one prototype model.
func New(proto *model.Model) *Customizer {
	return &Customizer{
		proto:       proto,
		gov:         make(map[*model.Param]category.Category),
		paramClones: make(map[cloneKey]*model.Param),
		nodeClones:  make(map[cloneKey]model.Node),
	}
}

// Proto returns the prototype this customizer serves.
func (c *Customizer) Proto() *model.Model { return c.proto }

// SplitParams registers that the given parameters take an independent
// value per state of cat. Re-registration under a category of the same
// name is a no-op; a different governor replaces the previous one, so a
// later build can re-split a parameter by another category while the
// clone caches keep serving both.
func (c *Customizer) SplitParams(cat category.Category, params []*model.Param) {
	var fresh []*model.Param
	for _, p := range params {
		if prev, ok := c.gov[p]; ok {
			if prev.Name() == cat.Name() {
				continue
			}
			c.unregister(p)
		}
		c.gov[p] = cat
		fresh = append(fresh, p)
	}
	if len(fresh) > 0 {
		c.rules = append(c.rules, splitRule{cat: cat, params: fresh})
	}
}

// ResetRules drops every registered splitting rule but keeps the clone
// caches, so the next build starts from a clean rule table while still
// handing out the clones earlier builds produced.
func (c *Customizer) ResetRules() {
	c.rules = nil
	c.gov = make(map[*model.Param]category.Category)
}

// unregister removes p from whichever rule currently lists it, dropping
// the rule entirely once it governs nothing.
func (c *Customizer) unregister(p *model.Param) {
	for i := range c.rules {
		r := &c.rules[i]
		for j, have := range r.params {
			if have == p {
				r.params = append(r.params[:j], r.params[j+1:]...)
				if len(r.params) == 0 {
					c.rules = append(c.rules[:i], c.rules[i+1:]...)
				}
				return
			}
		}
	}
}

// CloneCount returns the number of memoized parameter and derived-node
// clones, in that order. Exposed for cache-bound diagnostics.
func (c *Customizer) CloneCount() (params, nodes int) {
	return len(c.paramClones), len(c.nodeClones)
}

// Build returns the prototype's clone for the given state: every node
// transitively depending on a split parameter is replaced by a
// state-specific clone, every other node is the shared original. If no
// split parameter affects the root for this state, the original root is
// returned unmodified.
func (c *Customizer) Build(view category.View) (model.Node, error) {
	// Induce each governing category's label once per build call.
	labels := make(map[*model.Param]string, len(c.gov))
	for _, r := range c.rules {
		lbl, err := r.cat.Label(view)
		if err != nil {
			return nil, fmt.Errorf("customizing %q: %w", c.proto.Name(), err)
		}
		for _, p := range r.params {
			labels[p] = lbl
		}
	}

	type result struct {
		node model.Node
		sig  []string
	}
	memo := make(map[model.Node]result)

	var walk func(n model.Node) (result, error)
	walk = func(n model.Node) (result, error) {
		if res, ok := memo[n]; ok {
			return res, nil
		}

		if p, ok := n.(*model.Param); ok {
			res := result{node: n}
			if lbl, split := labels[p]; split {
				key := cloneKey{name: p.Name(), sig: lbl}
				clone, ok := c.paramClones[key]
				if !ok {
					clone = p.CloneAs(p.Name() + "_" + lbl)
					c.paramClones[key] = clone
				}
				res = result{node: clone, sig: []string{lbl}}
			}
			memo[n] = res
			return res, nil
		}

		d, ok := n.(*model.Derived)
		if !ok {
			return result{}, fmt.Errorf("customizing %q: unsupported node type %T", c.proto.Name(), n)
		}

		ops := d.Operands()
		newOps := make([]model.Node, len(ops))
		var sig []string
		changed := false
		for i, op := range ops {
			sub, err := walk(op)
			if err != nil {
				return result{}, err
			}
			newOps[i] = sub.node
			if sub.node != op {
				changed = true
			}
			sig = mergeLabels(sig, sub.sig)
		}

		if !changed {
			res := result{node: n}
			memo[n] = res
			return res, nil
		}

		key := cloneKey{name: d.Name(), sig: strings.Join(sig, "\x00")}
		clone, ok := c.nodeClones[key]
		if !ok {
			clone = d.WithOperands(d.Name()+"_"+strings.Join(sig, "_"), newOps)
			c.nodeClones[key] = clone
		}
		res := result{node: clone, sig: sig}
		memo[n] = res
		return res, nil
	}

	res, err := walk(c.proto.Root())
	if err != nil {
		return nil, err
	}
	return res.node, nil
}

// mergeLabels appends the labels of b not already present in a, keeping
// first-occurrence order. Governing-state signatures stay small (one label
// per governing category), so linear scans are fine.
func mergeLabels(a, b []string) []string {
	for _, lbl := range b {
		found := false
		for _, have := range a {
			if have == lbl {
				found = true
				break
			}
		}
		if !found {
			a = append(a, lbl)
		}
	}
	return a
}
