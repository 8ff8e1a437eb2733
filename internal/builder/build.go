package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/simforge/internal/category"
	"github.com/vk/simforge/internal/config"
	"github.com/vk/simforge/internal/ctxlog"
	"github.com/vk/simforge/internal/customizer"
	"github.com/vk/simforge/internal/dataset"
	"github.com/vk/simforge/internal/model"
)

// Build runs one complete build: parse the configuration, resolve the
// category space against the dataset variables, configure customizers, and
// assemble the composite by iterating every master-index state.
//
// All fatal conditions surface before any cloning begins, except
// parameter-name validation, which is inherently per prototype. On error
// no partial composite is returned.
func (b *Builder) Build(ctx context.Context, cfg config.Config, vars *dataset.Variables, opts ...BuildOption) (*Composite, error) {
	logger := ctxlog.FromContext(ctx)

	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	diag := logger.Debug
	if o.verbose {
		diag = logger.Info
	}

	// Prototype selection.
	sel, err := config.ParseModels(ctx, cfg[config.KeyPhysModels])
	if err != nil {
		return nil, err
	}

	var selector *category.Simple
	if sel.Selector != "" {
		cv, ok := vars.Category(sel.Selector)
		if !ok {
			return nil, fmt.Errorf("selector category %q not found in dataset variables", sel.Selector)
		}
		selector = category.NewSimple(cv)
		diag("category indexing the physics models", "selector", sel.Selector)
	}

	var protoNames []string
	seenProto := make(map[string]bool)
	for _, m := range sel.Mappings {
		if _, ok := b.protos[m.Proto]; !ok {
			return nil, fmt.Errorf("requested prototype model %q is not defined", m.Proto)
		}
		if !seenProto[m.Proto] {
			seenProto[m.Proto] = true
			protoNames = append(protoNames, m.Proto)
		}
	}

	// Split categories, with optional global state restrictions.
	decls, err := config.ParseSplitCats(cfg[config.KeySplitCats])
	if err != nil {
		return nil, err
	}

	var splitCats []category.Category
	var restricted []*category.Restricted
	byName := make(map[string]category.Category)
	for _, decl := range decls {
		cv, ok := vars.Category(decl.Name)
		if !ok {
			return nil, fmt.Errorf("split category %q is not a categorical dataset variable", decl.Name)
		}
		var cat category.Category
		if decl.Only != nil {
			r, rerr := category.NewRestricted(cv, decl.Only)
			if rerr != nil {
				return nil, rerr
			}
			diag("split category restricted", "category", decl.Name, "states", decl.Only)
			restricted = append(restricted, r)
			cat = r
		} else {
			cat = category.NewSimple(cv)
		}
		splitCats = append(splitCats, cat)
		byName[decl.Name] = cat
	}

	// Auxiliary function categories: deep-copy, require every upstream
	// category to be in the declared split set, then rebind to the
	// build's own copies so there is one consistent state source.
	auxByName := make(map[string]category.Category)
	for _, aux := range o.aux {
		missing := ""
		for _, in := range aux.Inputs() {
			if _, ok := byName[in]; !ok {
				missing = in
				break
			}
		}
		if missing != "" {
			logger.Warn("ignoring auxiliary category with upstream not listed in splitCats",
				"category", aux.Name(), "upstream", missing)
			continue
		}
		clone := aux.Clone()
		if err := clone.Rebind(byName); err != nil {
			return nil, err
		}
		auxByName[clone.Name()] = clone
		diag("accepted auxiliary category", "category", clone.Name())
	}

	resolve := b.catResolver(byName, auxByName, selector)

	// Per-prototype splitting rules.
	custs := make(map[string]*customizer.Customizer, len(protoNames))
	for _, name := range protoNames {
		proto := b.protos[name]
		cust, ok := b.retired[name]
		if !ok {
			cust = customizer.New(proto)
		}
		// The rule table is per build; only the clone caches carry over
		// from an earlier build on this engine.
		cust.ResetRules()
		custs[name] = cust

		ruleStr := strings.TrimSpace(cfg[name])
		if ruleStr == "" {
			logger.Info("no splitting rules for prototype", "prototype", name)
			continue
		}

		rules, err := config.ParseRules(ctx, ruleStr, resolve, splittableParams(proto, vars))
		if err != nil {
			return nil, fmt.Errorf("rules for prototype %q: %w", name, err)
		}
		for _, r := range rules {
			cust.SplitParams(r.Cat, r.Params)
		}
		diag("configured customizer", "prototype", name, "rules", len(rules))
	}

	// Master index: declared split categories plus the selector, if any.
	masterParts := splitCats
	if selector != nil {
		if _, declared := byName[selector.Name()]; !declared {
			masterParts = append(masterParts, selector)
		}
	}
	master := category.NewProduct(masterParts...)

	comp := newComposite(master)
	for _, view := range category.Enumerate(masterParts) {
		if excludedByRestriction(restricted, view) {
			continue
		}

		var cust *customizer.Customizer
		if selector != nil {
			protoName, ok := sel.Proto(view[sel.Selector])
			if !ok {
				// Unmapped selector state: no component, by design.
				continue
			}
			cust = custs[protoName]
		} else {
			cust = custs[protoNames[0]]
		}

		root, err := cust.Build(view)
		if err != nil {
			return nil, err
		}
		label, err := master.Label(view)
		if err != nil {
			return nil, err
		}
		comp.add(label, root)
		diag("customized prototype for state", "state", label, "component", root.Name())
	}

	// Retire customizers: their clone caches must outlive this build so a
	// later connected build reuses them.
	for name, cust := range custs {
		b.retired[name] = cust
	}

	logger.Info("build complete", "components", comp.Len(), "states", len(master.States()))
	return comp, nil
}

// catResolver resolves a rule's category expression against the primary
// split set, the auxiliary set and the selector category, building
// composite categories on demand and memoizing them engine-wide by
// canonical name.
func (b *Builder) catResolver(byName, auxByName map[string]category.Category, selector *category.Simple) config.CatResolver {
	lookup := func(name string) (category.Category, bool) {
		if c, ok := byName[name]; ok {
			return c, true
		}
		if c, ok := auxByName[name]; ok {
			return c, true
		}
		if selector != nil && selector.Name() == name {
			return selector, true
		}
		return nil, false
	}

	return func(expr string) (category.Category, error) {
		if !strings.ContainsRune(expr, ',') {
			c, ok := lookup(expr)
			if !ok {
				return nil, fmt.Errorf("category %q not found in the primary or auxiliary split category list", expr)
			}
			return c, nil
		}

		if c, ok := b.compCats[expr]; ok {
			return c, nil
		}
		var parts []category.Category
		for _, name := range strings.Split(expr, ",") {
			c, ok := lookup(name)
			if !ok {
				return nil, fmt.Errorf("category %q not found in the primary or auxiliary split category list", name)
			}
			parts = append(parts, c)
		}
		prod := category.NewProduct(parts...)
		b.compCats[expr] = prod
		return prod, nil
	}
}

// splittableParams is the prototype's reachable parameter set minus the
// dataset variables: leaves backed by observables are shared by
// construction and cannot be split.
func splittableParams(proto *model.Model, vars *dataset.Variables) map[string]*model.Param {
	params := make(map[string]*model.Param)
	for _, p := range proto.Params() {
		if vars.Has(p.Name()) {
			continue
		}
		params[p.Name()] = p
	}
	return params
}

func excludedByRestriction(restricted []*category.Restricted, view category.View) bool {
	for _, r := range restricted {
		if !r.Allows(view[r.Name()]) {
			return true
		}
	}
	return false
}
