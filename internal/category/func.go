package category

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Func is an auxiliary, function-derived category: its state is computed
// from the states of its upstream categories by a mapping expression. The
// expression is compiled once at construction and evaluated against an
// environment holding one string label per upstream category.
//
// Example:
//
//	tagMap, err := category.NewFunc("tagMap",
//	    `tagCat in ["Lep", "Kao"] ? "CutBased" : "NeuralNet"`, tagCat)
type Func struct {
	name   string
	src    string
	inputs []Category
	prog   *vm.Program
}

// NewFunc compiles src into a function category over the given upstream
// categories. The expression must evaluate to a string state label.
func NewFunc(name, src string, inputs ...Category) (*Func, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("function category %q has no upstream categories", name)
	}
	prog, err := expr.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("function category %q: compiling %q: %w", name, src, err)
	}
	return &Func{name: name, src: src, inputs: inputs, prog: prog}, nil
}

// Name implements Category.
func (f *Func) Name() string { return f.name }

// Inputs returns the names of the upstream categories, in declaration order.
func (f *Func) Inputs() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Name()
	}
	return out
}

// States implements Category: the distinct expression outputs over the
// full product of upstream states, in first-occurrence order.
func (f *Func) States() []string {
	envs := []map[string]any{{}}
	for _, in := range f.inputs {
		next := make([]map[string]any, 0, len(envs)*len(in.States()))
		for _, env := range envs {
			for _, s := range in.States() {
				ne := make(map[string]any, len(env)+1)
				for k, val := range env {
					ne[k] = val
				}
				ne[in.Name()] = s
				next = append(next, ne)
			}
		}
		envs = next
	}

	var out []string
	seen := make(map[string]bool)
	for _, env := range envs {
		lbl, err := f.eval(env)
		if err != nil {
			// Unevaluable combinations contribute no state; Label surfaces
			// the error when such a combination is actually requested.
			continue
		}
		if !seen[lbl] {
			seen[lbl] = true
			out = append(out, lbl)
		}
	}
	return out
}

// Label implements Category.
func (f *Func) Label(v View) (string, error) {
	env := make(map[string]any, len(f.inputs))
	for _, in := range f.inputs {
		lbl, err := in.Label(v)
		if err != nil {
			return "", err
		}
		env[in.Name()] = lbl
	}
	return f.eval(env)
}

func (f *Func) eval(env map[string]any) (string, error) {
	out, err := expr.Run(f.prog, env)
	if err != nil {
		return "", fmt.Errorf("function category %q: evaluating %q: %w", f.name, f.src, err)
	}
	lbl, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("function category %q: expression yielded %T, want string state label", f.name, out)
	}
	return lbl, nil
}

// Clone returns a deep copy of the function category. The compiled program
// is immutable and shared; the upstream reference list is copied so that a
// Rebind on the clone cannot affect the original.
func (f *Func) Clone() *Func {
	inputs := make([]Category, len(f.inputs))
	copy(inputs, f.inputs)
	return &Func{name: f.name, src: f.src, inputs: inputs, prog: f.prog}
}

// Rebind redirects every upstream reference to the category of the same
// name in byName. Every upstream name must be present; this is how a build
// points an auxiliary category at its own split-category copies so the
// whole build reads one consistent state source.
func (f *Func) Rebind(byName map[string]Category) error {
	rebound := make([]Category, len(f.inputs))
	for i, in := range f.inputs {
		repl, ok := byName[in.Name()]
		if !ok {
			return fmt.Errorf("function category %q: upstream category %q not present in split set", f.name, in.Name())
		}
		rebound[i] = repl
	}
	f.inputs = rebound
	return nil
}
