package category

import (
	"fmt"
	"strings"
)

// Category is one discrete categorical variable: a name, a finite ordered
// state space, and a projection from a concrete state assignment onto one
// of its own state labels. The closed set of implementations is Simple,
// Restricted, Product and Func.
type Category interface {
	// Name is the category's unique name within a build.
	Name() string
	// States enumerates the category's state labels in its canonical order.
	States() []string
	// Label projects a state assignment onto this category's state label.
	Label(v View) (string, error)
}

// View is one concrete state assignment: a mapping from fundamental
// category name to the state label it currently holds. Composite and
// function categories compute their own label from the view lazily.
type View map[string]string

// Enumerate produces every combination of states of the given categories,
// in lexicographic product order: the first category varies slowest. The
// order carries no semantics but must be deterministic so that diagnostics
// and composite iteration are reproducible.
func Enumerate(cats []Category) []View {
	views := []View{{}}
	for _, c := range cats {
		next := make([]View, 0, len(views)*len(c.States()))
		for _, v := range views {
			for _, s := range c.States() {
				nv := make(View, len(v)+1)
				for k, lbl := range v {
					nv[k] = lbl
				}
				nv[c.Name()] = s
				next = append(next, nv)
			}
		}
		views = next
	}
	return views
}

// FormatLabel renders an ordered list of constituent labels as one state
// label. A single constituent collapses to its bare label; multiple
// constituents render as "{a;b}".
func FormatLabel(labels []string) string {
	if len(labels) == 1 {
		return labels[0]
	}
	return "{" + strings.Join(labels, ";") + "}"
}

// missingStateErr is the shared failure for a view that does not assign a
// state to a fundamental category.
func missingStateErr(name string) error {
	return fmt.Errorf("no state assigned for category %q", name)
}
