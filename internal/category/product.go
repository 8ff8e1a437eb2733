package category

import (
	"fmt"
	"strings"
)

// Product is a composite category: the cartesian product of its
// constituents, collapsed to one enumerable state space. Its canonical
// name is the comma-joined constituent names, which is also how the rule
// grammar spells it.
type Product struct {
	name  string
	parts []Category
}

// NewProduct builds the product of the given constituent categories.
func NewProduct(parts ...Category) *Product {
	name := ""
	for i, p := range parts {
		if i > 0 {
			name += ","
		}
		name += p.Name()
	}
	return &Product{name: name, parts: parts}
}

// Name implements Category. The name is canonical: repeated references to
// the same comma-joined expression resolve to one shared instance.
func (p *Product) Name() string { return p.name }

// Parts returns the constituent categories in declaration order.
func (p *Product) Parts() []Category {
	out := make([]Category, len(p.parts))
	copy(out, p.parts)
	return out
}

// States implements Category: every combination of constituent states, in
// lexicographic product order, rendered through FormatLabel.
func (p *Product) States() []string {
	labels := [][]string{nil}
	for _, part := range p.parts {
		next := make([][]string, 0, len(labels)*len(part.States()))
		for _, prefix := range labels {
			for _, s := range part.States() {
				row := make([]string, len(prefix)+1)
				copy(row, prefix)
				row[len(prefix)] = s
				next = append(next, row)
			}
		}
		labels = next
	}
	out := make([]string, len(labels))
	for i, row := range labels {
		out[i] = FormatLabel(row)
	}
	return out
}

// Decompose splits one of the product's state labels back into its
// constituent labels, in constituent order.
func (p *Product) Decompose(label string) ([]string, error) {
	if len(p.parts) == 1 {
		return []string{label}, nil
	}
	if !strings.HasPrefix(label, "{") || !strings.HasSuffix(label, "}") {
		return nil, fmt.Errorf("label %q is not a state of composite category %q", label, p.name)
	}
	parts := strings.Split(label[1:len(label)-1], ";")
	if len(parts) != len(p.parts) {
		return nil, fmt.Errorf("label %q is not a state of composite category %q", label, p.name)
	}
	return parts, nil
}

// Label implements Category: the formatted join of each constituent's own
// projection of the view.
func (p *Product) Label(v View) (string, error) {
	labels := make([]string, len(p.parts))
	for i, part := range p.parts {
		lbl, err := part.Label(v)
		if err != nil {
			return "", err
		}
		labels[i] = lbl
	}
	return FormatLabel(labels), nil
}
