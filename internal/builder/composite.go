package builder

import (
	"github.com/vk/simforge/internal/category"
	"github.com/vk/simforge/internal/model"
)

// Composite is the build output: component model roots keyed by
// master-index state label, plus the master index itself. It is a view
// over clones owned by the builder's customizers; it stays valid only as
// long as the builder that produced it.
type Composite struct {
	index *category.Product
	order []string
	comps map[string]model.Node
}

func newComposite(index *category.Product) *Composite {
	return &Composite{
		index: index,
		comps: make(map[string]model.Node),
	}
}

func (c *Composite) add(label string, root model.Node) {
	if _, ok := c.comps[label]; !ok {
		c.order = append(c.order, label)
	}
	c.comps[label] = root
}

// Index returns the master index category whose states key the components.
func (c *Composite) Index() *category.Product { return c.index }

// Labels returns the component state labels in build order. States
// excluded by restriction or without a mapped prototype are absent.
func (c *Composite) Labels() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Component returns the component model for a state label. A miss is a
// defined outcome, not an error: evaluation against such a state is a
// no-op under the partial-build policy.
func (c *Composite) Component(label string) (model.Node, bool) {
	n, ok := c.comps[label]
	return n, ok
}

// Len returns the number of built components.
func (c *Composite) Len() int { return len(c.comps) }
