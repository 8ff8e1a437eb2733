package model

import "fmt"

// Node is a single vertex in a prototype model graph. Leaf parameters have
// no operands; derived nodes compute from their operands. Node identity is
// pointer identity; names are unique within one model.
type Node interface {
	// Name is the node's unique name within its model.
	Name() string
	// Operands returns the node's direct dependencies, in declaration order.
	// Leaf nodes return nil.
	Operands() []Node
}

// Param is a leaf parameter node.
type Param struct {
	name  string
	Value float64
}

// NewParam creates a leaf parameter with an initial value.
func NewParam(name string, value float64) *Param {
	return &Param{name: name, Value: value}
}

// Name implements Node.
func (p *Param) Name() string { return p.name }

// Operands implements Node. Parameters are leaves.
func (p *Param) Operands() []Node { return nil }

// CloneAs returns a new parameter carrying the same value under a new name.
func (p *Param) CloneAs(name string) *Param {
	return &Param{name: name, Value: p.Value}
}

// Derived is a computed node: a named operation over ordered operands. The
// operation kind is opaque to the build engine.
type Derived struct {
	name string
	Kind string
	ops  []Node
}

// NewDerived creates a derived node of the given kind over its operands.
func NewDerived(name, kind string, ops ...Node) *Derived {
	return &Derived{name: name, Kind: kind, ops: ops}
}

// Name implements Node.
func (d *Derived) Name() string { return d.name }

// Operands implements Node.
func (d *Derived) Operands() []Node {
	out := make([]Node, len(d.ops))
	copy(out, d.ops)
	return out
}

// WithOperands returns a structural clone of d under a new name, with its
// operand edges redirected to ops. The operation kind is preserved.
func (d *Derived) WithOperands(name string, ops []Node) *Derived {
	cloned := make([]Node, len(ops))
	copy(cloned, ops)
	return &Derived{name: name, Kind: d.Kind, ops: cloned}
}

// Model is one prototype: an immutable, validated DAG reachable from a
// single root node.
type Model struct {
	name   string
	root   Node
	byName map[string]Node
	params []*Param
}

// New validates the graph reachable from root and wraps it as a Model.
// Validation rejects nil roots, cycles, and two distinct nodes sharing a
// name.
func New(name string, root Node) (*Model, error) {
	if name == "" {
		return nil, fmt.Errorf("model has empty name")
	}
	if root == nil {
		return nil, fmt.Errorf("model %q has nil root", name)
	}

	m := &Model{name: name, root: root, byName: make(map[string]Node)}

	// Depth-first walk with an explicit in-progress set. A node found on
	// the current path twice means the graph is cyclic.
	done := make(map[Node]bool)
	inPath := make(map[Node]bool)

	var visit func(n Node) error
	visit = func(n Node) error {
		if done[n] {
			return nil
		}
		if inPath[n] {
			return fmt.Errorf("model %q: cycle detected involving node %q", name, n.Name())
		}
		inPath[n] = true

		if prev, ok := m.byName[n.Name()]; ok && prev != n {
			return fmt.Errorf("model %q: two distinct nodes named %q", name, n.Name())
		}
		m.byName[n.Name()] = n

		for _, op := range n.Operands() {
			if op == nil {
				return fmt.Errorf("model %q: node %q has a nil operand", name, n.Name())
			}
			if err := visit(op); err != nil {
				return err
			}
		}

		delete(inPath, n)
		done[n] = true
		if p, ok := n.(*Param); ok {
			m.params = append(m.params, p)
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return m, nil
}

// Name returns the model's name.
func (m *Model) Name() string { return m.name }

// Root returns the model's root node.
func (m *Model) Root() Node { return m.root }

// Node looks up a reachable node by name.
func (m *Model) Node(name string) (Node, bool) {
	n, ok := m.byName[name]
	return n, ok
}

// Params returns every reachable leaf parameter, in deterministic
// depth-first discovery order.
func (m *Model) Params() []*Param {
	out := make([]*Param, len(m.params))
	copy(out, m.params)
	return out
}
