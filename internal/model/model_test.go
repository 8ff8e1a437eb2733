package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidGraph(t *testing.T) {
	x := NewParam("x", 0)
	m := NewParam("m", 1)
	s := NewParam("s", 2)
	gauss := NewDerived("gauss", "gaussian", x, m, s)
	k := NewParam("k", -20)
	argus := NewDerived("argus", "argus", x, k)
	frac := NewParam("gfrac", 0.5)
	pdf := NewDerived("pdf", "sum", gauss, argus, frac)

	mod, err := New("pdf", pdf)
	require.NoError(t, err)

	assert.Equal(t, "pdf", mod.Name())
	assert.Same(t, pdf, mod.Root())

	n, ok := mod.Node("argus")
	require.True(t, ok)
	assert.Same(t, argus, n)

	_, ok = mod.Node("nope")
	assert.False(t, ok)
}

func TestParamsOrderAndSharing(t *testing.T) {
	x := NewParam("x", 0)
	a := NewParam("a", 1)
	b := NewParam("b", 2)
	// x appears under both branches but must be listed once.
	left := NewDerived("left", "op", x, a)
	right := NewDerived("right", "op", x, b)
	root := NewDerived("root", "op", left, right)

	mod, err := New("m", root)
	require.NoError(t, err)

	names := make([]string, 0)
	for _, p := range mod.Params() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"x", "a", "b"}, names)
}

func TestNewRejectsCycle(t *testing.T) {
	a := NewDerived("a", "op")
	b := NewDerived("b", "op", a)
	a.ops = []Node{b}

	_, err := New("cyclic", a)
	assert.ErrorContains(t, err, "cycle detected")
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	p1 := NewParam("p", 1)
	p2 := NewParam("p", 2)
	root := NewDerived("root", "op", p1, p2)

	_, err := New("dup", root)
	assert.ErrorContains(t, err, "two distinct nodes named")
}

func TestNewRejectsNilInput(t *testing.T) {
	_, err := New("m", nil)
	assert.ErrorContains(t, err, "nil root")

	_, err = New("", NewParam("p", 0))
	assert.ErrorContains(t, err, "empty name")

	root := NewDerived("root", "op", nil)
	_, err = New("m", root)
	assert.ErrorContains(t, err, "nil operand")
}

func TestCloneAsKeepsValue(t *testing.T) {
	p := NewParam("k", -20)
	c := p.CloneAs("k_Lep")
	assert.Equal(t, "k_Lep", c.Name())
	assert.Equal(t, p.Value, c.Value)
	assert.NotSame(t, p, c)
}

func TestWithOperandsPreservesKind(t *testing.T) {
	x := NewParam("x", 0)
	s := NewParam("s", 1)
	g := NewDerived("gauss", "gaussian", x, s)

	s2 := s.CloneAs("s_Lep")
	g2 := g.WithOperands("gauss_Lep", []Node{x, s2})

	assert.Equal(t, "gauss_Lep", g2.Name())
	assert.Equal(t, "gaussian", g2.Kind)
	require.Len(t, g2.Operands(), 2)
	assert.Same(t, x, g2.Operands()[0])
	assert.Same(t, s2, g2.Operands()[1])
}
