package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/simforge/internal/dataset"
)

func tagCatVar() *dataset.CategoryVar {
	return &dataset.CategoryVar{Name: "tagCat", States: []string{"Lep", "Kao", "NT"}}
}

func runBlockVar() *dataset.CategoryVar {
	return &dataset.CategoryVar{Name: "runBlock", States: []string{"Run1", "Run2"}}
}

func TestSimpleLabel(t *testing.T) {
	c := NewSimple(tagCatVar())
	assert.Equal(t, "tagCat", c.Name())
	assert.Equal(t, []string{"Lep", "Kao", "NT"}, c.States())

	lbl, err := c.Label(View{"tagCat": "Kao"})
	require.NoError(t, err)
	assert.Equal(t, "Kao", lbl)

	_, err = c.Label(View{"runBlock": "Run1"})
	assert.ErrorContains(t, err, "no state assigned")
}

func TestSimpleCopiesStates(t *testing.T) {
	v := tagCatVar()
	c := NewSimple(v)
	v.States[0] = "mutated"
	assert.Equal(t, "Lep", c.States()[0])
}

func TestRestricted(t *testing.T) {
	r, err := NewRestricted(tagCatVar(), []string{"Lep", "Kao"})
	require.NoError(t, err)

	// The full domain is still the enumeration space.
	assert.Equal(t, []string{"Lep", "Kao", "NT"}, r.States())
	assert.Equal(t, []string{"Lep", "Kao"}, r.Only())
	assert.True(t, r.Allows("Lep"))
	assert.False(t, r.Allows("NT"))
}

func TestRestrictedUnknownStateIsFatal(t *testing.T) {
	_, err := NewRestricted(tagCatVar(), []string{"Lep", "Bogus"})
	assert.ErrorContains(t, err, `no state named "Bogus"`)
}

func TestProduct(t *testing.T) {
	p := NewProduct(NewSimple(tagCatVar()), NewSimple(runBlockVar()))
	assert.Equal(t, "tagCat,runBlock", p.Name())

	states := p.States()
	assert.Len(t, states, 6)
	assert.Equal(t, "{Lep;Run1}", states[0])
	assert.Equal(t, "{Lep;Run2}", states[1])
	assert.Equal(t, "{NT;Run2}", states[5])

	lbl, err := p.Label(View{"tagCat": "Kao", "runBlock": "Run2"})
	require.NoError(t, err)
	assert.Equal(t, "{Kao;Run2}", lbl)
}

func TestProductDecompose(t *testing.T) {
	p := NewProduct(NewSimple(tagCatVar()), NewSimple(runBlockVar()))

	parts, err := p.Decompose("{Kao;Run2}")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kao", "Run2"}, parts)

	_, err = p.Decompose("Kao")
	assert.Error(t, err)
	_, err = p.Decompose("{Kao}")
	assert.Error(t, err)

	single := NewProduct(NewSimple(tagCatVar()))
	parts, err = single.Decompose("Lep")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lep"}, parts)
}

func TestProductOfOneCollapsesToBareLabel(t *testing.T) {
	p := NewProduct(NewSimple(tagCatVar()))
	assert.Equal(t, []string{"Lep", "Kao", "NT"}, p.States())

	lbl, err := p.Label(View{"tagCat": "Lep"})
	require.NoError(t, err)
	assert.Equal(t, "Lep", lbl)
}

func TestEnumerateOrderIsDeterministic(t *testing.T) {
	cats := []Category{NewSimple(tagCatVar()), NewSimple(runBlockVar())}

	views := Enumerate(cats)
	require.Len(t, views, 6)
	// First category varies slowest.
	assert.Equal(t, View{"tagCat": "Lep", "runBlock": "Run1"}, views[0])
	assert.Equal(t, View{"tagCat": "Lep", "runBlock": "Run2"}, views[1])
	assert.Equal(t, View{"tagCat": "NT", "runBlock": "Run2"}, views[5])

	again := Enumerate(cats)
	assert.Equal(t, views, again)
}

func TestFuncCategory(t *testing.T) {
	tag := NewSimple(tagCatVar())
	f, err := NewFunc("tagMap", `tagCat in ["Lep", "Kao"] ? "CutBased" : "NeuralNet"`, tag)
	require.NoError(t, err)

	assert.Equal(t, "tagMap", f.Name())
	assert.Equal(t, []string{"tagCat"}, f.Inputs())
	assert.Equal(t, []string{"CutBased", "NeuralNet"}, f.States())

	lbl, err := f.Label(View{"tagCat": "NT"})
	require.NoError(t, err)
	assert.Equal(t, "NeuralNet", lbl)

	lbl, err = f.Label(View{"tagCat": "Kao"})
	require.NoError(t, err)
	assert.Equal(t, "CutBased", lbl)
}

func TestFuncCompileError(t *testing.T) {
	_, err := NewFunc("bad", `tagCat ===`, NewSimple(tagCatVar()))
	assert.ErrorContains(t, err, "compiling")
}

func TestFuncNonStringResult(t *testing.T) {
	f, err := NewFunc("bad", `42`, NewSimple(tagCatVar()))
	require.NoError(t, err)

	_, err = f.Label(View{"tagCat": "Lep"})
	assert.ErrorContains(t, err, "want string state label")
}

func TestFuncCloneAndRebind(t *testing.T) {
	orig := NewSimple(tagCatVar())
	f, err := NewFunc("tagMap", `tagCat == "Lep" ? "A" : "B"`, orig)
	require.NoError(t, err)

	clone := f.Clone()

	// Rebinding the clone must not affect the original's upstream list.
	repl := NewSimple(tagCatVar())
	require.NoError(t, clone.Rebind(map[string]Category{"tagCat": repl}))
	assert.Equal(t, []string{"tagCat"}, f.Inputs())

	err = clone.Rebind(map[string]Category{"other": repl})
	assert.ErrorContains(t, err, "not present in split set")
}
