package hclconf

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a workspace file may carry.
type fileRoot struct {
	Reals      []*realBlock     `hcl:"real,block"`
	Categories []*categoryBlock `hcl:"category,block"`
	Params     []*paramBlock    `hcl:"param,block"`
	Nodes      []*nodeBlock     `hcl:"node,block"`
	Models     []*modelBlock    `hcl:"model,block"`
	Builds     []*buildBlock    `hcl:"build,block"`
	Remain     hcl.Body         `hcl:",remain"`
}

// realBlock declares a real-valued dataset observable.
type realBlock struct {
	Name string  `hcl:"name,label"`
	Min  float64 `hcl:"min,optional"`
	Max  float64 `hcl:"max,optional"`
}

// categoryBlock declares a categorical dataset variable.
type categoryBlock struct {
	Name   string   `hcl:"name,label"`
	States []string `hcl:"states"`
}

// paramBlock declares a leaf model parameter.
type paramBlock struct {
	Name  string  `hcl:"name,label"`
	Value float64 `hcl:"value,optional"`
}

// nodeBlock declares a derived model node over named operands.
type nodeBlock struct {
	Name     string   `hcl:"name,label"`
	Kind     string   `hcl:"kind"`
	Operands []string `hcl:"operands"`
}

// modelBlock names a prototype model and its root node.
type modelBlock struct {
	Name string `hcl:"name,label"`
	Root string `hcl:"root"`
}

// buildBlock carries one build configuration. The rules attribute is kept
// as a raw expression and evaluated by hand so the per-prototype keys stay
// open-ended.
type buildBlock struct {
	Name       string         `hcl:"name,label"`
	PhysModels string         `hcl:"phys_models"`
	SplitCats  string         `hcl:"split_cats,optional"`
	Rules      hcl.Expression `hcl:"rules,optional"`
}
