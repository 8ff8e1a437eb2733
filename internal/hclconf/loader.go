package hclconf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/simforge/internal/config"
	"github.com/vk/simforge/internal/ctxlog"
	"github.com/vk/simforge/internal/dataset"
	"github.com/vk/simforge/internal/model"
)

// Workspace is the loaded content of one or more .hcl files: prototype
// models, dataset variable definitions and named build configurations.
type Workspace struct {
	Models    []*model.Model
	Variables *dataset.Variables

	buildOrder []string
	builds     map[string]config.Config
}

// BuildNames returns the declared build names in declaration order.
func (w *Workspace) BuildNames() []string {
	out := make([]string, len(w.buildOrder))
	copy(out, w.buildOrder)
	return out
}

// Build returns the named build configuration.
func (w *Workspace) Build(name string) (config.Config, bool) {
	cfg, ok := w.builds[name]
	return cfg, ok
}

// Load parses every .hcl file under the given paths (files or directories)
// and assembles the workspace. Duplicate declarations and dangling
// references are load errors.
func Load(ctx context.Context, paths ...string) (*Workspace, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found under %v", paths)
	}
	logger.Debug("discovered workspace files", "count", len(files))

	parser := hclparse.NewParser()
	merged := &fileRoot{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}
		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", file, diags)
		}
		merged.Reals = append(merged.Reals, root.Reals...)
		merged.Categories = append(merged.Categories, root.Categories...)
		merged.Params = append(merged.Params, root.Params...)
		merged.Nodes = append(merged.Nodes, root.Nodes...)
		merged.Models = append(merged.Models, root.Models...)
		merged.Builds = append(merged.Builds, root.Builds...)
	}

	ws := &Workspace{
		Variables: dataset.NewVariables(),
		builds:    make(map[string]config.Config),
	}

	for _, r := range merged.Reals {
		if err := ws.Variables.AddReal(&dataset.RealVar{Name: r.Name, Min: r.Min, Max: r.Max}); err != nil {
			return nil, err
		}
	}
	for _, c := range merged.Categories {
		if err := ws.Variables.AddCategory(&dataset.CategoryVar{Name: c.Name, States: c.States}); err != nil {
			return nil, err
		}
	}

	nodes, err := resolveGraph(merged.Params, merged.Nodes)
	if err != nil {
		return nil, err
	}

	seenModels := make(map[string]bool)
	for _, mb := range merged.Models {
		if seenModels[mb.Name] {
			return nil, fmt.Errorf("duplicate model %q", mb.Name)
		}
		seenModels[mb.Name] = true
		root, ok := nodes[mb.Root]
		if !ok {
			return nil, fmt.Errorf("model %q: root %q is not a declared param or node", mb.Name, mb.Root)
		}
		m, err := model.New(mb.Name, root)
		if err != nil {
			return nil, err
		}
		ws.Models = append(ws.Models, m)
	}

	for _, bb := range merged.Builds {
		if _, ok := ws.builds[bb.Name]; ok {
			return nil, fmt.Errorf("duplicate build %q", bb.Name)
		}
		cfg, err := buildConfig(bb)
		if err != nil {
			return nil, err
		}
		ws.builds[bb.Name] = cfg
		ws.buildOrder = append(ws.buildOrder, bb.Name)
	}

	logger.Debug("workspace loaded",
		"models", len(ws.Models), "variables", len(ws.Variables.Names()), "builds", len(ws.buildOrder))
	return ws, nil
}

// buildConfig turns a build block into a config mapping, evaluating the
// raw rules expression into per-prototype rule strings.
func buildConfig(bb *buildBlock) (config.Config, error) {
	cfg := config.Config{
		config.KeyPhysModels: bb.PhysModels,
		config.KeySplitCats:  bb.SplitCats,
	}
	if bb.Rules == nil {
		return cfg, nil
	}

	val, diags := bb.Rules.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("build %q: evaluating rules: %w", bb.Name, diags)
	}
	if val.IsNull() {
		return cfg, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("build %q: rules must be a map of prototype name to rule string", bb.Name)
	}
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if v.Type() != cty.String {
			return nil, fmt.Errorf("build %q: rule for %q is not a string", bb.Name, k.AsString())
		}
		name := k.AsString()
		if name == config.KeyPhysModels || name == config.KeySplitCats {
			return nil, fmt.Errorf("build %q: rules key %q collides with a reserved key", bb.Name, name)
		}
		cfg[name] = v.AsString()
	}
	return cfg, nil
}

// resolveGraph materializes the declared params and nodes into model
// nodes, resolving operand names. Node instances are shared across every
// model that references them, which is what lets prototypes share
// parameters.
func resolveGraph(params []*paramBlock, nodeBlocks []*nodeBlock) (map[string]model.Node, error) {
	nodes := make(map[string]model.Node)
	specs := make(map[string]*nodeBlock)

	for _, p := range params {
		if _, ok := nodes[p.Name]; ok {
			return nil, fmt.Errorf("duplicate param %q", p.Name)
		}
		nodes[p.Name] = model.NewParam(p.Name, p.Value)
	}
	for _, n := range nodeBlocks {
		if _, ok := nodes[n.Name]; ok {
			return nil, fmt.Errorf("duplicate declaration %q", n.Name)
		}
		if _, ok := specs[n.Name]; ok {
			return nil, fmt.Errorf("duplicate node %q", n.Name)
		}
		specs[n.Name] = n
	}

	resolving := make(map[string]bool)
	var resolve func(name string) (model.Node, error)
	resolve = func(name string) (model.Node, error) {
		if n, ok := nodes[name]; ok {
			return n, nil
		}
		spec, ok := specs[name]
		if !ok {
			return nil, fmt.Errorf("operand %q is not a declared param or node", name)
		}
		if resolving[name] {
			return nil, fmt.Errorf("node %q participates in a dependency cycle", name)
		}
		resolving[name] = true
		ops := make([]model.Node, len(spec.Operands))
		for i, opName := range spec.Operands {
			op, err := resolve(opName)
			if err != nil {
				return nil, err
			}
			ops[i] = op
		}
		delete(resolving, name)
		n := model.NewDerived(spec.Name, spec.Kind, ops...)
		nodes[name] = n
		return n, nil
	}

	for name := range specs {
		if _, err := resolve(name); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// findHCLFiles walks the given paths and returns every .hcl file, each at
// most once.
func findHCLFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("accessing %s: %w", path, err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
