package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/simforge/internal/builder"
	"github.com/vk/simforge/internal/config"
	"github.com/vk/simforge/internal/ctxlog"
	"github.com/vk/simforge/internal/model"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.Template {
		a.printTemplate()
		return nil
	}

	names := a.workspace.BuildNames()
	if appConfig.BuildName != "" {
		if _, ok := a.workspace.Build(appConfig.BuildName); !ok {
			return fmt.Errorf("build %q is not declared in the workspace", appConfig.BuildName)
		}
		names = []string{appConfig.BuildName}
	}
	if len(names) == 0 {
		a.logger.Warn("No builds declared in workspace, nothing to do.")
		return nil
	}

	for _, name := range names {
		cfg, _ := a.workspace.Build(name)
		a.logger.Info("Starting build.", "build", name)

		comp, err := a.builder.Build(ctx, cfg, a.workspace.Variables,
			builder.WithVerbose(appConfig.Verbose))
		if err != nil {
			return fmt.Errorf("build %q failed: %w", name, err)
		}

		a.printComposite(name, comp)
		a.logger.Info("Build finished.", "build", name, "components", comp.Len())
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// printTemplate writes a blank build configuration for the loaded
// prototypes, reserved keys first.
func (a *App) printTemplate() {
	tmpl := a.builder.TemplateConfig()
	fmt.Fprintf(a.outW, "%s = %q\n", config.KeyPhysModels, tmpl[config.KeyPhysModels])
	fmt.Fprintf(a.outW, "%s = %q\n", config.KeySplitCats, tmpl[config.KeySplitCats])
	for _, name := range a.builder.Prototypes() {
		fmt.Fprintf(a.outW, "%s = %q\n", name, tmpl[name])
	}
}

// printComposite writes a human-readable component listing for one build:
// each master-index state with its component root and the leaf parameters
// (clones and shared originals) that component resolves to.
func (a *App) printComposite(name string, comp *builder.Composite) {
	fmt.Fprintf(a.outW, "build %s: index %s, %d component(s)\n", name, comp.Index().Name(), comp.Len())
	for _, label := range comp.Labels() {
		root, _ := comp.Component(label)
		fmt.Fprintf(a.outW, "  %s -> %s (%s)\n", label, root.Name(), strings.Join(leafParams(root), ", "))
	}
}

// leafParams collects the leaf parameter names reachable from root, in
// depth-first discovery order.
func leafParams(root model.Node) []string {
	var names []string
	seen := make(map[model.Node]bool)
	var walk func(n model.Node)
	walk = func(n model.Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		if _, ok := n.(*model.Param); ok {
			names = append(names, n.Name())
			return
		}
		for _, op := range n.Operands() {
			walk(op)
		}
	}
	walk(root)
	return names
}
