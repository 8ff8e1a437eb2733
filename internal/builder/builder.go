package builder

import (
	"fmt"

	"github.com/vk/simforge/internal/category"
	"github.com/vk/simforge/internal/config"
	"github.com/vk/simforge/internal/customizer"
	"github.com/vk/simforge/internal/model"
)

// Builder is the build engine. One instance owns every clone its builds
// have ever produced: customizers are retained per prototype across Build
// calls, so consecutive builds sharing a prototype hand out identical
// parameter clones ("connected builds"). The builder must therefore
// outlive every Composite it returns.
//
// A Builder is not safe for concurrent Build calls; callers serialize.
type Builder struct {
	protos map[string]*model.Model
	order  []string

	// compCats memoizes on-demand composite categories by canonical name,
	// engine-scoped so repeated rule references resolve to one instance.
	compCats map[string]category.Category

	// retired holds each prototype's customizer, with its live clone
	// caches, across builds. Torn down only with the builder itself.
	retired map[string]*customizer.Customizer
}

// New creates a build engine over the given prototype models.
func New(protos ...*model.Model) (*Builder, error) {
	if len(protos) == 0 {
		return nil, fmt.Errorf("builder needs at least one prototype model")
	}
	b := &Builder{
		protos:   make(map[string]*model.Model, len(protos)),
		compCats: make(map[string]category.Category),
		retired:  make(map[string]*customizer.Customizer),
	}
	for _, p := range protos {
		if _, ok := b.protos[p.Name()]; ok {
			return nil, fmt.Errorf("duplicate prototype model %q", p.Name())
		}
		b.protos[p.Name()] = p
		b.order = append(b.order, p.Name())
	}
	return b, nil
}

// Prototypes returns the prototype names in registration order.
func (b *Builder) Prototypes() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// TemplateConfig returns a blank configuration keyed for this builder's
// prototype set.
func (b *Builder) TemplateConfig() config.Config {
	return config.NewTemplate(b.order...)
}

// BuildOption adjusts one Build call.
type BuildOption func(*buildOptions)

type buildOptions struct {
	aux     []*category.Func
	verbose bool
}

// WithAuxCategories supplies auxiliary function-derived categories usable
// in splitting rules. They are deep-copied before use, so mutating them
// after Build returns cannot affect the composite.
func WithAuxCategories(aux ...*category.Func) BuildOption {
	return func(o *buildOptions) { o.aux = append(o.aux, aux...) }
}

// WithVerbose promotes per-state build diagnostics to info level.
func WithVerbose(verbose bool) BuildOption {
	return func(o *buildOptions) { o.verbose = verbose }
}
