// Package builder is the build engine's orchestration layer. Given a
// prototype model set, a build configuration and dataset variable
// definitions, it resolves the category space, configures one graph
// customizer per prototype, iterates the master index and assembles the
// per-state clones into one Composite.
//
// # Lifetime and ownership
//
// The Builder owns every clone produced through it. Customizers are
// retired into engine state rather than discarded after a build, which is
// a deliberate feature: two sequential builds on one engine that split a
// shared parameter by the same category receive the very same clones, so
// the resulting composites share those parameters. A Composite is a view
// over this engine-owned state and must not outlive its Builder.
//
// # Error policy
//
// Fatal conditions (unknown prototype, category, restricted state or
// parameter, malformed grammar) abort the build with no partial result.
// Degraded modes defined by the configuration grammar log warnings and
// continue. Per-state skips (restricted-out states, unmapped selector
// states) are normal outcomes, visible only as absent components.
package builder
