// Package customizer implements the per-prototype graph rewriting step:
// recursive cloning of the dependency graph for a requested category
// state, substituting split parameters and sharing all structure that does
// not depend on them.
//
// Clones are memoized by (node name, governing-state signature), not by
// the full master-index state: a node split only by tagCat is one shared
// clone across every runBlock state. This is what bounds the cache at K×S
// parameter clones and one derived clone per (node, state) pair, and what
// makes "connected builds" on a shared engine hand out identical clones.
package customizer
