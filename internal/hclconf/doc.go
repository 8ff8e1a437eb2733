// Package hclconf loads build workspaces from HCL files: prototype model
// graphs, dataset variable definitions and build configurations. It is
// CLI glue over the core engine; the engine itself never reads files.
package hclconf
