// Package envs loads benchmark environments: the JSON dataset, the tool
// catalogue, and the per-environment manifest (logical now, interface
// grouping, name aliases).
//
// Tool catalogues are explicit Go registries - one subpackage per domain
// exporting its tool list - rather than runtime source loading. The loader
// wires the manifest's logical now into every tool at construction time,
// synthesizes alias tools that forward to their target with preset
// arguments, and returns an Environment handle ready for the task runner
// or an agent harness.
package envs
