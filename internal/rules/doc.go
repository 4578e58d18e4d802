// Package rules provides the shared validation combinators every tool
// composes instead of reimplementing its own pipeline.
//
// A tool declares its rule set as a Pipeline and runs it in the canonical
// order: shape -> enum -> numeric/date -> referential -> uniqueness ->
// lifecycle. The first violated rule stops the pipeline and yields a
// human-readable message naming the offending field, enum or reference.
// No rule ever mutates the store, so a failed pipeline leaves the dataset
// exactly as it was.
package rules
