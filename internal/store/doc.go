// Package store implements the in-memory record store shared by all tools
// within one environment session.
//
// A Dataset maps table names to tables; a table maps string primary keys to
// free-form records. The store enforces no schema - all typing happens at
// tool boundaries. Primary keys are decimal integers formatted as strings,
// generated by FreshID (max existing key + 1, "1" on an empty table).
//
// The store is loaded from a directory of JSON files (one file per table,
// filename stem = table name) and mutated in place by tools. It lives for
// exactly one task run; persistence is not a goal.
package store
