// Package jsonval provides canonical JSON serialization and structural
// comparison for free-form JSON values.
//
// Canonical serialization sorts object keys by UTF-16 code units (RFC 8785
// ordering), NFC-normalizes strings and disables HTML escaping, so two
// structurally equal values always serialize to identical bytes. The task
// runner uses this to compare lists of objects as multisets: elements are
// canonicalized, sorted, and compared pairwise.
//
// Unlike a content-addressing IR, records here are free-form: floats and
// nulls are legal values and round-trip through the canonical form.
package jsonval
