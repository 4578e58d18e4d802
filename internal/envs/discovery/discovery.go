// Package discovery implements the read-only entity discovery shared by
// every domain: linear filtering of one table by field equality, results
// sorted by id.
package discovery

import (
	"sort"
	"strconv"

	"github.com/roach88/toolbench/internal/jsonval"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

// Find returns the records of the table whose fields all equal the given
// filters, sorted by id. Each result record carries its id under "id"
// without mutating the stored record. Nil filters match everything.
func Find(ds store.Dataset, table string, filters map[string]any) []store.Record {
	rows := ds.Get(table)

	ids := make([]string, 0, len(rows))
	for id, rec := range rows {
		if matches(rec, filters) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return idLess(ids[i], ids[j]) })

	out := make([]store.Record, 0, len(ids))
	for _, id := range ids {
		rec := rows[id]
		withID := make(store.Record, len(rec)+1)
		withID["id"] = id
		for k, v := range rec {
			withID[k] = v
		}
		out = append(out, withID)
	}
	return out
}

// Envelope renders the uniform discovery result shape.
func Envelope(entityType string, recs []store.Record) string {
	entities := make([]any, len(recs))
	for i, rec := range recs {
		entities[i] = map[string]any(rec)
	}
	return tool.OK(map[string]any{
		"entity_type": entityType,
		"entities":    entities,
		"count":       len(recs),
	})
}

// matches reports whether every filter field equals the record's value,
// using the same strict structural equality as the task runner.
func matches(rec store.Record, filters map[string]any) bool {
	for field, want := range filters {
		got, ok := rec[field]
		if !ok || !jsonval.Equal(got, want) {
			return false
		}
	}
	return true
}

// idLess orders decimal-integer ids numerically and anything else
// lexically after them.
func idLess(a, b string) bool {
	an, aerr := strconv.ParseInt(a, 10, 64)
	bn, berr := strconv.ParseInt(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return an < bn
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}
