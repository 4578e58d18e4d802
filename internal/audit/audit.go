// Package audit appends audit-trail entries for mutating tools.
//
// The append is logically part of the same tool call as the mutation it
// records: a tool that mutated the store and failed to write its audit
// entry is a hard error, never a silent drop.
package audit

import (
	"fmt"

	"github.com/roach88/toolbench/internal/store"
)

// TableName is the audit table every environment shares.
const TableName = "audit_trail"

// Entry describes one audited mutation.
type Entry struct {
	Who        string
	EntityType string
	EntityID   string
	ActionType string
	Summary    string
}

// Append writes the entry to the audit_trail table, stamped with the
// environment's logical now, and returns the new entry id.
func Append(ds store.Dataset, now string, e Entry) (string, error) {
	if ds == nil {
		return "", fmt.Errorf("audit: store is not initialized")
	}
	id := ds.FreshID(TableName)
	ds.Insert(TableName, id, store.Record{
		"who":         e.Who,
		"entity_type": e.EntityType,
		"entity_id":   e.EntityID,
		"action_type": e.ActionType,
		"summary":     e.Summary,
		"created_at":  now,
	})
	return id, nil
}

// MustAppend appends an entry and panics on failure. Tools call this after
// a successful mutation; the task runner converts the panic into a failed
// action rather than crashing the process.
func MustAppend(ds store.Dataset, now string, e Entry) {
	if _, err := Append(ds, now, e); err != nil {
		panic(fmt.Sprintf("audit append failed: %v", err))
	}
}
