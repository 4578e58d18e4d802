package tool

import "github.com/roach88/toolbench/internal/store"

// StampCreate sets the timestamp discipline for a new record:
// created_at == updated_at == the environment's logical now.
func StampCreate(rec store.Record, now string) {
	rec["created_at"] = now
	rec["updated_at"] = now
}

// StampUpdate refreshes updated_at on a mutation. created_at is never
// touched after create.
func StampUpdate(rec store.Record, now string) {
	rec["updated_at"] = now
}
