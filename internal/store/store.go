package store

import (
	"fmt"
	"reflect"
	"strconv"
)

// Record is one row in one table. Records are free-form: nested objects,
// arrays, scalars and nulls are all legal values.
type Record = map[string]any

// Table maps string primary keys to records.
type Table = map[string]Record

// Dataset is the in-memory store: table name -> (id -> record).
//
// All tools within a task share one Dataset and mutate it in place. One tool
// call is the atomic unit; there is no snapshotting or rollback. The runner
// is single-threaded, so no locking is required.
type Dataset map[string]Table

// New creates an empty dataset.
func New() Dataset {
	return make(Dataset)
}

// Get returns the named table, or an empty table if it does not exist.
// The returned table is NOT registered in the dataset - use Ensure when the
// caller intends to insert.
func (d Dataset) Get(table string) Table {
	if t, ok := d[table]; ok {
		return t
	}
	return Table{}
}

// Ensure returns the named table, creating it in the dataset if absent.
func (d Dataset) Ensure(table string) Table {
	t, ok := d[table]
	if !ok {
		t = make(Table)
		d[table] = t
	}
	return t
}

// Has reports whether the table exists and contains the given id.
func (d Dataset) Has(table, id string) bool {
	_, ok := d.Get(table)[id]
	return ok
}

// Lookup returns the record with the given id, or false if absent.
func (d Dataset) Lookup(table, id string) (Record, bool) {
	rec, ok := d.Get(table)[id]
	return rec, ok
}

// Insert writes the record under the given id, creating the table if needed.
func (d Dataset) Insert(table, id string, rec Record) {
	d.Ensure(table)[id] = rec
}

// Len returns the number of records in the named table.
func (d Dataset) Len(table string) int {
	return len(d.Get(table))
}

// FreshID returns the next available primary key for the table: the maximum
// existing decimal-integer key plus one, formatted as a string. Non-decimal
// keys are ignored. An empty (or absent) table yields "1". Ids are never
// reused, even after deletes, because the maximum only grows.
func (d Dataset) FreshID(table string) string {
	max := int64(0)
	for id := range d.Get(table) {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10)
}

// Tables returns the table names present in the dataset.
func (d Dataset) Tables() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	return names
}

// Clone deep-copies the dataset. Used by tests to verify that rejected tool
// calls leave the store untouched.
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	for table, rows := range d {
		t := make(Table, len(rows))
		for id, rec := range rows {
			cloned, ok := cloneValue(rec).(map[string]any)
			if !ok {
				// cloneValue preserves the concrete type of maps.
				panic(fmt.Sprintf("store: record %s/%s did not clone to a map", table, id))
			}
			t[id] = cloned
		}
		out[table] = t
	}
	return out
}

// Equal reports structural equality with another dataset.
func (d Dataset) Equal(other Dataset) bool {
	return reflect.DeepEqual(d, other)
}

// cloneValue deep-copies a JSON-shaped value.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = cloneValue(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = cloneValue(elem)
		}
		return out
	default:
		// Scalars (string, float64, bool, nil, json.Number) are immutable.
		return val
	}
}
