package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDir loads every *.json file in dir into a fresh dataset. The filename
// stem becomes the table name; the file payload must be a JSON object mapping
// id strings to records. Any unreadable or malformed file is a hard error -
// a partially loaded environment would make task results meaningless.
func LoadDir(dir string) (Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory %s: %w", dir, err)
	}

	ds := New()
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		table := strings.TrimSuffix(name, ".json")
		if err := loadTable(ds, table, path); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// loadTable reads one table file into the dataset.
func loadTable(ds Dataset, table, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read table file %s: %w", path, err)
	}

	var rows map[string]json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("table %s: payload is not an object of id -> record: %w", table, err)
	}

	t := ds.Ensure(table)
	for id, raw := range rows {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("table %s: record %q is not an object: %w", table, id, err)
		}
		t[id] = rec
	}
	return nil
}
