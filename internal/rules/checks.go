package rules

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/roach88/toolbench/internal/store"
)

// Check is a single validation rule evaluated against a field map (either
// the raw arguments or a nested "*_data" object). Checks read the dataset
// but never mutate it.
type Check func(ds store.Dataset, m map[string]any) error

// Pipeline runs checks in declaration order; the first violation wins.
type Pipeline []Check

// Run evaluates the pipeline against the given field map.
func (p Pipeline) Run(ds store.Dataset, m map[string]any) error {
	for _, check := range p {
		if err := check(ds, m); err != nil {
			return err
		}
	}
	return nil
}

// Require rejects when any of the named fields is absent or null.
func Require(fields ...string) Check {
	return func(_ store.Dataset, m map[string]any) error {
		for _, f := range fields {
			if v, ok := m[f]; !ok || v == nil {
				return violation(KindValidation, fmt.Sprintf("Missing required field: %s", f))
			}
		}
		return nil
	}
}

// AllowOnly rejects any field outside the allow-list. Every tool accepting
// structured input runs this: unknown fields are never silently accepted.
func AllowOnly(fields ...string) Check {
	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}
	return func(_ store.Dataset, m map[string]any) error {
		var unknown []string
		for f := range m {
			if !allowed[f] {
				unknown = append(unknown, f)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return violation(KindValidation, fmt.Sprintf("Unknown field(s): %s", strings.Join(unknown, ", ")))
		}
		return nil
	}
}

// Enum rejects a present field whose value is outside the fixed set.
// Absent fields pass; combine with Require when the field is mandatory.
func Enum(field string, allowed ...string) Check {
	return func(_ store.Dataset, m map[string]any) error {
		v, ok := m[field]
		if !ok || v == nil {
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return violation(KindValidation, fmt.Sprintf("Field %s must be a string, one of: %s", field, strings.Join(allowed, ", ")))
		}
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return violation(KindValidation, fmt.Sprintf("Invalid %s '%s'. Must be one of: %s", field, s, strings.Join(allowed, ", ")))
	}
}

// StringField rejects a present field that is not a string.
func StringField(field string) Check {
	return func(_ store.Dataset, m map[string]any) error {
		v, ok := m[field]
		if !ok || v == nil {
			return nil
		}
		if _, ok := v.(string); !ok {
			return violation(KindValidation, fmt.Sprintf("Field %s must be a string", field))
		}
		return nil
	}
}

// Positive rejects a present numeric field that is not strictly positive,
// and any present non-numeric value. The label names the quantity in the
// error message (e.g. "NAV value").
func Positive(field, label string) Check {
	return numericCheck(field, label, func(f float64) bool { return f > 0 }, "must be positive")
}

// NonNegative rejects a present numeric field below zero.
func NonNegative(field, label string) Check {
	return numericCheck(field, label, func(f float64) bool { return f >= 0 }, "must not be negative")
}

// Percent rejects a present numeric field outside [0, 100].
func Percent(field, label string) Check {
	return numericCheck(field, label, func(f float64) bool { return f >= 0 && f <= 100 }, "must be between 0 and 100")
}

func numericCheck(field, label string, ok func(float64) bool, msg string) Check {
	return func(_ store.Dataset, m map[string]any) error {
		v, present := m[field]
		if !present || v == nil {
			return nil
		}
		f, isNum := Num(m, field)
		if !isNum {
			return violation(KindValidation, fmt.Sprintf("%s must be a number", label))
		}
		if !ok(f) {
			return violation(KindValidation, fmt.Sprintf("%s %s", label, msg))
		}
		return nil
	}
}

// Date rejects a present field that does not parse as YYYY-MM-DD.
func Date(field string) Check {
	return func(_ store.Dataset, m map[string]any) error {
		v, ok := m[field]
		if !ok || v == nil {
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return violation(KindValidation, fmt.Sprintf("Field %s must be a date string (YYYY-MM-DD)", field))
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return violation(KindValidation, fmt.Sprintf("Invalid date '%s' for %s. Expected format: YYYY-MM-DD", s, field))
		}
		return nil
	}
}

// Timestamp rejects a present field that does not parse as an ISO-8601
// instant without zone (the corpus timestamp shape, e.g.
// "2025-10-01T00:00:00").
func Timestamp(field string) Check {
	return func(_ store.Dataset, m map[string]any) error {
		v, ok := m[field]
		if !ok || v == nil {
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return violation(KindValidation, fmt.Sprintf("Field %s must be an ISO timestamp string", field))
		}
		if _, err := time.Parse("2006-01-02T15:04:05", s); err != nil {
			return violation(KindValidation, fmt.Sprintf("Invalid timestamp '%s' for %s. Expected format: YYYY-MM-DDTHH:MM:SS", s, field))
		}
		return nil
	}
}

// Ordered rejects date pairs where end precedes start. Both fields must
// already have passed Date; absent fields pass.
func Ordered(startField, endField string) Check {
	return func(_ store.Dataset, m map[string]any) error {
		start, ok1 := m[startField].(string)
		end, ok2 := m[endField].(string)
		if !ok1 || !ok2 {
			return nil
		}
		st, err1 := time.Parse("2006-01-02", start)
		et, err2 := time.Parse("2006-01-02", end)
		if err1 != nil || err2 != nil {
			return nil
		}
		if et.Before(st) {
			return violation(KindValidation, fmt.Sprintf("%s must not be before %s", endField, startField))
		}
		return nil
	}
}

// Ref rejects a present foreign reference that does not resolve to an
// existing record in the referenced table. The label names the referent
// (e.g. "Fund").
func Ref(field, table, label string) Check {
	return func(ds store.Dataset, m map[string]any) error {
		v, ok := m[field]
		if !ok || v == nil {
			return nil
		}
		id := refID(v)
		if id == "" {
			return violation(KindReference, fmt.Sprintf("Field %s must be a record id", field))
		}
		if !ds.Has(table, id) {
			return violation(KindReference, fmt.Sprintf("%s with id '%s' not found", label, id))
		}
		return nil
	}
}

// refID renders a foreign-reference argument as a store key. Task scripts
// sometimes pass numeric ids; the store keys are their decimal strings.
func refID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		if id == float64(int64(id)) {
			return fmt.Sprintf("%d", int64(id))
		}
		return ""
	case int:
		return fmt.Sprintf("%d", id)
	default:
		return ""
	}
}

// RefID exposes the reference-key rendering used by Ref, for handlers that
// need the resolved key to read or mutate the referent.
func RefID(v any) string {
	return refID(v)
}

// UniqueName rejects a value that collides with an existing record's field
// under case-insensitive, trimmed-whitespace comparison. exceptID skips one
// record (the record being updated); pass "" on create.
func UniqueName(table, field, label, exceptID string) Check {
	return func(ds store.Dataset, m map[string]any) error {
		v, ok := m[field].(string)
		if !ok {
			return nil
		}
		want := foldName(v)
		if want == "" {
			return nil
		}
		for id, rec := range ds.Get(table) {
			if id == exceptID {
				continue
			}
			if existing, ok := rec[field].(string); ok && foldName(existing) == want {
				return violation(KindUniqueness, fmt.Sprintf("%s with name '%s' already exists", label, want))
			}
		}
		return nil
	}
}

// UniquePair rejects a record whose two natural-key fields both match an
// existing record (e.g. one NAV record per (fund_id, nav_date)).
func UniquePair(table, f1, f2, label, exceptID string) Check {
	return func(ds store.Dataset, m map[string]any) error {
		v1, ok1 := m[f1]
		v2, ok2 := m[f2]
		if !ok1 || !ok2 {
			return nil
		}
		k1 := pairKey(v1)
		k2 := pairKey(v2)
		for id, rec := range ds.Get(table) {
			if id == exceptID {
				continue
			}
			if pairKey(rec[f1]) == k1 && pairKey(rec[f2]) == k2 {
				return violation(KindUniqueness, fmt.Sprintf("%s for %s '%v' and %s '%v' already exists", label, f1, v1, f2, v2))
			}
		}
		return nil
	}
}

// foldName normalizes a natural key for uniqueness comparison.
func foldName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// pairKey normalizes a natural-key component for comparison. Strings fold
// like names; numbers render as reference keys so 7 matches "7".
func pairKey(v any) string {
	if s, ok := v.(string); ok {
		return foldName(s)
	}
	return refID(v)
}
