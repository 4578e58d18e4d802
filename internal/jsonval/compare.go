package jsonval

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Equal compares two JSON-shaped values structurally:
//
//   - Objects are equal iff they have the same key set and all values are
//     equal recursively.
//   - Lists where every element on both sides is an object are compared as
//     multisets: order-insensitive under canonical JSON serialization.
//   - All other lists are compared element-wise in order.
//   - Scalars compare by type and value. Types must match exactly: the
//     number 1 never equals the string "1", and true never equals "true".
//
// Both sides are expected to be decoded JSON (map[string]any, []any,
// string, float64, bool, nil). json.Number is normalized before comparison.
func Equal(a, b any) bool {
	return equalValues(normalize(a), normalize(b))
}

// Parse decodes a JSON string into a comparable value. If s is not valid
// JSON the string itself is returned, so callers can uniformly Parse both
// sides of a comparison.
func Parse(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

// Diff renders a human-readable description of the difference between two
// values, for mismatch error messages. Empty when the values are Equal
// (modulo list-of-object ordering, which Diff ignores by sorting first).
func Diff(expected, actual any) string {
	e := canonicalizeForDiff(normalize(expected))
	a := canonicalizeForDiff(normalize(actual))
	return cmp.Diff(e, a)
}

// normalize rewrites json.Number and integer values into float64 so that
// values decoded through different paths compare equal.
func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return string(val)
		}
		return f
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case float32:
		return float64(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalize(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = normalize(elem)
		}
		return out
	default:
		return v
	}
}

func equalValues(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, elem := range av {
			other, ok := bv[k]
			if !ok || !equalValues(elem, other) {
				return false
			}
		}
		return true

	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		if allObjects(av) && allObjects(bv) {
			return equalMultisets(av, bv)
		}
		for i := range av {
			if !equalValues(av[i], bv[i]) {
				return false
			}
		}
		return true

	case nil:
		return b == nil

	default:
		// Scalars: strict type equality via interface comparison.
		return a == b
	}
}

// allObjects reports whether every element of the list is a JSON object.
// Vacuously true for empty lists.
func allObjects(list []any) bool {
	for _, elem := range list {
		if _, ok := elem.(map[string]any); !ok {
			return false
		}
	}
	return true
}

// equalMultisets compares two lists of objects order-insensitively by
// sorting their canonical JSON serializations.
func equalMultisets(a, b []any) bool {
	ak, ok := canonicalKeys(a)
	if !ok {
		return false
	}
	bk, ok := canonicalKeys(b)
	if !ok {
		return false
	}
	return slices.Equal(ak, bk)
}

func canonicalKeys(list []any) ([]string, bool) {
	keys := make([]string, len(list))
	for i, elem := range list {
		data, err := MarshalCanonical(elem)
		if err != nil {
			return nil, false
		}
		keys[i] = string(data)
	}
	slices.Sort(keys)
	return keys, true
}

// canonicalizeForDiff sorts lists of objects by canonical JSON so that
// cmp.Diff does not report pure ordering differences.
func canonicalizeForDiff(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = canonicalizeForDiff(elem)
		}
		if allObjects(out) {
			slices.SortStableFunc(out, func(a, b any) int {
				ab, _ := MarshalCanonical(a)
				bb, _ := MarshalCanonical(b)
				return strings.Compare(string(ab), string(bb))
			})
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = canonicalizeForDiff(elem)
		}
		return out
	default:
		return v
	}
}
