package rules

import (
	"encoding/json"
	"strings"
)

// Str reads a string argument. Missing or non-string yields "".
func Str(m map[string]any, field string) string {
	s, _ := m[field].(string)
	return s
}

// TrimmedStr reads a string argument with surrounding whitespace removed.
func TrimmedStr(m map[string]any, field string) string {
	return strings.TrimSpace(Str(m, field))
}

// Num reads a numeric argument. JSON decoding yields float64; json.Number
// and native ints are accepted for programmatic callers.
func Num(m map[string]any, field string) (float64, bool) {
	switch v := m[field].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Bool reads a boolean argument. Missing or non-boolean yields false.
func Bool(m map[string]any, field string) bool {
	b, _ := m[field].(bool)
	return b
}

// Obj reads a nested object argument (the corpus "*_data" convention).
func Obj(m map[string]any, field string) (map[string]any, bool) {
	o, ok := m[field].(map[string]any)
	return o, ok
}
