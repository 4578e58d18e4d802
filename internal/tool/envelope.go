package tool

import (
	"encoding/json"
	"fmt"
)

// OK builds a success envelope: {"success": true} merged with extra fields.
func OK(fields map[string]any) string {
	env := map[string]any{"success": true}
	for k, v := range fields {
		env[k] = v
	}
	return mustMarshal(env)
}

// Fail builds a failure envelope: {"success": false, "error": message}.
// The store must be unchanged whenever a tool returns Fail.
func Fail(format string, args ...any) string {
	return mustMarshal(map[string]any{
		"success": false,
		"error":   fmt.Sprintf(format, args...),
	})
}

// Record builds a bare-record envelope: the created or updated record as
// the top-level object. Tools that historically returned bare records keep
// this shape; new tools prefer OK.
func Record(rec map[string]any) string {
	return mustMarshal(rec)
}

// LegacyError builds the legacy plain-string failure shape: a JSON string
// beginning with "Error: ". Kept only for tools whose task scripts assert
// on it; never use it for new tools.
func LegacyError(format string, args ...any) string {
	return mustMarshal("Error: " + fmt.Sprintf(format, args...))
}

// mustMarshal serializes an envelope value. Envelope values are built from
// JSON-safe types only, so a marshal failure is a programming bug.
func mustMarshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("envelope marshal: %v", err))
	}
	return string(data)
}
