package tool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/toolbench/internal/store"
)

func TestDescriptor_Info(t *testing.T) {
	d := Descriptor{
		Name:        "manage_clients",
		Description: "Create or update clients.",
		Parameters: Params{
			"action": {Type: "string", Description: "Operation", Enum: []any{"create", "update"}},
			"tags":   {Type: "array", Description: "Labels", Items: &Items{Type: "string"}},
		},
		Required: []string{"action"},
	}

	data, err := json.Marshal(d.Info())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "function", decoded["type"])
	fn := decoded["function"].(map[string]any)
	assert.Equal(t, "manage_clients", fn["name"])

	params := fn["parameters"].(map[string]any)
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, []any{"action"}, params["required"])
	// additionalProperties must be a real JSON boolean.
	assert.Equal(t, false, params["additionalProperties"])

	action := params["properties"].(map[string]any)["action"].(map[string]any)
	assert.Equal(t, []any{"create", "update"}, action["enum"])
}

func TestDescriptor_InfoEmptySchema(t *testing.T) {
	data, err := json.Marshal(Descriptor{Name: "noop", Description: "does nothing"}.Info())
	require.NoError(t, err)
	// Empty schemas serialize as {} and [], never null.
	assert.Contains(t, string(data), `"properties":{}`)
	assert.Contains(t, string(data), `"required":[]`)
}

func TestRegistry_DuplicateIsError(t *testing.T) {
	r := NewRegistry()
	mk := func() *Tool {
		return &Tool{
			Descriptor: Descriptor{Name: "t"},
			Handler:    func(ds store.Dataset, args map[string]any) string { return OK(nil) },
		}
	}
	require.NoError(t, r.Register(mk()))
	err := r.Register(mk())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolAlreadyRegistered)
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.MustRegister(&Tool{
			Descriptor: Descriptor{Name: name},
			Handler:    func(ds store.Dataset, args map[string]any) string { return OK(nil) },
		})
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
	assert.Equal(t, 3, r.Count())
	assert.True(t, r.Has("mid"))
	assert.Nil(t, r.Get("missing"))
}

func TestRegistry_InvalidTool(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(&Tool{Descriptor: Descriptor{Name: ""}}))
	assert.Error(t, r.Register(&Tool{Descriptor: Descriptor{Name: "x"}, Handler: nil}))
}

func TestEnvelopes(t *testing.T) {
	ok := OK(map[string]any{"client_id": "1"})
	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(ok), &env))
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "1", env["client_id"])

	fail := Fail("Client with id '%s' not found", "9")
	require.NoError(t, json.Unmarshal([]byte(fail), &env))
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Client with id '9' not found", env["error"])

	var s string
	require.NoError(t, json.Unmarshal([]byte(LegacyError("bad entity_type")), &s))
	assert.Equal(t, "Error: bad entity_type", s)
}

func TestStamps(t *testing.T) {
	now := "2025-10-01T12:00:00"
	rec := store.Record{"name": "x"}

	StampCreate(rec, now)
	assert.Equal(t, now, rec["created_at"])
	assert.Equal(t, now, rec["updated_at"])

	later := "2025-10-01T12:00:00"
	rec["created_at"] = "2025-09-01T00:00:00"
	StampUpdate(rec, later)
	assert.Equal(t, "2025-09-01T00:00:00", rec["created_at"])
	assert.Equal(t, later, rec["updated_at"])
}
