package discovery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/toolbench/internal/store"
)

func seed() store.Dataset {
	ds := store.New()
	ds.Insert("users", "2", store.Record{"name": "Ben", "role": "agent"})
	ds.Insert("users", "10", store.Record{"name": "Rosa", "role": "supervisor"})
	ds.Insert("users", "1", store.Record{"name": "Ada", "role": "agent"})
	return ds
}

func TestFind_SortsNumericallyAndInjectsID(t *testing.T) {
	recs := Find(seed(), "users", nil)
	require.Len(t, recs, 3)

	// "10" sorts after "2" numerically, not lexically.
	assert.Equal(t, "1", recs[0]["id"])
	assert.Equal(t, "2", recs[1]["id"])
	assert.Equal(t, "10", recs[2]["id"])
}

func TestFind_FilterEquality(t *testing.T) {
	recs := Find(seed(), "users", map[string]any{"role": "agent"})
	require.Len(t, recs, 2)
	assert.Equal(t, "Ada", recs[0]["name"])
	assert.Equal(t, "Ben", recs[1]["name"])

	// Unknown field filters match nothing.
	assert.Empty(t, Find(seed(), "users", map[string]any{"nope": "x"}))
}

func TestFind_DoesNotMutateStore(t *testing.T) {
	ds := seed()
	_ = Find(ds, "users", nil)
	rec, _ := ds.Lookup("users", "1")
	assert.NotContains(t, rec, "id")
}

func TestEnvelope(t *testing.T) {
	out := Envelope("users", Find(seed(), "users", map[string]any{"role": "supervisor"}))

	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "users", env["entity_type"])
	assert.Equal(t, float64(1), env["count"])

	entities := env["entities"].([]any)
	require.Len(t, entities, 1)
	assert.Equal(t, "Rosa", entities[0].(map[string]any)["name"])
}
