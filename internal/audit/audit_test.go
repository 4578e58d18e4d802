package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/toolbench/internal/store"
)

func TestAppend(t *testing.T) {
	ds := store.New()

	id, err := Append(ds, "2025-10-01T00:00:00", Entry{
		Who:        "1",
		EntityType: "client",
		EntityID:   "3",
		ActionType: "create",
		Summary:    "Created client 'Acme'",
	})
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	rec, ok := ds.Lookup(TableName, "1")
	require.True(t, ok)
	assert.Equal(t, "client", rec["entity_type"])
	assert.Equal(t, "3", rec["entity_id"])
	assert.Equal(t, "2025-10-01T00:00:00", rec["created_at"])

	// Subsequent entries get fresh ids.
	id, err = Append(ds, "2025-10-01T00:00:00", Entry{Who: "1", EntityType: "client", EntityID: "3", ActionType: "update"})
	require.NoError(t, err)
	assert.Equal(t, "2", id)
}

func TestAppend_NilStoreIsError(t *testing.T) {
	_, err := Append(nil, "2025-10-01T00:00:00", Entry{})
	require.Error(t, err)
}

func TestMustAppend_PanicsOnNilStore(t *testing.T) {
	assert.Panics(t, func() {
		MustAppend(nil, "2025-10-01T00:00:00", Entry{})
	})
}
