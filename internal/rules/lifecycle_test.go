package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLifecycle = Lifecycle{
	Field: "status",
	Transitions: map[string][]string{
		"issued": {"paid"},
	},
	Terminal: []string{"paid"},
}

func TestGuardMutation(t *testing.T) {
	assert.NoError(t, testLifecycle.GuardMutation(map[string]any{"status": "issued"}, "invoice"))

	err := testLifecycle.GuardMutation(map[string]any{"status": "paid"}, "invoice")
	require.Error(t, err)
	assert.Equal(t, "Cannot modify paid invoice", err.Error())
}

func TestGuardTransition(t *testing.T) {
	rec := map[string]any{"status": "issued"}

	assert.NoError(t, testLifecycle.GuardTransition(rec, "paid", "invoice"))
	// A no-op status write is legal.
	assert.NoError(t, testLifecycle.GuardTransition(rec, "issued", "invoice"))

	err := testLifecycle.GuardTransition(rec, "void", "invoice")
	require.Error(t, err)
	assert.Equal(t, "Cannot change invoice status from 'issued' to 'void'. Allowed: paid", err.Error())

	err = testLifecycle.GuardTransition(map[string]any{"status": "paid"}, "issued", "invoice")
	require.Error(t, err)
	assert.Equal(t, "Cannot change invoice status from 'paid' to 'issued'", err.Error())
}

func TestStates(t *testing.T) {
	assert.Equal(t, []string{"issued", "paid"}, testLifecycle.States())
}
