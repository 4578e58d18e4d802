package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript_Flat(t *testing.T) {
	script, err := ParseScript([]byte(`{
		"environment": "fundops",
		"actions": [
			{"name": "manage_funds", "arguments": {"action": "create"}, "output": {"success": false}},
			{"name": "approval_lookup", "arguments": {"action": "trade_execution", "requester_id": "4"}}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "fundops", script.Environment)
	require.Len(t, script.Actions, 2)

	first := script.Actions[0]
	assert.Equal(t, "manage_funds", first.Name)
	assert.Equal(t, map[string]any{"action": "create"}, first.Arguments)
	assert.True(t, first.HasOutput)
	assert.Equal(t, map[string]any{"success": false}, first.Output)

	// No output key means no expectation, distinct from expecting null.
	assert.False(t, script.Actions[1].HasOutput)
	assert.Nil(t, script.Actions[1].Output)
}

func TestParseScript_NestedAndActionKey(t *testing.T) {
	script, err := ParseScript([]byte(`{
		"task": {
			"environment": "hrops",
			"actions": [{"action": "manage_employees", "arguments": {}}]
		}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "hrops", script.Environment)
	require.Len(t, script.Actions, 1)
	assert.Equal(t, "manage_employees", script.Actions[0].Name)
}

func TestParseScript_Errors(t *testing.T) {
	_, err := ParseScript([]byte(`{"environment": "x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no actions list")

	_, err = ParseScript([]byte(`{"actions": [{"arguments": {}}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing tool name (expected "name" or "action")`)

	_, err = ParseScript([]byte(`{"actions": [{"name": "t", "arguments": "nope"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arguments is not an object")
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check([]byte(`{"actions": []}`)))
	require.NoError(t, Check([]byte(`{"task": {"environment": "e", "actions": [{"name": "t"}]}}`)))

	// Shape violations are caught before parsing.
	assert.Error(t, Check([]byte(`{"actions": "nope"}`)))
	assert.Error(t, Check([]byte(`{"actions": [{"name": 5}]}`)))
	assert.Error(t, Check([]byte(`{"environment": 7, "actions": []}`)))
	assert.Error(t, Check([]byte(`not json`)))
}
