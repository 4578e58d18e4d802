package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with the given args and captures stdout.
func execute(args ...string) (string, error) {
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_RejectsInvalidFormat(t *testing.T) {
	_, err := execute("list-envs", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestListEnvs(t *testing.T) {
	out, err := execute("list-envs", "--root", "../..")
	require.NoError(t, err)
	assert.Equal(t, "fundops\nhrops\nincidents\n", out)
}

func TestListEnvs_JSON(t *testing.T) {
	out, err := execute("list-envs", "--root", "../..", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Environments []string `json:"environments"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"fundops", "hrops", "incidents"}, resp.Data.Environments)
}

func TestToolsCommand(t *testing.T) {
	out, err := execute("tools", "--root", "../..", "--env", "hrops")
	require.NoError(t, err)
	assert.Contains(t, out, "manage_employees")
	assert.Contains(t, out, "discover_user_entities")

	_, err = execute("tools", "--root", "../..", "--env", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateCommand_SingleTask(t *testing.T) {
	out, err := execute("validate", "--root", "../..",
		"--task-file", "../../envs/hrops/tasks/discover_aliases.json")
	require.NoError(t, err)
	assert.Contains(t, out, "[hrops] 2/2 actions passed")
	assert.Contains(t, out, "2/2 actions passed across 1 task(s)")
}

func TestValidateCommand_AllTasks(t *testing.T) {
	out, err := execute("validate", "--root", "../..", "--env", "fundops", "--all-tasks")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "nav_approvals.json"))
	assert.True(t, strings.Contains(out, "subscription_lifecycle.json"))
}

func TestCollectTaskFiles(t *testing.T) {
	files, err := collectTaskFiles("../..", "some/task.json", "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"some/task.json"}, files)

	_, err = collectTaskFiles("../..", "x.json", "fundops", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	_, err = collectTaskFiles("../..", "", "fundops", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--env requires --all-tasks")

	_, err = collectTaskFiles("../..", "", "", false)
	require.Error(t, err)

	files, err = collectTaskFiles("../..", "", "hrops", true)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.True(t, strings.HasSuffix(files[0], "discover_aliases.json"))
	assert.True(t, strings.HasSuffix(files[1], "leave_flow.json"))

	_, err = collectTaskFiles("../..", "", "unknown", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no task scripts found")
}

func TestExitError(t *testing.T) {
	err := NewExitError(ExitFailure, "boom")
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "boom", err.Error())

	// Anything that is not an ExitError maps to the generic failure code.
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))

	wrapped := WrapExitError(ExitCommandError, "load environment", assert.AnError)
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.Contains(t, wrapped.Error(), "load environment")
}
