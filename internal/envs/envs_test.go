package envs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

var registerTestCatalogue = sync.OnceFunc(func() {
	RegisterCatalogue("loadertest", func(now string) []*tool.Tool {
		return []*tool.Tool{
			{
				Descriptor: tool.Descriptor{
					Name:        "echo_things",
					Description: "Echoes its arguments and the logical now.",
					Parameters: tool.Params{
						"entity_type": {Type: "string", Description: "Which table"},
						"note":        {Type: "string", Description: "Free text"},
					},
					Required: []string{"entity_type"},
				},
				Handler: func(ds store.Dataset, args map[string]any) string {
					return tool.OK(map[string]any{
						"entity_type": args["entity_type"],
						"note":        args["note"],
						"now":         now,
					})
				},
			},
			// A broken tool: no handler. The loader must log and omit it
			// while keeping the rest of the environment usable.
			{Descriptor: tool.Descriptor{Name: "broken_tool"}},
		}
	})
})

func writeTestEnv(t *testing.T) string {
	t.Helper()
	registerTestCatalogue()

	root := t.TempDir()
	dir := filepath.Join(root, "envs", "loadertest")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))

	manifest := `now: "2025-10-01T00:00:00"
interfaces: [1]
aliases:
  echo_users:
    target: echo_things
    args:
      entity_type: users
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "env.yaml"), []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "things.json"),
		[]byte(`{"1": {"name": "a"}}`), 0o644))
	return root
}

func TestLoad(t *testing.T) {
	root := writeTestEnv(t)

	env, err := Load(root, "loadertest", zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "loadertest", env.Name)
	assert.Equal(t, "2025-10-01T00:00:00", env.Now)
	assert.Equal(t, []int{1}, env.Interfaces)
	assert.Equal(t, 1, env.Data.Len("things"))

	// The broken tool is omitted; the echo tool and its alias registered.
	assert.True(t, env.Tools.Has("echo_things"))
	assert.True(t, env.Tools.Has("echo_users"))
	assert.False(t, env.Tools.Has("broken_tool"))
}

func TestLoad_AliasForwardsWithPresets(t *testing.T) {
	root := writeTestEnv(t)
	env, err := Load(root, "loadertest", nil)
	require.NoError(t, err)

	alias := env.Tools.Get("echo_users")
	require.NotNil(t, alias)

	// The preset parameter is stripped from the alias schema.
	assert.NotContains(t, alias.Descriptor.Parameters, "entity_type")
	assert.NotContains(t, alias.Descriptor.Required, "entity_type")
	assert.Contains(t, alias.Descriptor.Parameters, "note")

	out := alias.Invoke(env.Data, map[string]any{"note": "hi"})
	var env2 map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &env2))
	assert.Equal(t, "users", env2["entity_type"])
	assert.Equal(t, "hi", env2["note"])
	assert.Equal(t, "2025-10-01T00:00:00", env2["now"])
}

func TestLoad_TwoLoadsAreIsolated(t *testing.T) {
	root := writeTestEnv(t)

	a, err := Load(root, "loadertest", nil)
	require.NoError(t, err)
	b, err := Load(root, "loadertest", nil)
	require.NoError(t, err)

	assert.Equal(t, a.Data, b.Data)
	a.Data.Insert("things", "2", store.Record{"name": "b"})
	assert.Equal(t, 1, b.Data.Len("things"))
}

func TestLoad_MissingEnvironment(t *testing.T) {
	_, err := Load(t.TempDir(), "nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_NoCatalogue(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "envs", "orphan"), 0o755))

	_, err := Load(root, "orphan", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no registered tool catalogue")
}

func TestLoadManifest_Strict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yaml")

	// Unknown fields are rejected.
	require.NoError(t, os.WriteFile(path, []byte("now: \"2025-10-01T00:00:00\"\nbogus: 1\n"), 0o644))
	_, err := LoadManifest(path)
	require.Error(t, err)

	// now is required.
	require.NoError(t, os.WriteFile(path, []byte("interfaces: [1]\n"), 0o644))
	_, err = LoadManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "now is required")

	// An alias without a target is rejected.
	require.NoError(t, os.WriteFile(path, []byte("now: \"2025-10-01T00:00:00\"\naliases:\n  x: {}\n"), 0o644))
	_, err = LoadManifest(path)
	require.Error(t, err)
}

func TestList(t *testing.T) {
	root := writeTestEnv(t)

	// A directory without a registered catalogue is not listed.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "envs", "stray"), 0o755))

	names, err := List(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"loadertest"}, names)
}

func TestInfer(t *testing.T) {
	registerTestCatalogue()

	assert.Equal(t, "loadertest", Infer("envs/loadertest/tasks/x.json"))
	assert.Equal(t, "", Infer("somewhere/else.json"))
}
