package envs

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the per-environment configuration file (env.yaml). It holds
// everything about an environment that is data, not code: the logical now,
// the interface numbers, and the tool name aliases.
type Manifest struct {
	// Now is the fixed logical timestamp stamped into created_at and
	// updated_at by every tool in this environment.
	Now string `yaml:"now"`

	// Interfaces lists the role-scoped tool groupings the environment
	// exposes (conventionally 1..N).
	Interfaces []int `yaml:"interfaces"`

	// Aliases maps additional tool names to delegation specs. Task scripts
	// may reference names that are not literally in the catalogue; each
	// alias forwards to its target with preset arguments merged in.
	Aliases map[string]Alias `yaml:"aliases,omitempty"`
}

// Alias declares one delegating tool name.
type Alias struct {
	// Target is the catalogue tool the alias forwards to.
	Target string `yaml:"target"`

	// Args are preset arguments merged into every invocation. Caller
	// arguments never override presets: the preset is the alias's meaning.
	Args map[string]any `yaml:"args,omitempty"`
}

// LoadManifest reads and validates an env.yaml file. Unknown fields are
// rejected to catch typos, matching the strict decoding used for every
// other configuration surface.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	if m.Now == "" {
		return nil, fmt.Errorf("manifest: now is required")
	}
	for name, alias := range m.Aliases {
		if alias.Target == "" {
			return nil, fmt.Errorf("manifest: alias %q: target is required", name)
		}
	}
	return &m, nil
}
