package envs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

// Environment is a fully loaded benchmark environment: dataset, tools and
// configuration. The dataset is freshly loaded per Load call, so two loads
// of the same environment start from identical state.
type Environment struct {
	Name       string
	Now        string
	Data       store.Dataset
	Tools      *tool.Registry
	Interfaces []int
	Dir        string
}

// Catalogue builds the tool list for one domain. The logical now is
// injected here so no tool hard-codes a timestamp.
type Catalogue func(now string) []*tool.Tool

// catalogues maps environment names to their domain packages. Adding an
// environment means adding a data directory, an env.yaml, and one entry
// here.
var catalogues = map[string]Catalogue{}

// RegisterCatalogue wires a domain package into the loader. All built-in
// domains are registered from catalog.go.
func RegisterCatalogue(name string, c Catalogue) {
	if _, exists := catalogues[name]; exists {
		panic(fmt.Sprintf("envs: catalogue %q registered twice", name))
	}
	catalogues[name] = c
}

// Load builds the named environment from <root>/envs/<name>.
//
// Hard errors: missing environment directory, unreadable or malformed data
// file, unknown catalogue. A single tool that fails to register is logged
// and omitted - the environment stays usable for the tools that did load.
func Load(root, name string, logger *zap.Logger) (*Environment, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := filepath.Join(root, "envs", name)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("environment %q not found under %s", name, filepath.Join(root, "envs"))
	}

	catalogue, ok := catalogues[name]
	if !ok {
		return nil, fmt.Errorf("environment %q has no registered tool catalogue", name)
	}

	manifest, err := LoadManifest(filepath.Join(dir, "env.yaml"))
	if err != nil {
		return nil, fmt.Errorf("environment %q: %w", name, err)
	}

	data, err := store.LoadDir(filepath.Join(dir, "data"))
	if err != nil {
		return nil, fmt.Errorf("environment %q: %w", name, err)
	}

	registry := tool.NewRegistry()
	for _, t := range catalogue(manifest.Now) {
		if err := registry.Register(t); err != nil {
			logger.Error("tool failed to load, omitting",
				zap.String("environment", name),
				zap.String("tool", t.Descriptor.Name),
				zap.Error(err))
			continue
		}
		logger.Debug("registered tool",
			zap.String("environment", name),
			zap.String("tool", t.Descriptor.Name))
	}

	aliasNames := make([]string, 0, len(manifest.Aliases))
	for alias := range manifest.Aliases {
		aliasNames = append(aliasNames, alias)
	}
	sort.Strings(aliasNames)
	for _, aliasName := range aliasNames {
		spec := manifest.Aliases[aliasName]
		aliasTool, err := makeAlias(registry, aliasName, spec)
		if err != nil {
			logger.Error("alias failed to load, omitting",
				zap.String("environment", name),
				zap.String("alias", aliasName),
				zap.Error(err))
			continue
		}
		if err := registry.Register(aliasTool); err != nil {
			logger.Error("alias failed to register, omitting",
				zap.String("environment", name),
				zap.String("alias", aliasName),
				zap.Error(err))
		}
	}

	return &Environment{
		Name:       name,
		Now:        manifest.Now,
		Data:       data,
		Tools:      registry,
		Interfaces: manifest.Interfaces,
		Dir:        dir,
	}, nil
}

// makeAlias synthesizes a thin delegating tool. The alias shares the
// target's parameter schema minus any preset parameters.
func makeAlias(registry *tool.Registry, aliasName string, spec Alias) (*tool.Tool, error) {
	target := registry.Get(spec.Target)
	if target == nil {
		return nil, fmt.Errorf("alias target %q not registered", spec.Target)
	}

	params := tool.Params{}
	for pname, p := range target.Descriptor.Parameters {
		if _, preset := spec.Args[pname]; preset {
			continue
		}
		params[pname] = p
	}
	var required []string
	for _, r := range target.Descriptor.Required {
		if _, preset := spec.Args[r]; !preset {
			required = append(required, r)
		}
	}

	presets := spec.Args
	targetHandler := target.Handler
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        aliasName,
			Description: fmt.Sprintf("%s (delegates to %s)", target.Descriptor.Description, spec.Target),
			Parameters:  params,
			Required:    required,
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			merged := make(map[string]any, len(args)+len(presets))
			for k, v := range args {
				merged[k] = v
			}
			for k, v := range presets {
				merged[k] = v
			}
			return targetHandler(ds, merged)
		},
	}, nil
}

// List enumerates loadable environment names under <root>/envs: directories
// that both carry an env.yaml and have a registered catalogue.
func List(root string) ([]string, error) {
	envsDir := filepath.Join(root, "envs")
	entries, err := os.ReadDir(envsDir)
	if err != nil {
		return nil, fmt.Errorf("read environments root %s: %w", envsDir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, ok := catalogues[name]; !ok {
			continue
		}
		if _, err := os.Stat(filepath.Join(envsDir, name, "env.yaml")); err != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Known returns the names of all registered catalogues, sorted. Used for
// environment inference from task file paths.
func Known() []string {
	names := make([]string, 0, len(catalogues))
	for name := range catalogues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
