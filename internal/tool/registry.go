package tool

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the tools of one environment and provides lookup by name.
// It is safe for concurrent reads; registration happens at load time.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool. Registering the same name twice is an error: the
// corpus relies on filename-stem uniqueness within an environment.
func (r *Registry) Register(t *Tool) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// MustRegister registers a tool and panics on error. Used for static
// per-domain catalogues where a duplicate is a programming bug.
func (r *Registry) MustRegister(t *Tool) {
	if err := r.Register(t); err != nil {
		panic(fmt.Sprintf("failed to register tool %s: %v", t.Name(), err))
	}
}

// Get returns the tool by name, or nil if not registered.
func (r *Registry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Has reports whether a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Descriptors returns the function-calling schemas of all tools in name
// order. This is the surface the agent harness consumes.
func (r *Registry) Descriptors() []any {
	names := r.Names()
	out := make([]any, 0, len(names))
	for _, name := range names {
		out = append(out, r.Get(name).Descriptor.Info())
	}
	return out
}
