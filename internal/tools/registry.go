// Package tools provides a typed registry for CLI tool capabilities.
// Each integration implements the Tool interface and is registered once
// at startup; there is no lazily instantiated global state.
package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Tool is one named capability the CLI can invoke. Implementations wrap
// external services (search, finance, databases, ...) behind this
// interface; the registry does not know how they work.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args map[string]string) (string, error)
}

// Registry holds the tools available to this process.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Duplicate names are a wiring bug.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[t.Name()]; ok {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
