package backend

import (
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/goliatone/go-cms-editor/internal/shared"
)

// TypeDefinition describes a resource type that can be placed on a page.
// Contents are keyed by container type like ElementRecord.Contents and seed
// both the placeholder of a new element and the created record.
type TypeDefinition struct {
	Name           string
	Title          string
	Contents       map[string]string
	GroupContainer bool
	ModelResources []shared.ModelResource
}

// TypeRegistry stores the resource types known to the backend.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]TypeDefinition
}

// NewTypeRegistry returns a registry holding defs.
func NewTypeRegistry(defs ...TypeDefinition) *TypeRegistry {
	registry := &TypeRegistry{types: make(map[string]TypeDefinition)}
	for _, def := range defs {
		registry.Register(def)
	}
	return registry
}

// Register adds or replaces a type.
func (r *TypeRegistry) Register(def TypeDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	def.Contents = maps.Clone(def.Contents)
	def.ModelResources = slices.Clone(def.ModelResources)
	r.types[def.Name] = def
}

// Lookup returns the type called name.
func (r *TypeRegistry) Lookup(name string) (TypeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.types[name]
	return def, ok
}

// Names returns the registered type names in sorted order.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func contentsFor(source map[string]string, containers []shared.ContainerDefinition) map[string]string {
	lookup := ElementRecord{Contents: source}
	out := map[string]string{}
	for _, container := range containers {
		if content, ok := lookup.ContentFor(container.Type); ok {
			out[container.Name] = content
		}
	}
	return out
}
