package recipe

import (
	"errors"
	"fmt"
	"sort"
)

// Registry is an immutable catalog of recipe definitions. It is safe for
// concurrent use because nothing mutates it after Build.
type Registry struct {
	defs  map[string]*Definition
	order []string // Maintains registration order
}

// Lookup returns the definition registered under name. Matching is exact and
// case-sensitive.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	if r == nil {
		return nil, false
	}
	def, ok := r.defs[name]
	return def, ok
}

// Has checks if a recipe is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns all recipe names, sorted
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// List returns all definitions in registration order
func (r *Registry) List() []*Definition {
	if r == nil {
		return nil
	}
	out := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Count returns the number of registered recipes
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Missing returns, per recipe, the required capabilities that has does not
// provide. Recipes with nothing missing are omitted.
func (r *Registry) Missing(has func(name string) bool) map[string][]string {
	out := make(map[string][]string)
	for _, def := range r.List() {
		for _, name := range def.Requirements() {
			if !has(name) {
				out[def.Name] = append(out[def.Name], name)
			}
		}
	}
	return out
}

// Builder accumulates definitions and produces a Registry
type Builder struct {
	defs  []Definition
	index map[string]int
	errs  []error
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// Add queues a definition. Duplicate and invalid definitions are reported by Build.
func (b *Builder) Add(defs ...Definition) *Builder {
	for _, def := range defs {
		if err := def.validate(); err != nil {
			b.errs = append(b.errs, err)
			continue
		}
		if _, exists := b.index[def.Name]; exists {
			b.errs = append(b.errs, fmt.Errorf("recipe %s already registered", def.Name))
			continue
		}
		b.index[def.Name] = len(b.defs)
		b.defs = append(b.defs, def.clone())
	}
	return b
}

// Extend queues every definition of an existing registry, in its order
func (b *Builder) Extend(r *Registry) *Builder {
	for _, def := range r.List() {
		b.Add(*def)
	}
	return b
}

// Build validates the queued definitions and returns the registry
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("invalid recipe catalog: %w", errors.Join(b.errs...))
	}
	r := &Registry{
		defs:  make(map[string]*Definition, len(b.defs)),
		order: make([]string, 0, len(b.defs)),
	}
	for _, def := range b.defs {
		d := def.clone()
		r.defs[d.Name] = &d
		r.order = append(r.order, d.Name)
	}
	return r, nil
}
