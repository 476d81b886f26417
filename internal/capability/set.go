package capability

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gprcli/internal/gather"
)

// Set holds the capabilities available to recipes, keyed by name
type Set struct {
	mu    sync.RWMutex
	caps  map[string]Capability
	order []string // Maintains registration order
}

// NewSet creates an empty capability set
func NewSet() *Set {
	return &Set{
		caps:  make(map[string]Capability),
		order: make([]string, 0),
	}
}

// Register adds a capability to the set
func (s *Set) Register(c Capability) error {
	if c == nil {
		return fmt.Errorf("cannot register nil capability")
	}

	name := c.Name()
	if name == "" {
		return fmt.Errorf("capability name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.caps[name]; exists {
		return fmt.Errorf("capability %s already registered", name)
	}

	s.caps[name] = c
	s.order = append(s.order, name)
	return nil
}

// Replace registers c, overwriting any capability with the same name
func (s *Set) Replace(c Capability) error {
	if c == nil || c.Name() == "" {
		return fmt.Errorf("cannot register unnamed capability")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.caps[c.Name()]; !exists {
		s.order = append(s.order, c.Name())
	}
	s.caps[c.Name()] = c
	return nil
}

// Get retrieves a capability by name
func (s *Set) Get(name string) (Capability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.caps[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return c, nil
}

// Has checks if a capability is registered
func (s *Set) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.caps[name]
	return exists
}

// Names returns all registered names, sorted
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.order))
	copy(names, s.order)
	sort.Strings(names)
	return names
}

// Count returns the number of registered capabilities
func (s *Set) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.caps)
}

// Clone creates a copy of the set
func (s *Set) Clone() *Set {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clone := NewSet()
	for _, name := range s.order {
		clone.caps[name] = s.caps[name]
		clone.order = append(clone.order, name)
	}
	return clone
}

// Invoke runs the named capability against g and, on success, appends one
// history record with the resolved parameters.
func (s *Set) Invoke(ctx context.Context, g *gather.Gather, name string, p gather.Params) error {
	c, err := s.Get(name)
	if err != nil {
		return err
	}
	if err := c.Apply(ctx, g, p); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	g.Append(gather.Record{Name: name, Params: p})
	return nil
}
