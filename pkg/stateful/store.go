package stateful

import (
	"sort"
	"sync"
)

// StateStore is the registry of named collections.
type StateStore struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

// NewStateStore creates a new StateStore.
func NewStateStore() *StateStore {
	return &StateStore{
		collections: make(map[string]*Collection),
	}
}

// Register creates and stores a collection named name.
func (s *StateStore) Register(name string, seed ...Record) (*Collection, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "collection name cannot be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.collections[name]; exists {
		return nil, &ValidationError{Field: "name", Message: "collection " + name + " already registered"}
	}
	c := NewCollection(name, seed...)
	s.collections[name] = c
	return c, nil
}

// Get returns the collection named name.
func (s *StateStore) Get(name string) (*Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, &NotFoundError{Resource: name}
	}
	return c, nil
}

// List returns all collection names in sorted order.
func (s *StateStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset restores seed data. If name is empty, all collections are reset.
func (s *StateStore) Reset(name string) (*ResetResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resetNames []string
	if name == "" {
		for n, c := range s.collections {
			c.Reset()
			resetNames = append(resetNames, n)
		}
		sort.Strings(resetNames)
	} else {
		c, ok := s.collections[name]
		if !ok {
			return nil, &NotFoundError{Resource: name}
		}
		c.Reset()
		resetNames = []string{name}
	}

	return &ResetResponse{
		Reset:     true,
		Resources: resetNames,
		Message:   "State reset to seed data",
	}, nil
}

// Overview returns the item counts of every collection.
func (s *StateStore) Overview() *Overview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ov := &Overview{Counts: make(map[string]int, len(s.collections))}
	for name, c := range s.collections {
		n := c.Count()
		ov.Collections = append(ov.Collections, name)
		ov.Counts[name] = n
		ov.TotalItems += n
	}
	sort.Strings(ov.Collections)
	return ov
}
