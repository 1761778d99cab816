package discovery

import (
	"fmt"
	"sync"
)

// ConfigPatch is a partial FieldConfig update. Nil lists are left unchanged;
// provided lists replace the current ones wholesale.
type ConfigPatch struct {
	DocumentedRequired    *[]string `json:"documentedRequired,omitempty"`
	DocumentedOptional    *[]string `json:"documentedOptional,omitempty"`
	PotentialUndocumented *[]string `json:"potentialUndocumented,omitempty"`
	ActualRequired        *[]string `json:"actualRequired,omitempty"`
}

// Apply returns c with the patch applied.
func (p ConfigPatch) Apply(c FieldConfig) FieldConfig {
	out := c.Clone()
	if p.DocumentedRequired != nil {
		out.DocumentedRequired = cloneList(*p.DocumentedRequired)
	}
	if p.DocumentedOptional != nil {
		out.DocumentedOptional = cloneList(*p.DocumentedOptional)
	}
	if p.PotentialUndocumented != nil {
		out.PotentialUndocumented = cloneList(*p.PotentialUndocumented)
	}
	if p.ActualRequired != nil {
		out.ActualRequired = cloneList(*p.ActualRequired)
	}
	return out
}

// ConfigStore holds the live FieldConfig of each method.
type ConfigStore struct {
	mu      sync.RWMutex
	configs map[Method]FieldConfig
}

// NewConfigStore creates a store seeded with the given configs.
// Every supported method must be present and valid.
func NewConfigStore(configs map[Method]FieldConfig) (*ConfigStore, error) {
	s := &ConfigStore{configs: make(map[Method]FieldConfig, len(Methods))}
	for _, m := range Methods {
		c, ok := configs[m]
		if !ok {
			return nil, fmt.Errorf("missing field config for %s: %w", m, ErrInvalidConfig)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", m, err)
		}
		s.configs[m] = c.Clone()
	}
	return s, nil
}

// Lookup returns a copy of the config for m.
func (s *ConfigStore) Lookup(m Method) (FieldConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.configs[m]
	if !ok {
		return FieldConfig{}, &MethodError{Method: string(m)}
	}
	return c.Clone(), nil
}

// Get returns a copy of the config for m, or an empty config for an
// unsupported method.
func (s *ConfigStore) Get(m Method) FieldConfig {
	c, _ := s.Lookup(m)
	return c
}

// All returns a copy of every config keyed by lowercase method name.
func (s *ConfigStore) All() map[string]FieldConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]FieldConfig, len(s.configs))
	for m, c := range s.configs {
		out[m.Key()] = c.Clone()
	}
	return out
}

// Update applies patch to the config for m and returns the new config.
// An update that leaves ActualRequired without a documented required field
// is rejected and the stored config is unchanged.
func (s *ConfigStore) Update(m Method, patch ConfigPatch) (FieldConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.configs[m]
	if !ok {
		return FieldConfig{}, &MethodError{Method: string(m)}
	}
	next := patch.Apply(cur)
	if err := next.Validate(); err != nil {
		return FieldConfig{}, err
	}
	s.configs[m] = next
	return next.Clone(), nil
}
