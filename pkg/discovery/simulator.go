package discovery

import "strings"

// Simulator stands in for a backend that enforces the actualRequired
// fields of the current config.
type Simulator struct {
	configs *ConfigStore
}

// NewSimulator creates a simulator reading from configs.
func NewSimulator(configs *ConfigStore) *Simulator {
	return &Simulator{configs: configs}
}

// Validate checks body against the fields actually required for m.
// Missing fields are reported in actualRequired order.
func (s *Simulator) Validate(m Method, body map[string]any) ValidationResult {
	missing := FindMissingFields(body, s.configs.Get(m).ActualRequired)
	if len(missing) > 0 {
		return ValidationResult{
			Success:       false,
			Error:         KindMissingFields,
			MissingFields: missing,
			Message:       "Missing required fields: " + strings.Join(missing, ", "),
		}
	}
	return ValidationResult{Success: true, Message: "Request would succeed"}
}
