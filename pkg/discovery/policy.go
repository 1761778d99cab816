package discovery

import (
	"slices"
	"sort"
)

// FindUndocumentedFields returns the body keys not in allowed, sorted.
func FindUndocumentedFields(body map[string]any, allowed []string) []string {
	var out []string
	for k := range body {
		if !slices.Contains(allowed, k) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// FindMissingFields returns the required fields that are absent, null or
// empty in body, in required order.
func FindMissingFields(body map[string]any, required []string) []string {
	var out []string
	for _, f := range required {
		if v, ok := body[f]; !ok || IsMissing(v) {
			out = append(out, f)
		}
	}
	return out
}

// Policy is the set of field rules a write handler enforces.
type Policy struct {
	// Allowed are the keys a body may carry.
	Allowed []string
	// Required must be present and non-empty.
	Required []string
}

// PolicyFor derives the write policy of a method config. A body may carry
// the documented fields plus the undocumented fields the backend requires.
func PolicyFor(c FieldConfig) Policy {
	allowed := c.Documented()
	for _, f := range c.ActualRequired {
		if !slices.Contains(allowed, f) {
			allowed = append(allowed, f)
		}
	}
	return Policy{
		Allowed:  allowed,
		Required: cloneList(c.ActualRequired),
	}
}

// PatchPolicyFor derives the PATCH policy: only documented fields of the
// PUT config may be sent and none are required.
func PatchPolicyFor(put FieldConfig) Policy {
	return Policy{Allowed: put.Documented(), Required: []string{}}
}

// Undocumented returns the body keys the policy does not allow.
func (p Policy) Undocumented(body map[string]any) []string {
	return FindUndocumentedFields(body, p.Allowed)
}

// Missing returns the required fields body lacks.
func (p Policy) Missing(body map[string]any) []string {
	return FindMissingFields(body, p.Required)
}
