package discovery

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/getmockd/perfstub/pkg/httputil"
)

// Method is a write method that goes through field discovery.
type Method string

// Supported methods.
const (
	MethodPOST Method = "POST"
	MethodPUT  Method = "PUT"
)

// Methods lists the supported methods in report order.
var Methods = []Method{MethodPOST, MethodPUT}

// ParseMethod parses a method name in any case.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToUpper(strings.TrimSpace(s))) {
	case MethodPOST:
		return MethodPOST, nil
	case MethodPUT:
		return MethodPUT, nil
	}
	return "", &MethodError{Method: s}
}

// Key returns the lowercase name used as a key in JSON reports.
func (m Method) Key() string {
	return strings.ToLower(string(m))
}

// Status is the lifecycle state of a Result.
type Status string

// Result states.
const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusRunning    Status = "RUNNING"
	StatusCompleted  Status = "COMPLETED"
)

// FieldConfig describes the fields of one write method.
type FieldConfig struct {
	// DocumentedRequired are required by the published schema.
	DocumentedRequired []string `json:"documentedRequired" yaml:"documentedRequired"`
	// DocumentedOptional are optional in the published schema.
	DocumentedOptional []string `json:"documentedOptional" yaml:"documentedOptional"`
	// PotentialUndocumented are the candidates probed in phases 3 and 5.
	PotentialUndocumented []string `json:"potentialUndocumented" yaml:"potentialUndocumented"`
	// ActualRequired is what the simulated backend enforces.
	// It must contain every DocumentedRequired field.
	ActualRequired []string `json:"actualRequired" yaml:"actualRequired"`
}

// Clone returns a deep copy with non-nil lists.
func (c FieldConfig) Clone() FieldConfig {
	return FieldConfig{
		DocumentedRequired:    cloneList(c.DocumentedRequired),
		DocumentedOptional:    cloneList(c.DocumentedOptional),
		PotentialUndocumented: cloneList(c.PotentialUndocumented),
		ActualRequired:        cloneList(c.ActualRequired),
	}
}

// Documented returns the documented required fields followed by the
// documented optional ones.
func (c FieldConfig) Documented() []string {
	out := make([]string, 0, len(c.DocumentedRequired)+len(c.DocumentedOptional))
	out = append(out, c.DocumentedRequired...)
	return append(out, c.DocumentedOptional...)
}

// Validate checks that ActualRequired covers DocumentedRequired.
func (c FieldConfig) Validate() error {
	var missing []string
	for _, f := range c.DocumentedRequired {
		if !slices.Contains(c.ActualRequired, f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &ConfigError{Reason: "actualRequired must include documented required fields: " + strings.Join(missing, ", ")}
	}
	return nil
}

// ValidationResult is the simulated backend's verdict on a request body.
type ValidationResult struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
	Message       string   `json:"message"`
}

// Attempt is one simulated request made during a discovery run.
type Attempt struct {
	Phase         int              `json:"phase"`
	Description   string           `json:"description"`
	RequestBody   map[string]any   `json:"requestBody"`
	BackendResult ValidationResult `json:"backendResult"`
	Timestamp     time.Time        `json:"timestamp"`
}

// Report is a point-in-time copy of a Result.
type Report struct {
	TestSequence                   []Attempt  `json:"testSequence"`
	DiscoveredUndocumentedRequired []string   `json:"discoveredUndocumentedRequired"`
	DiscoveredUndocumentedOptional []string   `json:"discoveredUndocumentedOptional"`
	CompletedAt                    *time.Time `json:"completedAt"`
	Status                         Status     `json:"status"`
}

// MarshalJSON encodes the timestamp in the envelope time format.
func (a Attempt) MarshalJSON() ([]byte, error) {
	type attempt Attempt
	return json.Marshal(struct {
		attempt
		Timestamp string `json:"timestamp"`
	}{attempt(a), a.Timestamp.UTC().Format(httputil.TimeFormat)})
}

// MarshalJSON encodes completedAt in the envelope time format, or null.
func (r Report) MarshalJSON() ([]byte, error) {
	type report Report
	var completed *string
	if r.CompletedAt != nil {
		s := r.CompletedAt.UTC().Format(httputil.TimeFormat)
		completed = &s
	}
	return json.Marshal(struct {
		report
		CompletedAt *string `json:"completedAt"`
	}{report(r), completed})
}

// PhaseCounts returns how many attempts each phase produced, keyed
// phase1 through phase5.
func (r Report) PhaseCounts() map[string]int {
	counts := map[string]int{"phase1": 0, "phase2": 0, "phase3": 0, "phase4": 0, "phase5": 0}
	for _, a := range r.TestSequence {
		key := "phase" + strconv.Itoa(a.Phase)
		if _, ok := counts[key]; ok {
			counts[key]++
		}
	}
	return counts
}

// LastAttempt returns the most recent attempt, or nil for an empty run.
func (r Report) LastAttempt() *Attempt {
	if len(r.TestSequence) == 0 {
		return nil
	}
	a := r.TestSequence[len(r.TestSequence)-1]
	return &a
}

// IsMissing reports whether a body value counts as not provided.
// Null and the empty string are missing, like an absent key.
func IsMissing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func cloneList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneBody(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
