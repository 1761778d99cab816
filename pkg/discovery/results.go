package discovery

import (
	"encoding/json"
	"slices"
	"sync"
	"time"
)

// Result is the shared discovery record of one method.
// Every run resets it in place, so holders of a *Result always see the
// latest run. Use Snapshot for a stable copy.
type Result struct {
	mu     sync.Mutex
	report Report
}

func newResult() *Result {
	r := &Result{}
	r.reset(StatusNotStarted)
	return r
}

// Snapshot returns a deep copy of the current record.
func (r *Result) Snapshot() Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq := make([]Attempt, len(r.report.TestSequence))
	for i, a := range r.report.TestSequence {
		a.RequestBody = cloneBody(a.RequestBody)
		a.BackendResult.MissingFields = slices.Clone(a.BackendResult.MissingFields)
		seq[i] = a
	}
	out := Report{
		TestSequence:                   seq,
		DiscoveredUndocumentedRequired: cloneList(r.report.DiscoveredUndocumentedRequired),
		DiscoveredUndocumentedOptional: cloneList(r.report.DiscoveredUndocumentedOptional),
		Status:                         r.report.Status,
	}
	if r.report.CompletedAt != nil {
		t := *r.report.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// MarshalJSON encodes the current record.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Snapshot())
}

func (r *Result) reset(status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report = Report{
		TestSequence:                   []Attempt{},
		DiscoveredUndocumentedRequired: []string{},
		DiscoveredUndocumentedOptional: []string{},
		Status:                         status,
	}
}

func (r *Result) record(a Attempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.TestSequence = append(r.report.TestSequence, a)
}

func (r *Result) addRequired(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.report.DiscoveredUndocumentedRequired, field) {
		r.report.DiscoveredUndocumentedRequired = append(r.report.DiscoveredUndocumentedRequired, field)
	}
}

func (r *Result) addOptional(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.DiscoveredUndocumentedOptional = append(r.report.DiscoveredUndocumentedOptional, field)
}

func (r *Result) complete(at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.CompletedAt = &at
	r.report.Status = StatusCompleted
}

// ResultStore owns one Result per supported method.
type ResultStore struct {
	results map[Method]*Result
}

// NewResultStore creates a store with every method NOT_STARTED.
func NewResultStore() *ResultStore {
	s := &ResultStore{results: make(map[Method]*Result, len(Methods))}
	for _, m := range Methods {
		s.results[m] = newResult()
	}
	return s
}

// Get returns the shared Result for m, or nil for an unsupported method.
func (s *ResultStore) Get(m Method) *Result {
	return s.results[m]
}

// Reset restores the empty NOT_STARTED record for m.
func (s *ResultStore) Reset(m Method) error {
	r, ok := s.results[m]
	if !ok {
		return &MethodError{Method: string(m)}
	}
	r.reset(StatusNotStarted)
	return nil
}

// ResetAll resets every method and returns their names.
func (s *ResultStore) ResetAll() []Method {
	for _, m := range Methods {
		s.results[m].reset(StatusNotStarted)
	}
	return slices.Clone(Methods)
}

// All returns a snapshot of every record keyed by lowercase method name.
func (s *ResultStore) All() map[string]Report {
	out := make(map[string]Report, len(s.results))
	for m, r := range s.results {
		out[m.Key()] = r.Snapshot()
	}
	return out
}
