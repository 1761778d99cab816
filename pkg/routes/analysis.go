package routes

import (
	"slices"

	"github.com/getmockd/perfstub/pkg/discovery"
)

// testSummary condenses one attempt.
type testSummary struct {
	Phase       int     `json:"phase"`
	Description string  `json:"description"`
	Success     bool    `json:"success"`
	Error       *string `json:"error"`
}

// analysis is the detailedAnalysis block of catalog write responses.
type analysis struct {
	TotalTestsPerformed            int           `json:"totalTestsPerformed"`
	DiscoveredUndocumentedRequired []string      `json:"discoveredUndocumentedRequired"`
	DiscoveredUndocumentedOptional []string      `json:"discoveredUndocumentedOptional"`
	RecommendedAction              string        `json:"recommendedAction,omitempty"`
	TestSummary                    []testSummary `json:"testSummary,omitempty"`
	Conclusion                     string        `json:"conclusion,omitempty"`
}

const successConclusion = "Request succeeded with all required fields (including undocumented ones)"

func newAnalysis(r discovery.Report) analysis {
	return analysis{
		TotalTestsPerformed:            len(r.TestSequence),
		DiscoveredUndocumentedRequired: r.DiscoveredUndocumentedRequired,
		DiscoveredUndocumentedOptional: r.DiscoveredUndocumentedOptional,
	}
}

func (a analysis) withSummary(r discovery.Report) analysis {
	a.TestSummary = make([]testSummary, len(r.TestSequence))
	for i, t := range r.TestSequence {
		s := testSummary{Phase: t.Phase, Description: t.Description, Success: t.BackendResult.Success}
		if t.BackendResult.Error != "" {
			e := t.BackendResult.Error
			s.Error = &e
		}
		a.TestSummary[i] = s
	}
	return a
}

// recommend names the discovered undocumented required fields the request
// is still missing. Nothing is recommended when there are none.
func (a analysis) recommend(missing []string) analysis {
	var add []string
	for _, f := range a.DiscoveredUndocumentedRequired {
		if slices.Contains(missing, f) {
			add = append(add, f)
		}
	}
	if len(add) > 0 {
		a.RecommendedAction = "Add these undocumented required fields: " + joinFields(add)
	}
	return a
}

// methodSummary is the per-method block of the discovery overview.
type methodSummary struct {
	Status                         discovery.Status   `json:"status"`
	TotalTests                     int                `json:"totalTests"`
	DiscoveredUndocumentedRequired []string           `json:"discoveredUndocumentedRequired"`
	DiscoveredUndocumentedOptional []string           `json:"discoveredUndocumentedOptional"`
	CompletedAt                    any                `json:"completedAt"`
	LastTestResult                 *discovery.Attempt `json:"lastTestResult,omitempty"`
}

func summarize(r discovery.Report, withLast bool) methodSummary {
	s := methodSummary{
		Status:                         r.Status,
		TotalTests:                     len(r.TestSequence),
		DiscoveredUndocumentedRequired: r.DiscoveredUndocumentedRequired,
		DiscoveredUndocumentedOptional: r.DiscoveredUndocumentedOptional,
	}
	if r.CompletedAt != nil {
		s.CompletedAt = r.CompletedAt
	}
	if withLast {
		s.LastTestResult = r.LastAttempt()
	}
	return s
}
