package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"

	"github.com/getmockd/perfstub/pkg/config"
	"github.com/getmockd/perfstub/pkg/discovery"
	"github.com/getmockd/perfstub/pkg/httputil"
)

var fieldDescriptions = map[string]string{
	"documentedRequired":    "Fields that are documented as required in the API specification",
	"documentedOptional":    "Fields that are documented as optional in the API specification",
	"potentialUndocumented": "Fields that might exist but are not documented in the API spec",
	"actualRequired":        "Fields that are actually required by the backend (including undocumented ones)",
}

var phaseDescriptions = map[string]string{
	"phase1": "Test with only documented required fields",
	"phase2": "Add documented optional fields one by one",
	"phase3": "Test potential undocumented fields",
	"phase4": "Test minimum required undocumented field combinations",
	"phase5": "Test remaining fields as optional",
}

func (c *Catalog) handleDiscoveryResults(w http.ResponseWriter, r *http.Request) {
	results := c.engine.Results().All()
	summary := make(map[string]methodSummary, len(results))
	for key, report := range results {
		summary[key] = summarize(report, true)
	}
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"message":       "Comprehensive field discovery test results",
		"results":       results,
		"configuration": c.engine.Configs().All(),
		"summary":       summary,
	})
}

func (c *Catalog) handleMethodResults(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("method")
	m, err := discovery.ParseMethod(raw)
	if err != nil {
		writeInvalidMethod(w,
			fmt.Sprintf("Method '%s' not found. Available methods: %s", raw, joinFields(methodKeys())),
			methodKeys())
		return
	}

	report := c.engine.Results().Get(m).Snapshot()
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"message":                        "Detailed field discovery results for " + string(m),
		"method":                         m,
		"status":                         report.Status,
		"totalTests":                     len(report.TestSequence),
		"discoveredUndocumentedRequired": report.DiscoveredUndocumentedRequired,
		"discoveredUndocumentedOptional": report.DiscoveredUndocumentedOptional,
		"completedAt":                    report.CompletedAt,
		"testSequence":                   report.TestSequence,
		"phaseBreakdown":                 report.PhaseCounts(),
	})
}

type methodRequest struct {
	Method string `json:"method"`
}

func (c *Catalog) handleReset(w http.ResponseWriter, r *http.Request) {
	var req methodRequest
	if err := httputil.Decode(w, r, c.maxBody, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	raw := strings.TrimSpace(req.Method)
	if raw == "" || strings.EqualFold(raw, "all") {
		reset := c.engine.Results().ResetAll()
		keys := make([]string, len(reset))
		for i, m := range reset {
			keys[i] = m.Key()
		}
		c.log.Info("discovery results reset", "methods", keys)
		httputil.Envelope(w, http.StatusOK, map[string]any{
			"message":      "All field discovery test results reset successfully",
			"resetMethods": keys,
		})
		return
	}

	available := append(methodKeys(), "all")
	m, err := discovery.ParseMethod(raw)
	if err == nil {
		err = c.engine.Results().Reset(m)
	}
	if err != nil {
		writeInvalidMethod(w,
			fmt.Sprintf("Method '%s' not found. Available methods: %s", raw, joinFields(available)),
			available)
		return
	}
	c.log.Info("discovery results reset", "method", m)
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("Field discovery test results for %s reset successfully", m),
		"resetMethod": m,
	})
}

type runRequest struct {
	Method   string         `json:"method"`
	TestData map[string]any `json:"testData"`
}

func (c *Catalog) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := httputil.Decode(w, r, c.maxBody, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	m, err := discovery.ParseMethod(req.Method)
	if err != nil {
		writeInvalidMethod(w, "Please specify a valid method (post or put) in the request body", methodKeys())
		return
	}
	if req.TestData == nil {
		req.TestData = map[string]any{}
	}

	report, err := c.run(m, req.TestData)
	if err != nil {
		c.log.Error("field discovery run failed", "method", m, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, discovery.KindDiscoveryRunFailed,
			"Field discovery testing failed: "+err.Error())
		return
	}
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"message": "Field discovery testing completed for " + string(m),
		"method":  m,
		"results": report,
		"summary": summarize(report, false),
	})
}

// run executes a manual discovery pass, turning a panic into an error.
func (c *Catalog) run(m discovery.Method, body map[string]any) (report discovery.Report, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
		}
	}()
	res, err := c.engine.Discover(m, body)
	if err != nil {
		return discovery.Report{}, err
	}
	return res.Snapshot(), nil
}

func (c *Catalog) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"message":       "Field discovery configuration",
		"configuration": c.engine.Configs().All(),
		"description":   fieldDescriptions,
		"testingPhases": phaseDescriptions,
	})
}

func (c *Catalog) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	doc, ok := c.decode(w, r)
	if !ok {
		return
	}

	raw, _ := doc["method"].(string)
	m, err := discovery.ParseMethod(raw)
	if err != nil {
		writeInvalidMethod(w, "Please specify a valid method (post or put)", methodKeys())
		return
	}
	if err := config.ValidateConfigUpdate(doc); err != nil {
		writeConfigError(w, err)
		return
	}

	var patch discovery.ConfigPatch
	if cfg, ok := doc["config"]; ok {
		data, err := json.Marshal(cfg)
		if err == nil {
			err = json.Unmarshal(data, &patch)
		}
		if err != nil {
			httputil.WriteBadRequest(w, discovery.KindInvalidJSON, "config must be an object of field lists")
			return
		}
	}

	updated, err := c.engine.Configs().Update(m, patch)
	if err != nil {
		writeConfigError(w, err)
		return
	}
	c.log.Info("field discovery configuration updated", "method", m)
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"message":       "Field discovery configuration updated for " + string(m),
		"method":        m,
		"updatedConfig": updated,
	})
}

func writeConfigError(w http.ResponseWriter, err error) {
	var schemaErr *config.SchemaError
	if errors.As(err, &schemaErr) {
		httputil.WriteErrorWithDetails(w, http.StatusBadRequest, discovery.KindInvalidConfig,
			"Configuration update does not match the expected schema",
			map[string]any{"violations": schemaErr.Violations})
		return
	}
	httputil.WriteBadRequest(w, discovery.KindInvalidConfig, err.Error())
}

type simulateRequest struct {
	Method      string         `json:"method"`
	RequestBody map[string]any `json:"requestBody"`
}

func (c *Catalog) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := httputil.Decode(w, r, c.maxBody, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	m, err := discovery.ParseMethod(req.Method)
	if err != nil {
		writeInvalidMethod(w, "Please specify a valid method (post or put) in the request body", methodKeys())
		return
	}
	if req.RequestBody == nil {
		req.RequestBody = map[string]any{}
	}

	cfg := c.engine.Configs().Get(m)
	result := c.engine.Simulator().Validate(m, req.RequestBody)

	provided := make([]string, 0, len(req.RequestBody))
	var extra []string
	for k := range req.RequestBody {
		provided = append(provided, k)
		if !slices.Contains(cfg.ActualRequired, k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(provided)
	sort.Strings(extra)
	missing := discovery.FindMissingFields(req.RequestBody, cfg.ActualRequired)

	httputil.Envelope(w, http.StatusOK, map[string]any{
		"message":       "Backend simulation for " + string(m),
		"method":        m,
		"requestBody":   req.RequestBody,
		"backendResult": result,
		"configuration": cfg,
		"analysis": map[string]any{
			"providedFields": provided,
			"requiredFields": cfg.ActualRequired,
			"missingFields":  nonNil(missing),
			"extraFields":    nonNil(extra),
		},
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
