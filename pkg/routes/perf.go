package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/getmockd/perfstub/pkg/config"
	"github.com/getmockd/perfstub/pkg/discovery"
	"github.com/getmockd/perfstub/pkg/fixtures"
	"github.com/getmockd/perfstub/pkg/httputil"
)

const (
	defaultDelayMs       = 1000
	defaultPayloadItems  = 1000
	defaultCPULoad       = 100
	cpuIterationsPerLoad = 1_000_000
)

func (rt *Router) registerPerf() {
	const base = "/api/test"
	rt.mux.HandleFunc("GET "+base+"/simple", rt.handleSimple)
	rt.mux.HandleFunc("GET "+base+"/delay/{ms}", rt.handleDelay)
	rt.mux.HandleFunc("POST "+base+"/echo", rt.handleEcho)
	rt.mux.HandleFunc("GET "+base+"/largepayload/{size}", rt.handleLargePayload)
	rt.mux.HandleFunc("GET "+base+"/cpu/{load}", rt.handleCPU)
	rt.mux.HandleFunc("GET "+base+"/status/{code}", rt.handleStatus)
}

func (rt *Router) handleSimple(w http.ResponseWriter, r *http.Request) {
	httputil.Envelope(w, http.StatusOK, map[string]any{"message": "OK"})
}

// intParam parses a positive path value, capped at max. Anything else
// yields fallback.
func intParam(r *http.Request, name string, fallback, max int) int {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil || n <= 0 {
		n = fallback
	}
	if max > 0 && n > max {
		n = max
	}
	return n
}

func (rt *Router) handleDelay(w http.ResponseWriter, r *http.Request) {
	ms := intParam(r, "ms", defaultDelayMs, rt.perf.MaxDelayMs)
	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-r.Context().Done():
		return
	}
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Response after %dms delay", ms),
		"delay":   ms,
	})
}

func (rt *Router) handleEcho(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if rt.maxBody > 0 {
		body = http.MaxBytesReader(w, body, rt.maxBody)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	var echoed any = map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &echoed); err != nil {
			httputil.WriteBadRequest(w, discovery.KindInvalidJSON, "Request body must be valid JSON")
			return
		}
	}
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"message": "Echo response",
		"data":    echoed,
	})
}

func (rt *Router) handleLargePayload(w http.ResponseWriter, r *http.Request) {
	size := intParam(r, "size", defaultPayloadItems, rt.perf.MaxPayloadItems)
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Generated %d items", size),
		"count":   size,
		"data":    fixtures.RandomItems(size),
	})
}

func (rt *Router) handleCPU(w http.ResponseWriter, r *http.Request) {
	load := intParam(r, "load", defaultCPULoad, rt.perf.MaxCPULoad)
	load = min(load, config.MaxCPULoadLimit)
	ctx := r.Context()
	start := time.Now()

	var sum float64
	total := int64(load) * cpuIterationsPerLoad
	for i := int64(0); i < total; i++ {
		if i%cpuIterationsPerLoad == 0 && ctx.Err() != nil {
			return
		}
		sum += math.Sqrt(float64(i))
	}

	httputil.Envelope(w, http.StatusOK, map[string]any{
		"message":       "Completed CPU-intensive operation",
		"executionTime": time.Since(start).Milliseconds(),
		"load":          load,
		"result":        sum,
	})
}

// handleStatus replies with the requested code. Codes outside 200-599
// fall back to 200.
func (rt *Router) handleStatus(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(r.PathValue("code"))
	if err != nil || code < 200 || code > 599 {
		code = http.StatusOK
	}
	httputil.Envelope(w, code, map[string]any{
		"message": fmt.Sprintf("Responding with status code %d", code),
		"status":  code,
	})
}
