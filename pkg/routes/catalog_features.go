package routes

import (
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/getmockd/perfstub/pkg/discovery"
	"github.com/getmockd/perfstub/pkg/httputil"
	"github.com/getmockd/perfstub/pkg/stateful"
)

const (
	defaultQuantity  = 1.0
	defaultBasePrice = 10.0
	serverHeader     = "TestEndpoints/1.0"
)

// handleOrder prices an order with a random cost elevation after a random
// delay. The server owns orderDate.
func (c *Catalog) handleOrder(w http.ResponseWriter, r *http.Request) {
	body, ok := c.decode(w, r)
	if !ok {
		return
	}
	if v, ok := body["orderDate"]; ok && !discovery.IsMissing(v) {
		httputil.Envelope(w, http.StatusBadRequest, map[string]any{
			"status":     http.StatusBadRequest,
			"statusText": "Bad Request",
			"error":      "Client-provided orderDate is not allowed. Server will generate the timestamp.",
		})
		return
	}

	order := map[string]any{
		"id":        valueOr(body, "id", rand.IntN(1000)),
		"itemId":    itemID(body),
		"quantity":  positiveOr(body["quantity"], defaultQuantity),
		"orderDate": time.Now().UTC().Format(httputil.TimeFormat),
		"status":    valueOr(body, "status", "pending"),
		"complete":  valueOr(body, "complete", false),
		"basePrice": positiveOr(body["basePrice"], defaultBasePrice),
	}
	factor := 1 + rand.Float64()
	cost := order["quantity"].(float64) * order["basePrice"].(float64) * factor

	if c.orderDelay > 0 {
		delay := time.Duration(rand.Int64N(int64(c.orderDelay)))
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	data := make(map[string]any, len(order)+3)
	for k, v := range order {
		data[k] = v
	}
	data["calculatedCost"] = strconv.FormatFloat(cost, 'f', 2, 64)
	data["processingTime"] = rand.IntN(1000)
	data["costElevationFactor"] = strconv.FormatFloat(factor, 'f', 2, 64)

	w.Header().Set("Server", serverHeader)
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status":     http.StatusOK,
		"statusText": "OK",
		"headers": map[string]string{
			"content-type": "application/json",
			"server":       serverHeader,
		},
		"data": data,
	})
}

// itemID reads itemId, falling back to the legacy foodId key.
func itemID(body map[string]any) any {
	for _, k := range []string{"itemId", "foodId"} {
		if v, ok := body[k]; ok && !discovery.IsMissing(v) {
			return v
		}
	}
	return nil
}

func valueOr(body map[string]any, key string, fallback any) any {
	if v, ok := body[key]; ok && !discovery.IsMissing(v) {
		return v
	}
	return fallback
}

// positiveOr returns v as a float when it is a positive number.
func positiveOr(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return n
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

// handleFindByStatus accepts repeated and comma-separated status values.
func (c *Catalog) handleFindByStatus(w http.ResponseWriter, r *http.Request) {
	var statuses []string
	for _, v := range r.URL.Query()["status"] {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
	}
	if len(statuses) == 0 {
		httputil.WriteBadRequest(w, "MISSING_QUERY_PARAMETER", "Status parameter is required")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c.coll.Filter(stateful.FieldIn("status", statuses...)))
}

func (c *Catalog) handleInventory(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, stateful.SumBy(c.coll.List(), "status", "available", "stock"))
}
