package routes

import (
	"net/http"
	"strconv"

	"github.com/getmockd/perfstub/pkg/fixtures"
	"github.com/getmockd/perfstub/pkg/httputil"
)

func (rt *Router) registerFixtures() {
	rt.mux.HandleFunc("GET /api/users", rt.handleUsers)
	rt.mux.HandleFunc("GET /api/products", rt.handleProducts)
	rt.mux.HandleFunc("PUT /api/products/{id}", rt.handleUpdateProduct)
	rt.mux.HandleFunc("GET /api/tasks", rt.handleTasks)
	rt.mux.HandleFunc("GET /api/orders", rt.handleOrders)
}

func (rt *Router) handleUsers(w http.ResponseWriter, r *http.Request) {
	users := fixtures.SortUsers(fixtures.Users(), r.URL.Query().Get("sort"))
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status": "success",
		"count":  len(users),
		"data":   users,
	})
}

func (rt *Router) handleProducts(w http.ResponseWriter, r *http.Request) {
	products := fixtures.SortProducts(fixtures.Products(), r.URL.Query().Get("sortBy"))
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status": "success",
		"count":  len(products),
		"data":   products,
	})
}

func (rt *Router) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var u fixtures.ProductUpdate
	if err := httputil.Decode(w, r, rt.maxBody, &u); err != nil || !u.Complete() {
		httputil.Envelope(w, http.StatusBadRequest, map[string]any{
			"status":  "fail",
			"message": "Missing required fields: name, price, and category are all required",
		})
		return
	}
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status": "success",
		"data": map[string]any{
			"id":       numericID(r.PathValue("id")),
			"name":     u.Name,
			"price":    u.Price,
			"category": u.Category,
		},
	})
}

func (rt *Router) handleTasks(w http.ResponseWriter, r *http.Request) {
	order := r.URL.Query().Get("order")
	tasks := fixtures.SortTasks(fixtures.Tasks(), order)
	requested := order
	if requested == "" {
		requested = "none"
	}
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status":         "success",
		"count":          len(tasks),
		"data":           tasks,
		"requestedOrder": requested,
	})
}

// handleOrders ignores the requested sort and only echoes it.
func (rt *Router) handleOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orders := fixtures.Orders()
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status": "success",
		"count":  len(orders),
		"data":   orders,
		"requestedSort": map[string]string{
			"sortField": orNone(q.Get("sortField")),
			"sortOrder": orNone(q.Get("sortOrder")),
		},
	})
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// numericID returns s as an integer when it is one.
func numericID(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}
