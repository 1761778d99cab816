package routes

import (
	"net/http"

	"github.com/getmockd/perfstub/pkg/httputil"
)

// The remediation routes accept anything and echo it back.
func (rt *Router) registerRemediation() {
	const base = "/api/remediation"
	for _, root := range []string{base, base + "/{$}"} {
		rt.mux.HandleFunc("GET "+root, rt.remediationReply(http.StatusOK, "Retrieved successfully", false))
		rt.mux.HandleFunc("POST "+root, rt.remediationReply(http.StatusCreated, "Created successfully", true))
	}
	rt.mux.HandleFunc("GET "+base+"/{id}", rt.remediationReply(http.StatusOK, "Retrieved item by ID", false))
	rt.mux.HandleFunc("PUT "+base+"/{id}", rt.remediationReply(http.StatusOK, "Updated successfully with PUT", true))
	rt.mux.HandleFunc("PATCH "+base+"/{id}", rt.remediationReply(http.StatusOK, "Updated successfully with PATCH", true))
	rt.mux.HandleFunc("DELETE "+base+"/{id}", rt.remediationReply(http.StatusOK, "Deleted successfully", false))
}

func (rt *Router) remediationReply(status int, message string, withBody bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"message": message}
		if key := r.PathValue("id"); key != "" {
			resp["id"] = key
		}
		if withBody {
			body, err := httputil.DecodeObject(w, r, rt.maxBody)
			if err != nil {
				writeDecodeError(w, err)
				return
			}
			resp["data"] = body
		}
		httputil.Envelope(w, status, resp)
	}
}
