package routes

import (
	"net/http"

	"github.com/getmockd/perfstub/internal/id"
	"github.com/getmockd/perfstub/pkg/httputil"
)

const patientIDDigits = 6

func (rt *Router) registerPatient() {
	const base = "/api/patient/history/record"
	rt.mux.HandleFunc("GET "+base, rt.handlePatientRecord)
	rt.mux.HandleFunc("POST "+base+"/modify", rt.handlePatientCreate)
	rt.mux.HandleFunc("DELETE "+base+"/modify/{id}", rt.handlePatientDelete)
	rt.mux.HandleFunc("PUT "+base+"/update/{id}", rt.handlePatientUpdate)
	rt.mux.HandleFunc("PATCH "+base+"/update/modify/{id}", rt.handlePatientPatch)
}

func (rt *Router) handlePatientRecord(w http.ResponseWriter, r *http.Request) {
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status": "success",
		"id":     id.Digits(patientIDDigits),
	})
}

func (rt *Router) handlePatientCreate(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.DecodeObject(w, r, rt.maxBody)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status": "success",
		"id":     id.Digits(patientIDDigits),
		"data":   body,
	})
}

func (rt *Router) handlePatientDelete(w http.ResponseWriter, r *http.Request) {
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status":  "success",
		"deleted": r.PathValue("id"),
	})
}

func (rt *Router) handlePatientUpdate(w http.ResponseWriter, r *http.Request) {
	rt.patientEcho(w, r, "updated")
}

func (rt *Router) handlePatientPatch(w http.ResponseWriter, r *http.Request) {
	rt.patientEcho(w, r, "patched")
}

func (rt *Router) patientEcho(w http.ResponseWriter, r *http.Request, key string) {
	body, err := httputil.DecodeObject(w, r, rt.maxBody)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status": "success",
		"id":     r.PathValue("id"),
		key:      body,
	})
}
