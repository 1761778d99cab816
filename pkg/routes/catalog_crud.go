package routes

import (
	"errors"
	"net/http"

	"github.com/getmockd/perfstub/pkg/discovery"
	"github.com/getmockd/perfstub/pkg/httputil"
	"github.com/getmockd/perfstub/pkg/stateful"
)

func (c *Catalog) handleList(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, c.coll.List())
}

func (c *Catalog) handleGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("id")
	rec, err := c.coll.Get(key)
	if err != nil {
		c.writeNotFound(w, key, err)
		return
	}
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"message": c.msg("Retrieved item by ID"),
		"id":      key,
		"data":    rec,
	})
}

func (c *Catalog) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, ok := c.decode(w, r)
	if !ok {
		return
	}
	report, ok := c.checkWrite(w, discovery.MethodPOST, body)
	if !ok {
		return
	}

	key, rec := c.coll.Create(body)
	c.log.Info("record created", "id", key)
	httputil.Envelope(w, http.StatusCreated, map[string]any{
		"id":                    key,
		"message":               c.msg("Created successfully"),
		"data":                  rec,
		"fieldDiscoveryResults": report,
		"detailedAnalysis":      c.successAnalysis(report),
	})
}

func (c *Catalog) handleReplace(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("id")
	body, ok := c.decode(w, r)
	if !ok {
		return
	}
	report, ok := c.checkWrite(w, discovery.MethodPUT, body)
	if !ok {
		return
	}

	rec, created := c.coll.Replace(key, body)
	c.log.Info("record replaced", "id", key, "created", created)
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"id":                    key,
		"message":               c.msg("Updated successfully with PUT"),
		"data":                  rec,
		"fieldDiscoveryResults": report,
		"detailedAnalysis":      c.successAnalysis(report),
	})
}

func (c *Catalog) handlePatch(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("id")
	body, ok := c.decode(w, r)
	if !ok {
		return
	}

	policy := discovery.PatchPolicyFor(c.engine.Configs().Get(discovery.MethodPUT))
	if undocumented := policy.Undocumented(body); len(undocumented) > 0 {
		httputil.WriteErrorWithDetails(w, http.StatusBadRequest, discovery.KindUndocumentedFields,
			"The following fields are not documented in the API specification: "+joinFields(undocumented),
			map[string]any{"undocumentedFields": undocumented})
		return
	}

	rec, created := c.coll.Patch(key, body)
	c.log.Info("record patched", "id", key, "created", created)
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"id":      key,
		"message": c.msg("Updated successfully with PATCH"),
		"data":    rec,
	})
}

func (c *Catalog) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("id")
	if err := c.coll.Delete(key); err != nil {
		c.writeNotFound(w, key, err)
		return
	}
	c.log.Info("record deleted", "id", key)
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"id":      key,
		"message": c.msg("Deleted successfully"),
	})
}

// checkWrite runs discovery for m and then applies the write policy of m to
// body. It writes the 400 response and returns false when the body is
// rejected.
func (c *Catalog) checkWrite(w http.ResponseWriter, m discovery.Method, body map[string]any) (discovery.Report, bool) {
	res, err := c.engine.Discover(m, body)
	if err != nil {
		httputil.WriteInternalError(w, discovery.KindDiscoveryRunFailed, err.Error())
		return discovery.Report{}, false
	}
	report := res.Snapshot()
	policy := discovery.PolicyFor(c.engine.Configs().Get(m))

	if undocumented := policy.Undocumented(body); len(undocumented) > 0 {
		c.log.Info("rejected undocumented fields", "method", m, "fields", undocumented)
		httputil.WriteErrorWithDetails(w, http.StatusBadRequest, discovery.KindUndocumentedFields,
			"The following fields are not documented in the API specification: "+joinFields(undocumented),
			map[string]any{
				"undocumentedFields":    undocumented,
				"fieldDiscoveryResults": report,
				"detailedAnalysis":      newAnalysis(report).withSummary(report),
			})
		return report, false
	}

	if missing := policy.Missing(body); len(missing) > 0 {
		c.log.Info("rejected missing required fields", "method", m, "fields", missing)
		httputil.WriteErrorWithDetails(w, http.StatusBadRequest, discovery.KindMissingFields,
			"The following required fields are missing: "+joinFields(missing),
			map[string]any{
				"missingFields":         missing,
				"fieldDiscoveryResults": report,
				"detailedAnalysis":      newAnalysis(report).withSummary(report).recommend(missing),
			})
		return report, false
	}
	return report, true
}

func (c *Catalog) successAnalysis(report discovery.Report) analysis {
	a := newAnalysis(report)
	a.Conclusion = successConclusion
	return a
}

func (c *Catalog) writeNotFound(w http.ResponseWriter, key string, err error) {
	var nf *stateful.NotFoundError
	if !errors.As(err, &nf) {
		httputil.WriteInternalError(w, "INTERNAL_ERROR", err.Error())
		return
	}
	httputil.WriteErrorWithDetails(w, http.StatusNotFound, discovery.KindNotFound, c.msg("Item not found"),
		map[string]any{"id": key})
}
