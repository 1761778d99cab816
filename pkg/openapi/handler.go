package openapi

import (
	"encoding/json"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/perfstub/pkg/httputil"
)

// Source builds the current document. It is called once per request so the
// document follows live field config updates.
type Source func() *openapi3.T

// JSONHandler serves the document as JSON.
func JSONHandler(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, src())
	}
}

// YAMLHandler serves the document as YAML.
func YAMLHandler(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := ToYAML(src())
		if err != nil {
			httputil.WriteInternalError(w, "OPENAPI_ENCODING_FAILED", err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// ToYAML encodes doc as YAML through its JSON form, so the output uses the
// same field names and omissions as the JSON document.
func ToYAML(doc *openapi3.T) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return yaml.Marshal(tree)
}
