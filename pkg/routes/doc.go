// Package routes mounts every perfstub HTTP endpoint on a ServeMux.
//
// The discovery-enabled catalogs (foodstore, medstore and any catalog
// declared in config) share one implementation, Catalog, parameterized by
// their field configs. Every write through a catalog runs a full discovery
// pass before the body is checked against the catalog's field policy:
// undocumented fields are rejected first, then missing required fields, and
// only then is the record stored.
//
// The remaining endpoints are fixtures for API testing tools: sorting
// quirks, echo endpoints, load generators, basic auth and test tokens.
package routes
