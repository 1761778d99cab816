package cli

import "errors"

// Common CLI errors
var (
	ErrBackendRejected = errors.New("simulated backend rejected the request body")
	ErrUnknownCatalog  = errors.New("unknown catalog")
)
