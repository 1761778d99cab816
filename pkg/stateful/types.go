package stateful

// Record is a single stored JSON object.
type Record = map[string]any

// ErrorResponse represents an error returned from stateful operations.
type ErrorResponse struct {
	// Error is the error kind code
	Error string `json:"error"`
	// Message is a human-readable description
	Message string `json:"message"`
	// Resource is the collection name (if applicable)
	Resource string `json:"resource,omitempty"`
	// ID is the item ID (if applicable)
	ID string `json:"id,omitempty"`
	// StatusCode is the HTTP status code
	StatusCode int `json:"-"`
	// Hint provides a user-friendly suggestion for resolving the error
	Hint string `json:"hint,omitempty"`
	// Field is the specific field that caused a validation error
	Field string `json:"field,omitempty"`
}

// ResetResponse is returned after a state reset operation.
type ResetResponse struct {
	// Reset indicates success
	Reset bool `json:"reset"`
	// Resources lists the collections that were reset
	Resources []string `json:"resources"`
	// Message is a human-readable status message
	Message string `json:"message"`
}

// Overview summarizes every registered collection.
type Overview struct {
	Collections []string       `json:"collections"`
	Counts      map[string]int `json:"counts"`
	TotalItems  int            `json:"totalItems"`
}
