package stateful

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kind codes used in ErrorResponse.
const (
	KindNotFound   = "RESOURCE_NOT_FOUND"
	KindValidation = "VALIDATION_FAILED"
	KindInternal   = "INTERNAL_ERROR"
)

// NotFoundError reports an unknown collection, or an unknown id within one.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("collection %q not found", e.Resource)
	}
	return fmt.Sprintf("item %q not found in %q", e.ID, e.Resource)
}

// StatusCode returns 404.
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// ValidationError reports a rejected registration or input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// StatusCode returns 400.
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// ToErrorResponse maps err, possibly wrapped, to an ErrorResponse.
func ToErrorResponse(err error) *ErrorResponse {
	var nf *NotFoundError
	var ve *ValidationError
	switch {
	case errors.As(err, &nf):
		hint := "List /api/state to see the registered collections."
		if nf.ID != "" {
			hint = fmt.Sprintf("List %s to see the stored ids.", nf.Resource)
		}
		return &ErrorResponse{
			Error:      KindNotFound,
			Message:    nf.Error(),
			Resource:   nf.Resource,
			ID:         nf.ID,
			StatusCode: nf.StatusCode(),
			Hint:       hint,
		}
	case errors.As(err, &ve):
		return &ErrorResponse{
			Error:      KindValidation,
			Message:    ve.Message,
			Field:      ve.Field,
			StatusCode: ve.StatusCode(),
		}
	default:
		return &ErrorResponse{
			Error:      KindInternal,
			Message:    err.Error(),
			StatusCode: http.StatusInternalServerError,
		}
	}
}
