// Package apierror owns the HTTP face of business failures: the JSON error
// envelope and the mapping from apperr kinds to status codes. Core services
// know nothing about HTTP; handlers pass their errors through here.
package apierror

import (
	"net/http"

	"tillpoint/internal/apperr"
)

// APIError is the canonical error envelope for all 4xx/5xx responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// kindStatus is the closed kind→status table. State-machine violations map
// to 409 like other conflicts; quantity/funds shortfalls are semantic
// failures on a well-formed request, hence 422.
var kindStatus = map[apperr.Kind]int{
	apperr.BadRequest:               http.StatusBadRequest,
	apperr.NotFound:                 http.StatusNotFound,
	apperr.Conflict:                 http.StatusConflict,
	apperr.InvalidState:             http.StatusConflict,
	apperr.InsufficientStock:        http.StatusUnprocessableEntity,
	apperr.InsufficientQuantitySold: http.StatusUnprocessableEntity,
	apperr.InsufficientFunds:        http.StatusUnprocessableEntity,
	apperr.InsufficientCash:         http.StatusUnprocessableEntity,
	apperr.PreconditionFailed:       http.StatusPreconditionFailed,
}

// Status resolves the HTTP status for err. Errors without a business kind
// are internal and answer 500.
func Status(err error) int {
	if kind, ok := apperr.KindOf(err); ok {
		if status, ok := kindStatus[kind]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// From builds the status and safe envelope for err. Internal error details
// are never leaked to clients.
func From(err error) (int, *APIError) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		return status, New("internal server error")
	}
	return status, New(err.Error())
}
