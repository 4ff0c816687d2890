// Package apperr defines the closed set of business error kinds the core
// services can fail with. Every service operation either succeeds or returns
// exactly one *Error; the HTTP layer owns the kind→status mapping.
package apperr

import "errors"

// Kind tags a business failure. The set is closed — services never invent
// ad-hoc kinds, and handlers treat anything that is not an *Error as a 500.
type Kind int

const (
	BadRequest Kind = iota
	NotFound
	Conflict
	InvalidState
	InsufficientStock
	InsufficientQuantitySold
	InsufficientFunds
	InsufficientCash
	PreconditionFailed
)

// String returns the canonical kind name (for logs and test assertions).
func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case InvalidState:
		return "invalid_state"
	case InsufficientStock:
		return "insufficient_stock"
	case InsufficientQuantitySold:
		return "insufficient_quantity_sold"
	case InsufficientFunds:
		return "insufficient_funds"
	case InsufficientCash:
		return "insufficient_cash"
	case PreconditionFailed:
		return "precondition_failed"
	default:
		return "unknown"
	}
}

// Error is the tagged-variant business error carried across the service layer.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an *Error with an explicit kind.
func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

// KindOf extracts the business kind from err. ok is false when err is not
// (or does not wrap) an *Error — i.e. an unexpected internal failure.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
