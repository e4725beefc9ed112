// Package apperr defines the error kinds surfaced to API callers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error
type Kind string

const (
	KindValidation            Kind = "validation_error"
	KindNotFound              Kind = "not_found"
	KindConflict              Kind = "conflict"
	KindInsufficientInventory Kind = "insufficient_inventory"
	KindInternal              Kind = "internal"
)

// Status returns the HTTP status code for the kind
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInsufficientInventory:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind, a human readable message and optional details
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetail attaches a detail entry and returns the error
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed or out-of-range input
func Validation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

// NotFound reports an id that does not resolve
func NotFound(entity string, id any) *Error {
	return newError(KindNotFound, "%s with ID %v not found", entity, id)
}

// Conflict reports a uniqueness or state violation
func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

// InsufficientInventory reports an adjustment that would drive stock negative
func InsufficientInventory(productID uint, current, change int) *Error {
	return newError(KindInsufficientInventory,
		"product %d has %d in stock, cannot apply change of %d", productID, current, change).
		WithDetail("product_id", productID).
		WithDetail("current_quantity", current).
		WithDetail("quantity_change", change)
}

// Wrap attaches a kind to an underlying error
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	e := newError(kind, format, args...)
	e.cause = cause
	return e
}

// KindOf returns the kind of err, or KindInternal for foreign errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
