// Package errx defines the error kinds the service reports to callers.
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// SystemErrorMessage is the user-facing text for storage and other internal failures.
const SystemErrorMessage = "internal server error"

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindInsufficientStock
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Status maps the kind onto an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindInsufficientStock:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AppError wraps an underlying error with a kind and a message safe to show to clients.
type AppError struct {
	Kind    Kind
	Message string
	Err     error

	// ProductID is set for InsufficientStock errors.
	ProductID uint
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error.
func (e *AppError) Status() int {
	return e.Kind.Status()
}

// Public returns the message clients get to see. Internal causes are never exposed.
func (e *AppError) Public() string {
	if e.Kind == KindInternal {
		return SystemErrorMessage
	}
	return e.Message
}

func Validation(format string, args ...any) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock reports that productID cannot cover the requested quantity.
// A missing product is reported with available = 0 and found = false.
func InsufficientStock(productID uint, requested, available int, found bool) *AppError {
	msg := fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", productID, requested, available)
	if !found {
		msg = fmt.Sprintf("insufficient stock for product %d: product not found", productID)
	}
	return &AppError{Kind: KindInsufficientStock, Message: msg, ProductID: productID}
}

// Internal wraps a storage or infrastructure failure.
func Internal(err error, message string) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// From returns err as an *AppError, wrapping unknown errors as internal.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err, SystemErrorMessage)
}
