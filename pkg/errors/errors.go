/*
Package errors application error codes.

Domain packages return sentinel-backed errors; FromDomainError classifies them
with errors.Is into a stable code that the API layer maps to an HTTP status.
*/
package errors

import (
	"context"
	"errors"
	"fmt"

	"commerce/domain/inventory"
	"commerce/domain/order"
	"commerce/domain/shared"
)

type ErrorCode string

const (
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest      ErrorCode = "BAD_REQUEST"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeConflict        ErrorCode = "CONFLICT"
	CodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeTimeout         ErrorCode = "TIMEOUT"

	CodeOrderNotFound     ErrorCode = "ORDER_NOT_FOUND"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeInvalidOrderState ErrorCode = "INVALID_ORDER_STATE"
	CodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"
	CodeConsistency       ErrorCode = "CONSISTENCY_ERROR"
	CodeConcurrentModify  ErrorCode = "CONCURRENT_MODIFICATION"
)

// AppError Err keeps the original chain for logs; Message is safe to show
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequests, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Is reports whether err carries an AppError with code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError classifies err. The most specific sentinel wins, then the
// shared category; anything unrecognised is internal.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := err.Error()
	switch {
	case errors.Is(err, order.ErrConcurrentModification), errors.Is(err, inventory.ErrStockConflict):
		return Wrap(err, CodeConcurrentModify, msg)
	case errors.Is(err, order.ErrInsufficientStock), errors.Is(err, inventory.ErrInsufficientStock):
		return Wrap(err, CodeInsufficientStock, msg)
	case errors.Is(err, order.ErrTotalsMismatch), errors.Is(err, shared.ErrConsistency):
		return Wrap(err, CodeConsistency, msg)
	case errors.Is(err, order.ErrInvalidTransition):
		return Wrap(err, CodeInvalidTransition, msg)
	case errors.Is(err, order.ErrOrderNotFound):
		return Wrap(err, CodeOrderNotFound, msg)
	case errors.Is(err, inventory.ErrStockNotFound):
		return Wrap(err, CodeNotFound, msg)
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, msg)
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, inventory.ErrInvalidQuantity):
		return Wrap(err, CodeValidation, msg)
	case errors.Is(err, shared.ErrInvalidState):
		return Wrap(err, CodeInvalidOrderState, msg)
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, msg)
	case errors.Is(err, shared.ErrUnauthorized):
		return Wrap(err, CodeUnauthorized, msg)
	case errors.Is(err, shared.ErrForbidden):
		return Wrap(err, CodeForbidden, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, CodeTimeout, "request timed out")
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}
