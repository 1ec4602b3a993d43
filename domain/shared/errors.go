/*
Package shared holds the building blocks every subdomain uses: aggregate and event
contracts, the unit of work, specifications, money and the error taxonomy.

Error design:
 1. Category sentinels (ErrNotFound, ErrInvalidInput, ...) support errors.Is checks
    independent of the subdomain that raised the error.
 2. DomainError captures the call stack when created and formats it lazily.
 3. Domain errors carry no transport concepts such as HTTP status codes.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Category sentinels. Subdomain errors unwrap to exactly one of these.
var (
	// ErrNotFound resource not found
	ErrNotFound = errors.New("not found")

	// ErrConflict resource conflict (concurrent modification, unique keys, stock shortage)
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput input failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState operation not allowed in the current lifecycle state
	ErrInvalidState = errors.New("invalid state")

	// ErrConsistency an aggregate invariant would be broken
	ErrConsistency = errors.New("consistency violation")

	// ErrUnauthorized caller is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden caller is authenticated but not allowed
	ErrForbidden = errors.New("forbidden")
)

// DomainError is a structured error carrying business context and the stack of the
// point where it was created.
type DomainError struct {
	// Err is the category sentinel used by errors.Is.
	Err error

	// Entity is the name of the entity involved ("order", "variant", ...).
	Entity string

	// Message is the human readable description.
	Message string

	// Field optionally names the offending input field.
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack formats the captured frames on demand.
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack records the current call stack.
// skip is usually 3: runtime.Callers, CaptureStack and the error constructor.
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders frames as "file:line function", dropping runtime frames and
// keeping at most 10 entries.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// NewNotFoundError creates a not-found error for entity.
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewConflictError creates a conflict error.
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewValidationError creates an invalid-input error for a field.
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(entity, reason string) error {
	return &DomainError{
		Err:     ErrForbidden,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// Stacker is implemented by errors that can report where they were created.
type Stacker interface {
	Stack() []string
}
