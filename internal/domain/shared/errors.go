// Package shared contains common domain types and errors used across the
// teacher, student and course packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// ErrValidation marks a malformed or missing field. The request is rejected
	// before any write is issued.
	ErrValidation = errors.New("validation error")

	// ErrConflict marks a natural-key collision, a caller-supplied primary key
	// collision, or a delete blocked by dependent rows.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks an operation that targets a nonexistent primary key.
	ErrNotFound = errors.New("entity not found")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // "teacher", "student", "course"
	Op      string // Operation that failed, e.g. "Add", "Update"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message surfaced to the caller
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

func newDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// Validation builds a validation-class error for the given entity and operation.
func Validation(domain, op, message string) *DomainError {
	return newDomainError(domain, op, ErrValidation, message)
}

// Conflict builds a conflict-class error for the given entity and operation.
func Conflict(domain, op, message string) *DomainError {
	return newDomainError(domain, op, ErrConflict, message)
}

// NotFound builds a not-found error for the given entity and operation.
func NotFound(domain, op, message string) *DomainError {
	return newDomainError(domain, op, ErrNotFound, message)
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if the error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// Message returns the caller-facing message of a domain error, or the plain
// error text for anything else.
func Message(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
