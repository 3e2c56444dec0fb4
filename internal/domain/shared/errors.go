// Package shared contains common domain types, errors, and events that are
// used across all domain packages.
package shared

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors. ErrValidation and ErrDuplicate are local failures:
	// they are raised before any remote call and are recoverable by user
	// correction, so they are never logged as system faults.
	ErrValidation = errors.New("validation error")
	ErrDuplicate  = errors.New("duplicate record")

	// ErrRemote covers any failure raised by the record store facade:
	// transport errors, constraint rejections, missing rows. It always
	// carries the store's diagnostic and is never retried automatically.
	ErrRemote = errors.New("record store error")

	// Authorization errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string            // e.g., "student", "account"
	Op      string            // Operation that failed, e.g., "Create", "Update"
	Kind    error             // Base error type for errors.Is() checking
	Message string            // Human-readable message
	Fields  map[string]string // Field-scoped messages for validation failures
	Err     error             // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s.%s: %s", e.Domain, e.Op, e.Message)
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, " (fields: %s)", strings.Join(names, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against both Kind and Err.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a field-scoped validation error.
func NewValidationError(domain, op string, fields map[string]string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    ErrValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

// NewDuplicateError creates a duplicate-record error reported on the
// colliding fields.
func NewDuplicateError(domain, op string, fields map[string]string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    ErrDuplicate,
		Message: "duplicate record",
		Fields:  fields,
	}
}

// FieldErrors extracts the field-scoped messages from an error, if any.
func FieldErrors(err error) map[string]string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}

// Student domain errors.
var (
	ErrStudentNotFound = NewDomainError("student", "Find", ErrNotFound, "student not found")
)

// Account domain errors.
var (
	ErrAccountNotFound      = NewDomainError("account", "Find", ErrNotFound, "account not found")
	ErrAccountAlreadyExists = NewDomainError("account", "Create", ErrAlreadyExists, "account already exists")
)
