package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the entity.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned when a volunteer already joined a project.
	ErrConflict = errors.New("already registered for this project")
	// ErrCapacityExceeded is returned when a project has no free places.
	ErrCapacityExceeded = errors.New("project is at full capacity")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a request.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// StoreErrorKind classifies persistence failures.
type StoreErrorKind int

const (
	StoreUnavailable StoreErrorKind = iota
	StoreNotFound
	StoreConstraint
)

func (k StoreErrorKind) String() string {
	switch k {
	case StoreNotFound:
		return "not found"
	case StoreConstraint:
		return "constraint violation"
	default:
		return "unavailable"
	}
}

// StoreError wraps a failure of the underlying database.
type StoreError struct {
	Op   string
	Kind StoreErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is lets callers match not-found and constraint failures against the
// domain sentinels.
func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == StoreNotFound
	case ErrConflict:
		return e.Kind == StoreConstraint
	}
	return false
}
