// Package apperr defines the error kinds shared by the repositories and the HTTP layer.
//
// Every repository returns one of the sentinel kinds below (possibly wrapped), so handlers
// can map them onto status codes with errors.Is without knowing anything about the store.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is returned when input fails validation. No write happened.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a write would break a uniqueness constraint.
	ErrConflict = errors.New("conflict")

	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage is returned for faults of the underlying store.
	ErrStorage = errors.New("storage failure")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError carries the invalid fields of a rejected input.
type ValidationError struct {
	Fields []FieldError
}

// Error implements error.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}

	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, tag, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Tag: tag, Message: message}}}
}

// ConflictError reports the field whose value is already taken.
type ConflictError struct {
	Field string
	Value string
}

// Error implements error.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// Unwrap makes errors.Is(err, ErrConflict) hold.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NotFound wraps ErrNotFound with the name of the missing thing.
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// Storage wraps a store fault. A nil err stays nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
