package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain value fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFocus is returned when a focus number falls outside 1-9.
	// Focus numbers express user intent and are never clamped.
	ErrInvalidFocus = errors.New("focus number must be between 1 and 9")

	// ErrInvalidRealm is returned when a realm number is neither a single
	// digit nor a master number.
	ErrInvalidRealm = errors.New("realm number must be 0-9 or a master number")

	// ErrInvalidLocation is returned when coordinates are out of range or not finite.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidActivity is returned when an activity reading is not usable.
	ErrInvalidActivity = errors.New("invalid activity reading")

	// ErrInvalidMatchRecord is returned when a match record fails validation.
	ErrInvalidMatchRecord = errors.New("invalid match record")
)

// ValidationError describes which field failed validation and why.
// It wraps one of the sentinel errors above so callers can use errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Field, e.Message, e.Err)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
