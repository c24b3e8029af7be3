package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services, repositories and controllers.
var (
	// ErrNotFound is returned when a ticket, ticket type or certificate reference does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a mutation would break referential integrity
	// (e.g. deleting a ticket type still referenced by tickets) or a uniqueness rule.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput is returned for malformed input fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotEligible is returned when a certificate is requested for a ticket below its threshold.
	ErrNotEligible = errors.New("not eligible for certificate")
	// ErrStoreUnavailable is returned when the underlying persistence call fails.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError describes one invalid field. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError returns a ValidationError for field with the given reason.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
