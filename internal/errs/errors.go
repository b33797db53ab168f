// Package errs defines the ledger error taxonomy.
//
// ValidationError and NotFoundError are caller faults reported verbatim and
// never retried. ConsistencyError means an internal invariant was violated
// (a bug); callers log it and abort the operation with the ledger unchanged.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports bad input shape or values.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to an unknown entity id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// NotFound builds a NotFoundError for the given entity kind and id.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConsistencyError reports an internal invariant violation.
type ConsistencyError struct {
	Msg string
}

func (e *ConsistencyError) Error() string { return e.Msg }

// Consistencyf builds a ConsistencyError with a formatted message.
func Consistencyf(format string, args ...any) error {
	return &ConsistencyError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

// IsConsistency reports whether err is a ConsistencyError.
func IsConsistency(err error) bool {
	var v *ConsistencyError
	return errors.As(err, &v)
}
