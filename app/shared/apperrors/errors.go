// Package apperrors holds the error kinds shared by every module. Concrete
// errors wrap one of these sentinels so the chat layer can pick a reply with
// errors.Is instead of knowing each module's error types.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input the user can correct.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing or already deleted record.
	ErrNotFound = errors.New("not found")
	// ErrIntegrity marks a store constraint violation such as a duplicate registration.
	ErrIntegrity = errors.New("integrity violation")
)

// ValidationError carries a user-facing reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsExpected reports whether err is one of the kinds handled at the chat
// boundary without alerting an operator.
func IsExpected(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrIntegrity)
}
