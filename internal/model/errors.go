package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrDuplicateIdentity    = errors.New("username or email already exists")
	ErrInvalidCredential    = errors.New("invalid email or password")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrEngineUnavailable    = errors.New("answering engine unavailable")
	ErrValidation           = errors.New("validation error")
	ErrMissingField         = errors.New("required field is missing")
)

// ValidationError reports a missing or malformed request field. Err, when
// set, classifies the failure (ErrMissingField) for errors.Is.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NewMissingFieldError reports an absent or blank required field.
func NewMissingFieldError(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required", Err: ErrMissingField}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}
