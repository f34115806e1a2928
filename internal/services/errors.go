package services

import (
	"errors"
	"fmt"

	"github.com/campustrack/academic-record-service/internal/validator"
)

// Typed service errors. Handlers map these onto HTTP statuses; everything that
// is none of them surfaces as an internal error.

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Field   string
	Message string
	Fields  validator.FieldErrors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return e.Fields.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// validationErrorFrom wraps validator output, passing other errors through.
func validationErrorFrom(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrors validator.FieldErrors
	if errors.As(err, &fieldErrors) {
		return &ValidationError{Fields: fieldErrors}
	}
	return err
}

// NotFoundError reports a missing record or user.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// AuthorizationError reports a failed ownership or role check.
type AuthorizationError struct {
	Actor    string
	Resource string
	Reason   string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("unauthorized: %s on %s: %s", e.Actor, e.Resource, e.Reason)
}

func NewAuthorizationError(actor, resource, reason string) *AuthorizationError {
	return &AuthorizationError{Actor: actor, Resource: resource, Reason: reason}
}

// ConflictError reports a state conflict, currently only duplicate
// registration. Duplicate-key races in bulk uploads are resolved by the
// upsert, never rejected.
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Resource, e.Reason)
}

func NewConflictError(resource, reason string) *ConflictError {
	return &ConflictError{Resource: resource, Reason: reason}
}
