package models

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ValidationError reports malformed or missing input. Nothing has been written
// to the store when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a missing row, or one the caller does not own.
// The two cases are deliberately indistinguishable.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// maskNotFound reports any NotFoundError as a missing resource, so callers
// cannot tell which lookup failed.
func maskNotFound(err error, resource string) error {
	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return notFound(resource)
	}
	return err
}

// translateError maps store errors onto the domain taxonomy. Errors which are
// already typed pass through untouched, unknown ones get wrapped with context.
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}

	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	var conflictErr *ConflictError
	if errors.As(err, &validationErr) || errors.As(err, &notFoundErr) || errors.As(err, &conflictErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(resource)
	}

	if isUniqueViolation(err) {
		return &ConflictError{Message: fmt.Sprintf("%s already exists", resource)}
	}

	return errors.Wrap(err, resource)
}

// isUniqueViolation recognises unique constraint failures from both the
// translated gorm error and raw sqlite/postgres driver messages.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
