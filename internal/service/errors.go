package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrForbidden is returned when the caller may not modify the target.
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError is a duplicate membership, a self-subscription or a
// uniqueness violation.
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError is a missing target or a missing membership on remove.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// EmptyStateError is an operation that needs data the caller does not have yet.
type EmptyStateError struct {
	Message string
}

func (e *EmptyStateError) Error() string {
	return e.Message
}

// isUniqueViolation recognises duplicate-key errors from both drivers.
// With TranslateError enabled gorm returns ErrDuplicatedKey; the string
// checks cover connections opened without it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}
