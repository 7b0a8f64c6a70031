package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/registration-service/internal/validator"
)

// Sentinel errors used by handlers to map failures to HTTP status codes.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrDuplicateEntity  = errors.New("duplicate entity")
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
)

// NotFoundError identifies a missing resource by type and id.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %v", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// DuplicateError carries a caller-facing conflict message.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

func (e *DuplicateError) Unwrap() error { return ErrDuplicateEntity }

// ErrDuplicateStudentEmail is the conflict raised when a registry email
// collides with an existing record.
func NewDuplicateStudentEmailError() error {
	return &DuplicateError{Message: "A student with this email address already exists."}
}

// InvalidArgumentError carries a caller-facing bad-request message.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// ValidationFailedError carries accumulated field errors.
type ValidationFailedError struct {
	Fields validator.ValidationErrors
}

func (e *ValidationFailedError) Error() string {
	return "Validation failed"
}

func (e *ValidationFailedError) Unwrap() error { return ErrValidationFailed }

// BulkOperationError carries per-item failures of an all-or-nothing batch.
type BulkOperationError struct {
	Errors []string
}

func (e *BulkOperationError) Error() string {
	return fmt.Sprintf("Bulk operation failed: %s", strings.Join(e.Errors, "; "))
}

func (e *BulkOperationError) Unwrap() error { return ErrInvalidArgument }

// PermissionError describes a denied action on a resource.
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func (e *PermissionError) Unwrap() error { return ErrForbidden }

func NewPermissionError(userID, resourceID uint, resource, action, reason string) error {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}
