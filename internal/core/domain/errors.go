package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports a bad field shape or value.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// NotFoundError reports a missing work item or directory identity.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(message string) error {
	return &NotFoundError{Message: message}
}

// StateError reports an operation applied to an item in the wrong state,
// such as restoring an item that is not deleted.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }

func NewStateError(message string) error {
	return &StateError{Message: message}
}

// ConfigurationError hides a downstream failure behind a generic message.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}

var (
	ErrWorkItemNotFound        = NewNotFoundError("Work item not found")
	ErrDeletedWorkItemNotFound = NewNotFoundError("Deleted work item not found")
	ErrWorkItemNotDeleted      = NewStateError("Work item is not deleted")
	ErrUserIDRequired          = NewValidationError("User ID is required")
	ErrNoWorkItemIDs           = NewValidationError("No work item IDs provided")
	ErrNoUpdateFields          = NewValidationError("No valid update fields provided")
	ErrAvailableUsersFetch     = NewConfigurationError("Failed to fetch available users")
	ErrIdentityNotFound        = NewNotFoundError("User not found")
)

func NewUserEmailNotFoundError(email string) error {
	return &NotFoundError{Message: fmt.Sprintf("User with email %s does not exist", email)}
}

func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
