package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	TitleMinLength       = 3
	TitleMaxLength       = 100
	DescriptionMinLength = 10
	DescriptionMaxLength = 500
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return NewValidationError("Title is required")
	}
	// Bounds are in characters, not bytes.
	length := utf8.RuneCountInString(trimmed)
	if length < TitleMinLength {
		return NewValidationError("Title must be at least 3 characters long")
	}
	if length > TitleMaxLength {
		return NewValidationError("Title must not exceed 100 characters")
	}
	return nil
}

func ValidateDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return NewValidationError("Description is required")
	}
	length := utf8.RuneCountInString(trimmed)
	if length < DescriptionMinLength {
		return NewValidationError("Description must be at least 10 characters long")
	}
	if length > DescriptionMaxLength {
		return NewValidationError("Description must not exceed 500 characters")
	}
	return nil
}

func ValidateStatus(status WorkItemStatus) error {
	switch status {
	case WorkItemStatusPending, WorkItemStatusInProgress, WorkItemStatusCompleted, WorkItemStatusCancelled:
		return nil
	}
	return NewValidationError("Status must be one of: pending, in_progress, completed, cancelled")
}

func ValidatePriority(priority WorkItemPriority) error {
	switch priority {
	case WorkItemPriorityLow, WorkItemPriorityMedium, WorkItemPriorityHigh, WorkItemPriorityUrgent:
		return nil
	}
	return NewValidationError("Priority must be one of: low, medium, high, urgent")
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return NewValidationError("Invalid email format")
	}
	return nil
}

// ValidateDueDate rejects dates already in the past. Callers only invoke it
// when a due date is actually being set, so items that went overdue after
// creation stay editable.
func ValidateDueDate(dueDate time.Time) error {
	if dueDate.Before(time.Now()) {
		return NewValidationError("Due date cannot be in the past")
	}
	return nil
}

// IsValidIdentifier reports whether s has the 24-hex shape of a storage
// identifier. Used to tell a raw identity reference apart from an email.
func IsValidIdentifier(s string) bool {
	return objectIDPattern.MatchString(s)
}

// NormalizeEmail lower-cases an email for case-insensitive directory lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
