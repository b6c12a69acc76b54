package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/exam-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Exam specific errors
	ErrExamNotFound    = errors.New("exam not found")
	ErrExamNotActive   = errors.New("exam is not active")
	ErrExamNotEditable = errors.New("exam cannot be edited in current status")

	// Question specific errors
	ErrQuestionNotFound     = errors.New("question not found")
	ErrQuestionNotInExam    = errors.New("question is not part of this exam")
	ErrQuestionBankNotFound = errors.New("question bank not found")

	// Matrix specific errors
	ErrMatrixNotFound    = errors.New("exam matrix not found")
	ErrMatrixEmpty       = errors.New("exam matrix has no rows")
	ErrBankRequired      = errors.New("matrix row has no question bank and no default bank was given")
	ErrUnknownDifficulty = errors.New("unknown difficulty level")

	// Attempt specific errors
	ErrAttemptNotFound         = errors.New("attempt not found")
	ErrNoActiveAttempt         = errors.New("no in-progress attempt to submit")
	ErrAttemptLimitExceeded    = errors.New("maximum attempts exceeded")
	ErrAttemptAlreadySubmitted = errors.New("attempt already submitted")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid user role")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     uint   `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrQuestionNotInExam) ||
		errors.Is(err, ErrQuestionBankNotFound) ||
		errors.Is(err, ErrMatrixNotFound) ||
		errors.Is(err, ErrAttemptNotFound) ||
		errors.Is(err, ErrNoActiveAttempt) ||
		errors.Is(err, ErrUserNotFound)
}

// IsForbidden checks if error represents a permission failure
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrBankRequired) ||
		errors.Is(err, ErrUnknownDifficulty) ||
		errors.Is(err, ErrMatrixEmpty) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrExamNotActive) ||
		errors.Is(err, ErrExamNotEditable) ||
		errors.Is(err, ErrAttemptLimitExceeded) ||
		errors.Is(err, ErrAttemptAlreadySubmitted)
}
