package model

import "fmt"

// InsufficientDataError is returned when the trainer is invoked with fewer
// scenarios than the configured minimum. Retrying with the same input cannot
// succeed; callers must supply more examples or abort.
type InsufficientDataError struct {
	Got  int
	Want int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient training data: got %d examples, need at least %d", e.Got, e.Want)
}

// UnfittedClassifierError is returned when the intelligent policy is asked
// to schedule before a classifier has been fitted and injected.
type UnfittedClassifierError struct {
	Policy string
}

func (e *UnfittedClassifierError) Error() string {
	return fmt.Sprintf("policy %s: classifier is not fitted", e.Policy)
}

// InvalidTaskError is returned when a task violates the cost or priority
// invariants. The whole tick fails rather than silently skipping the task,
// so metrics never look complete when they are not.
type InvalidTaskError struct {
	TaskID string
	Reason string
}

func (e *InvalidTaskError) Error() string {
	return fmt.Sprintf("invalid task '%s': %s", e.TaskID, e.Reason)
}

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
)

// APIError is a structured error returned by the reporting API.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a VALIDATION_ERROR APIError.
func NewValidationError(msg string) *APIError {
	return &APIError{Code: ErrValidation, Message: msg}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}
