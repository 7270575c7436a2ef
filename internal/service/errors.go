package service

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors of the generation pipeline.
// The API layer maps them to HTTP status codes.
var (
	// ErrDailyLimitExceeded indicates the user reached the daily generation quota.
	// API layer should map this to HTTP 429 Too Many Requests.
	ErrDailyLimitExceeded = errors.New("daily generation limit reached")

	// ErrQuotaCheckFailed indicates the quota could not be determined.
	ErrQuotaCheckFailed = errors.New("failed to check generation quota")

	// ErrRecordingFailed indicates the generation record could not be saved.
	// It never reaches callers of Generate.
	ErrRecordingFailed = errors.New("failed to record generation")

	// ErrDeckNotFound indicates the target deck does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrDeckNotOwned indicates the target deck belongs to another user.
	// API layer should map this to HTTP 403 Forbidden.
	ErrDeckNotOwned = errors.New("deck is owned by another user")
)

// QuotaExceededError reports the quota state when ErrDailyLimitExceeded occurs.
type QuotaExceededError struct {
	Used     int
	Limit    int
	ResetsAt time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: %d of %d generations used, resets at %s",
		ErrDailyLimitExceeded, e.Used, e.Limit, e.ResetsAt.Format(time.RFC3339))
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrDailyLimitExceeded
}

// GenerationServiceError wraps unexpected errors from the generation service with context.
type GenerationServiceError struct {
	// Operation is the operation that failed (e.g., "check_deck", "create_service")
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for GenerationServiceError.
func (e *GenerationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("generation service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *GenerationServiceError) Unwrap() error {
	return e.Err
}
