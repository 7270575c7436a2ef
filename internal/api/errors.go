package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/service"
	"github.com/phrazzld/flashdeck-api/internal/service/auth"
)

// HintManual tells clients to fall back to writing flashcards by hand.
const HintManual = "manual"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var inputErr *generation.InputError

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidSubject):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrDeckNotOwned):
		return http.StatusForbidden

	case errors.Is(err, service.ErrDeckNotFound):
		return http.StatusNotFound

	case errors.As(err, &inputErr),
		errors.Is(err, generation.ErrInvalidInputType),
		errors.Is(err, generation.ErrSchemaValidationFailed),
		errors.Is(err, generation.ErrInvalidJSON):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrDailyLimitExceeded):
		return http.StatusTooManyRequests

	case errors.Is(err, generation.ErrServiceUnavailable),
		errors.Is(err, generation.ErrRateLimited):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var inputErr *generation.InputError
	if errors.As(err, &inputErr) {
		// Carries only the measured value and the bounds.
		return inputErr.Error()
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidSubject):
		return "Invalid token"

	case errors.Is(err, service.ErrDeckNotOwned):
		return "You do not own this deck"

	case errors.Is(err, service.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, generation.ErrInvalidInputType):
		return "source_text must be a string"

	case errors.Is(err, generation.ErrSchemaValidationFailed),
		errors.Is(err, generation.ErrInvalidJSON),
		errors.Is(err, generation.ErrEmptyResponse),
		errors.Is(err, generation.ErrNoMessageContent):
		return "Flashcard generation failed, try again"

	case errors.Is(err, service.ErrDailyLimitExceeded):
		return "Daily generation limit reached, try again tomorrow"

	case errors.Is(err, generation.ErrServiceUnavailable),
		errors.Is(err, generation.ErrRateLimited):
		return "Flashcard generation is temporarily unavailable, create flashcards manually or try again later"

	default:
		return "An unexpected error occurred"
	}
}

// GetErrorHint returns the client hint for err, or "" when there is none.
func GetErrorHint(err error) string {
	if errors.Is(err, generation.ErrServiceUnavailable) || errors.Is(err, generation.ErrRateLimited) {
		return HintManual
	}
	return ""
}
