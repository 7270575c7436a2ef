package generation

import (
	"errors"
	"fmt"
	"strings"
)

// Input contract violations.
var (
	// ErrInvalidInputType is returned when the source text is missing or not a string.
	ErrInvalidInputType = errors.New("source text must be a string")

	// ErrTextTooShort is returned when the source text is below the minimum length.
	ErrTextTooShort = errors.New("source text too short")

	// ErrTextTooLong is returned when the source text exceeds the maximum length.
	ErrTextTooLong = errors.New("source text too long")

	// ErrInvalidCount is returned when the requested flashcard count is out of range.
	ErrInvalidCount = errors.New("invalid requested flashcard count")
)

// Language model call failures.
var (
	// ErrAuthenticationFailed is returned when the provider rejects the credentials. Never retried.
	ErrAuthenticationFailed = errors.New("language model authentication failed")

	// ErrRateLimited is returned when the provider keeps rate limiting after all retries.
	ErrRateLimited = errors.New("language model rate limit exceeded")

	// ErrServiceUnavailable is returned when the provider keeps failing server-side after all retries.
	ErrServiceUnavailable = errors.New("language model service unavailable")

	// ErrTransport is returned for network-class failures that persisted after all retries.
	ErrTransport = errors.New("language model transport error")

	// ErrProvider is returned for client errors other than authentication. Never retried.
	ErrProvider = errors.New("language model rejected the request")

	// ErrUnknown wraps failures that fit no other category.
	ErrUnknown = errors.New("unknown language model error")
)

// Response shape failures. None of these is retried.
var (
	// ErrEmptyResponse is returned when the completion has no choices.
	ErrEmptyResponse = errors.New("language model returned no choices")

	// ErrNoMessageContent is returned when the first choice has no content.
	ErrNoMessageContent = errors.New("language model returned no message content")

	// ErrInvalidJSON is returned when the content is not parseable JSON.
	ErrInvalidJSON = errors.New("language model returned invalid JSON")

	// ErrSchemaValidationFailed is returned when the JSON does not match the flashcard schema.
	ErrSchemaValidationFailed = errors.New("language model response failed schema validation")
)

// ErrInvalidConfig is returned when a client or provider is constructed with invalid settings.
var ErrInvalidConfig = errors.New("invalid generation configuration")

// InputError reports a bound violation together with the measured value.
type InputError struct {
	// Kind is ErrTextTooShort, ErrTextTooLong or ErrInvalidCount.
	Kind   error
	Actual int
	Min    int
	Max    int
}

func (e *InputError) Error() string {
	switch e.Kind {
	case ErrTextTooShort:
		return fmt.Sprintf("source text too short, %d chars, minimum %d", e.Actual, e.Min)
	case ErrTextTooLong:
		return fmt.Sprintf("source text too long, %d chars, maximum %d", e.Actual, e.Max)
	case ErrInvalidCount:
		return fmt.Sprintf("requested flashcard count must be between %d and %d, got %d", e.Min, e.Max, e.Actual)
	default:
		return fmt.Sprintf("invalid input: %d", e.Actual)
	}
}

func (e *InputError) Unwrap() error {
	return e.Kind
}

// StatusError is returned by providers when the upstream API answered with
// an HTTP error status.
type StatusError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the upstream HTTP status.
func (e *StatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// SchemaError carries the diagnostics produced while validating a completion
// against the flashcard schema.
type SchemaError struct {
	Diagnostics []string
}

func (e *SchemaError) Error() string {
	if len(e.Diagnostics) == 0 {
		return ErrSchemaValidationFailed.Error()
	}
	return ErrSchemaValidationFailed.Error() + ": " + strings.Join(e.Diagnostics, "; ")
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaValidationFailed
}
