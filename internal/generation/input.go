package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/phrazzld/flashdeck-api/internal/config"
)

// Limits bounds the accepted input. Lengths are counted in characters.
type Limits struct {
	MinSourceLength int
	MaxSourceLength int
	MinCount        int
	MaxCount        int
}

// DefaultLimits returns the production bounds: 1000 to 10000 characters of
// source text and 1 to 100 flashcards.
func DefaultLimits() Limits {
	return Limits{
		MinSourceLength: 1000,
		MaxSourceLength: 10000,
		MinCount:        1,
		MaxCount:        100,
	}
}

// LimitsFromConfig builds Limits from the generation settings.
func LimitsFromConfig(cfg config.GenerationConfig) Limits {
	return Limits{
		MinSourceLength: cfg.MinSourceLength,
		MaxSourceLength: cfg.MaxSourceLength,
		MinCount:        1,
		MaxCount:        cfg.MaxFlashcardCount,
	}
}

// Input is the caller-supplied part of a generation request.
type Input struct {
	SourceText     string
	RequestedCount int
}

// ParseSourceText extracts the source text from a raw JSON value. Anything
// other than a JSON string, including a missing value and null, fails with
// ErrInvalidInputType.
func ParseSourceText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("%w: value is missing", ErrInvalidInputType)
	}
	if trimmed[0] != '"' {
		return "", fmt.Errorf("%w: got %s", ErrInvalidInputType, jsonKind(trimmed))
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInputType, err)
	}
	return text, nil
}

func jsonKind(raw []byte) string {
	switch raw[0] {
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	case '{':
		return "object"
	case '[':
		return "array"
	default:
		return "number"
	}
}

// ValidateInput checks the source text length and the requested count
// against limits. It returns nil or an *InputError.
func ValidateInput(in Input, limits Limits) error {
	length := utf8.RuneCountInString(in.SourceText)
	if length < limits.MinSourceLength {
		return &InputError{Kind: ErrTextTooShort, Actual: length, Min: limits.MinSourceLength, Max: limits.MaxSourceLength}
	}
	if length > limits.MaxSourceLength {
		return &InputError{Kind: ErrTextTooLong, Actual: length, Min: limits.MinSourceLength, Max: limits.MaxSourceLength}
	}

	if in.RequestedCount < limits.MinCount || in.RequestedCount > limits.MaxCount {
		return &InputError{Kind: ErrInvalidCount, Actual: in.RequestedCount, Min: limits.MinCount, Max: limits.MaxCount}
	}

	return nil
}
