package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/flashdeck-api/internal/domain"
)

type flashcardItem struct {
	Kind  string `json:"kind" validate:"required,flashcard_kind"`
	Front string `json:"front" validate:"required,max=200"`
	Back  string `json:"back" validate:"required,max=500"`
}

type flashcardsPayload struct {
	Flashcards []flashcardItem `json:"flashcards" validate:"max=100,dive"`
}

var responseValidator = newResponseValidator()

func newResponseValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("flashcard_kind", func(fl validator.FieldLevel) bool {
		return domain.FlashcardKind(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// ParseFlashcards validates a raw completion and returns its flashcards in
// the order the model produced them. An empty "flashcards" array is a valid,
// empty result.
func ParseFlashcards(c *Completion) ([]domain.AIFlashcard, error) {
	if c == nil || len(c.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choice := c.Choices[0]
	content := strings.TrimSpace(choice.Content)
	if content == "" {
		if choice.FinishReason != "" {
			return nil, fmt.Errorf("%w: finish reason %s", ErrNoMessageContent, choice.FinishReason)
		}
		return nil, ErrNoMessageContent
	}

	if !json.Valid([]byte(content)) {
		return nil, ErrInvalidJSON
	}

	var payload flashcardsPayload
	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return nil, &SchemaError{Diagnostics: []string{err.Error()}}
	}
	if payload.Flashcards == nil {
		return nil, &SchemaError{Diagnostics: []string{"flashcards: required"}}
	}

	if err := responseValidator.Struct(&payload); err != nil {
		return nil, schemaErrorFrom(err)
	}

	cards := make([]domain.AIFlashcard, 0, len(payload.Flashcards))
	for _, item := range payload.Flashcards {
		cards = append(cards, domain.AIFlashcard{
			Kind:  domain.FlashcardKind(item.Kind),
			Front: item.Front,
			Back:  item.Back,
		})
	}
	return cards, nil
}

func schemaErrorFrom(err error) *SchemaError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &SchemaError{Diagnostics: []string{err.Error()}}
	}

	diags := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fe.Namespace()
		// Drop the unexported root type name.
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		diags = append(diags, fmt.Sprintf("%s: failed %s", path, rule))
	}
	return &SchemaError{Diagnostics: diags}
}
