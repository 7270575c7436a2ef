package generation

import (
	"encoding/json"

	"github.com/phrazzld/flashdeck-api/internal/domain"
)

// SchemaName identifies the response schema in structured output requests.
const SchemaName = "flashcards"

// Array bounds of the response schema.
const (
	SchemaMinItems = 1
	SchemaMaxItems = 100
)

type jsonSchema struct {
	Type                 string                 `json:"type"`
	Properties           map[string]*jsonSchema `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
	Items                *jsonSchema            `json:"items,omitempty"`
	MinItems             *int                   `json:"minItems,omitempty"`
	MaxItems             *int                   `json:"maxItems,omitempty"`
	MaxLength            *int                   `json:"maxLength,omitempty"`
	Enum                 []string               `json:"enum,omitempty"`
}

var flashcardsSchema = mustMarshalSchema()

// FlashcardsSchema returns the JSON schema the model output must satisfy: an
// object with a single "flashcards" array of {kind, front, back} items and no
// additional properties anywhere.
func FlashcardsSchema() json.RawMessage {
	out := make(json.RawMessage, len(flashcardsSchema))
	copy(out, flashcardsSchema)
	return out
}

func mustMarshalSchema() json.RawMessage {
	closed := false
	minItems, maxItems := SchemaMinItems, SchemaMaxItems
	maxFront, maxBack := domain.MaxFrontLength, domain.MaxBackLength

	kinds := make([]string, 0, 2)
	for _, k := range domain.FlashcardKinds() {
		kinds = append(kinds, string(k))
	}

	item := &jsonSchema{
		Type: "object",
		Properties: map[string]*jsonSchema{
			"kind":  {Type: "string", Enum: kinds},
			"front": {Type: "string", MaxLength: &maxFront},
			"back":  {Type: "string", MaxLength: &maxBack},
		},
		Required:             []string{"kind", "front", "back"},
		AdditionalProperties: &closed,
	}

	root := &jsonSchema{
		Type: "object",
		Properties: map[string]*jsonSchema{
			"flashcards": {
				Type:     "array",
				Items:    item,
				MinItems: &minItems,
				MaxItems: &maxItems,
			},
		},
		Required:             []string{"flashcards"},
		AdditionalProperties: &closed,
	}

	raw, err := json.Marshal(root)
	if err != nil {
		panic("generation: cannot marshal flashcards schema: " + err.Error())
	}
	return raw
}
