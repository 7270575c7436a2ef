package generation

import (
	"context"
	"encoding/json"
)

// Role of a chat message.
type Role string

// Chat message roles.
const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is a single chat message sent to the model.
type Message struct {
	Role    Role
	Content string
}

// ResponseFormat requests JSON output constrained by Schema.
type ResponseFormat struct {
	Name   string
	Schema json.RawMessage
	Strict bool
}

// ChatRequest is one chat completion call.
type ChatRequest struct {
	Model          string
	Temperature    float32
	MaxTokens      int
	Messages       []Message
	ResponseFormat *ResponseFormat
}

// Choice is one candidate answer of a completion.
type Choice struct {
	Content      string
	FinishReason string
}

// Completion is the raw, unvalidated provider answer.
type Completion struct {
	Model   string
	Choices []Choice
}

// Provider performs a single chat completion call against a language model API.
//
// Implementations must not retry. HTTP error answers are reported as
// *StatusError so the client can classify them; network failures are
// returned unchanged.
type Provider interface {
	// Name identifies the provider in logs and spans.
	Name() string
	Complete(ctx context.Context, req ChatRequest) (*Completion, error)
}
