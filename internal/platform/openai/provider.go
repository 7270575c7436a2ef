package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	goopenai "github.com/sashabaranov/go-openai"
)

// ProviderName identifies this adapter in logs and spans.
const ProviderName = "openai"

// Provider implements generation.Provider with go-openai.
type Provider struct {
	client *goopenai.Client
	logger *slog.Logger
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider creates a Provider for the configured endpoint. An empty
// BaseURL targets api.openai.com.
func NewProvider(cfg config.LLMConfig, logger *slog.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}

	return &Provider{
		client: goopenai.NewClientWithConfig(clientConfig),
		logger: logger.With("provider", ProviderName),
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Complete sends one chat completion request. It never retries.
func (p *Provider) Complete(ctx context.Context, req generation.ChatRequest) (*generation.Completion, error) {
	resp, err := p.client.CreateChatCompletion(ctx, toChatCompletionRequest(req))
	if err != nil {
		return nil, mapError(err)
	}

	completion := &generation.Completion{
		Model:   resp.Model,
		Choices: make([]generation.Choice, 0, len(resp.Choices)),
	}
	for _, choice := range resp.Choices {
		completion.Choices = append(completion.Choices, generation.Choice{
			Content:      choice.Message.Content,
			FinishReason: string(choice.FinishReason),
		})
	}

	p.logger.DebugContext(ctx, "chat completion received",
		slog.String("model", resp.Model),
		slog.Int("choices", len(resp.Choices)),
		slog.Int("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens))

	return completion, nil
}

func toChatCompletionRequest(req generation.ChatRequest) goopenai.ChatCompletionRequest {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	out := goopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.ResponseFormat != nil {
		out.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.ResponseFormat.Name,
				Schema: req.ResponseFormat.Schema,
				Strict: req.ResponseFormat.Strict,
			},
		}
	}
	return out
}

// mapError turns HTTP error answers into *generation.StatusError. Transport
// failures pass through unchanged.
func mapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &generation.StatusError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &generation.StatusError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.HTTPStatus, Err: err}
	}

	return err
}
