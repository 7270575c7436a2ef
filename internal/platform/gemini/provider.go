package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"google.golang.org/genai"
)

// ProviderName identifies this adapter in logs and spans.
const ProviderName = "gemini"

// Provider implements generation.Provider for the Gemini API.
type Provider struct {
	client *genai.Client
	logger *slog.Logger
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider creates a Gemini provider. cfg.BaseURL, when set, replaces the
// public endpoint.
func NewProvider(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Provider{
		client: client,
		logger: logger.With("provider", ProviderName),
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Complete sends one GenerateContent request. It never retries.
func (p *Provider) Complete(ctx context.Context, req generation.ChatRequest) (*generation.Completion, error) {
	contents, cfg, err := toGenerateContent(req)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, mapError(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		p.logger.WarnContext(ctx, "prompt blocked by Gemini",
			slog.String("block_reason", string(resp.PromptFeedback.BlockReason)))
	}

	completion := &generation.Completion{
		Model:   resp.ModelVersion,
		Choices: make([]generation.Choice, 0, len(resp.Candidates)),
	}
	if completion.Model == "" {
		completion.Model = req.Model
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil {
			continue
		}
		completion.Choices = append(completion.Choices, generation.Choice{
			Content:      candidateText(candidate),
			FinishReason: string(candidate.FinishReason),
		})
	}

	return completion, nil
}

func toGenerateContent(req generation.ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: int32(req.MaxTokens),
	}

	var system []string
	var contents []*genai.Content
	for _, m := range req.Messages {
		switch m.Role {
		case generation.RoleSystem:
			system = append(system, m.Content)
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	if req.ResponseFormat != nil {
		var schema map[string]any
		if err := json.Unmarshal(req.ResponseFormat.Schema, &schema); err != nil {
			return nil, nil, fmt.Errorf("%w: response schema is not a JSON object: %v", generation.ErrInvalidConfig, err)
		}
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = schema
	}

	return contents, cfg, nil
}

// candidateText joins the non-thought text parts of a candidate.
func candidateText(c *genai.Candidate) string {
	if c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range c.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

// mapError converts genai.APIError into *generation.StatusError.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &generation.StatusError{StatusCode: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	return err
}
