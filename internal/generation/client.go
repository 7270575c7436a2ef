package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/redact"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/phrazzld/flashdeck-api/internal/generation"

// ClientConfig holds the per-call model settings of a Client.
type ClientConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Retry       RetryPolicy
}

// ClientConfigFromLLM builds a ClientConfig from the LLM settings.
func ClientConfigFromLLM(cfg config.LLMConfig) ClientConfig {
	return ClientConfig{
		Model:       cfg.ModelName,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Retry:       RetryPolicyFromConfig(cfg),
	}
}

// Option customizes a Client.
type Option func(*Client)

// WithSleeper replaces the sleep used between retries.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) {
		c.sleep = s
	}
}

// WithTracerProvider sets the provider of the tracer that records one span per attempt.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// Output is the validated result of a generation.
type Output struct {
	Flashcards []domain.AIFlashcard
	// Model is the model identifier the request was issued with.
	Model string
}

// Client drives a Provider with the flashcard schema, retrying transient
// failures with exponential backoff. Calls are sequential: a Client never has
// more than one provider call in flight per Generate.
type Client struct {
	provider Provider
	config   ClientConfig
	logger   *slog.Logger
	sleep    Sleeper
	tracer   trace.Tracer
}

// NewClient creates a Client for provider.
func NewClient(provider Provider, cfg ClientConfig, log *slog.Logger, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider cannot be nil", ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}
	if cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("%w: max tokens must be positive", ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	c := &Client{
		provider: provider,
		config:   cfg,
		logger:   log.With(slog.String("component", "generation_client"), slog.String("provider", provider.Name())),
		sleep:    SleepContext,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.config.Model
}

// Generate asks the model for count flashcards about sourceText and returns
// them validated. Input bounds are the caller's concern; see ValidateInput.
func (c *Client) Generate(ctx context.Context, sourceText string, count int) (*Output, error) {
	ctx, span := c.tracer.Start(ctx, "generation.generate", trace.WithAttributes(
		attribute.String("llm.provider", c.provider.Name()),
		attribute.String("llm.model", c.config.Model),
		attribute.Int("generation.requested_count", count),
	))
	defer span.End()

	msgs, err := BuildMessages(sourceText, count)
	if err != nil {
		span.SetStatus(codes.Error, "prompt rendering failed")
		return nil, err
	}

	req := ChatRequest{
		Model:       c.config.Model,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		Messages: []Message{
			{Role: RoleSystem, Content: msgs.System},
			{Role: RoleUser, Content: msgs.User},
		},
		ResponseFormat: &ResponseFormat{
			Name:   SchemaName,
			Schema: FlashcardsSchema(),
			Strict: true,
		},
	}

	completion, err := c.completeWithRetry(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return nil, err
	}

	cards, err := ParseFlashcards(completion)
	if err != nil {
		logger.FromContextOrDefault(ctx, c.logger).WarnContext(ctx, "language model response rejected",
			slog.String("error", redact.Error(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "response validation failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("generation.generated_count", len(cards)))
	return &Output{Flashcards: cards, Model: c.config.Model}, nil
}

// completeWithRetry runs the attempt state machine: each attempt ends in
// succeeded, failed_fatal or failed_retryable, and only the last one leads
// to another attempt after a backoff sleep.
func (c *Client) completeWithRetry(ctx context.Context, req ChatRequest) (*Completion, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	maxAttempts := c.config.Retry.Attempts()

	var lastErr, lastKind error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		log.InfoContext(ctx, "making language model API call",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxAttempts))

		completion, err := c.attempt(ctx, req, attempt)
		state, kind := nextState(err)

		switch state {
		case stateSucceeded:
			log.InfoContext(ctx, "language model API call successful", slog.Int("attempt", attempt+1))
			return completion, nil

		case stateFailedFatal:
			log.WarnContext(ctx, "permanent error occurred, not retrying",
				slog.Int("attempt", attempt+1),
				slog.String("kind", kind.Error()),
				slog.String("error", redact.Error(err)))
			return nil, fmt.Errorf("%w: %w", kind, err)

		case stateFailedRetryable:
			lastErr, lastKind = err, kind
			if attempt+1 >= maxAttempts {
				continue
			}

			delay := c.config.Retry.Delay(attempt)
			log.InfoContext(ctx, "retrying after delay",
				slog.Int("attempt", attempt+1),
				slog.String("kind", kind.Error()),
				slog.Duration("delay", delay),
				slog.String("error", redact.Error(err)))

			if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
				log.WarnContext(ctx, "language model call cancelled during retry delay",
					slog.Int("attempt", attempt+1),
					slog.String("ctx_err", sleepErr.Error()))
				return nil, fmt.Errorf("%w: retry interrupted: %w", kind, sleepErr)
			}
		}
	}

	log.WarnContext(ctx, "maximum retry attempts reached",
		slog.Int("max_attempts", maxAttempts),
		slog.String("kind", lastKind.Error()))
	return nil, fmt.Errorf("%w after %d attempts: %w", lastKind, maxAttempts, lastErr)
}

// attempt performs a single provider call inside its own span.
func (c *Client) attempt(ctx context.Context, req ChatRequest, attempt int) (*Completion, error) {
	ctx, span := c.tracer.Start(ctx, "llm.attempt", trace.WithAttributes(
		attribute.String("llm.provider", c.provider.Name()),
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.attempt", attempt+1),
	))
	defer span.End()

	completion, err := c.provider.Complete(ctx, req)
	if err != nil {
		state, kind := nextState(err)
		var sc HTTPStatusCoder
		if errors.As(err, &sc) {
			span.SetAttributes(attribute.Int("http.response.status_code", sc.HTTPStatusCode()))
		}
		span.SetAttributes(
			attribute.String("llm.attempt.state", state.String()),
			attribute.String("llm.error.kind", kindLabel(kind)),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("llm.attempt.state", stateSucceeded.String()))
	span.SetStatus(codes.Ok, "")
	return completion, nil
}

func kindLabel(kind error) string {
	return strings.ReplaceAll(kind.Error(), " ", "_")
}
