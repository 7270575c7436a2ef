package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/redact"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// Generator produces validated flashcards from source text.
// *generation.Client implements it.
type Generator interface {
	Generate(ctx context.Context, sourceText string, count int) (*generation.Output, error)
	Model() string
}

// GenerateParams is one generation request.
type GenerateParams struct {
	UserID         uuid.UUID
	DeckID         uuid.UUID
	SourceText     string
	RequestedCount int
}

// GenerationResult is returned to the caller of Generate.
type GenerationResult struct {
	// GenerationID is empty when the generation could not be recorded.
	GenerationID   string                     `json:"generation_id"`
	GeneratedCount int                        `json:"generated_count"`
	Proposals      []domain.FlashcardProposal `json:"proposals"`
	CreatedAt      time.Time                  `json:"created_at"`
}

// QuotaStatus describes a user's daily generation quota.
type QuotaStatus struct {
	Used      int       `json:"used"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetsAt  time.Time `json:"resets_at"`
}

// GenerationService runs the flashcard generation pipeline.
type GenerationService interface {
	// Generate produces unaccepted flashcard proposals for params.DeckID.
	Generate(ctx context.Context, params GenerateParams) (*GenerationResult, error)

	// QuotaStatus reports how much of today's quota userID has used.
	QuotaStatus(ctx context.Context, userID uuid.UUID) (*QuotaStatus, error)
}

// GenerationServiceConfig holds the limits enforced by the service.
type GenerationServiceConfig struct {
	DailyLimit int
	Limits     generation.Limits
}

// GenerationServiceOption customizes a GenerationService.
type GenerationServiceOption func(*generationServiceImpl)

// WithClock replaces time.Now, e.g. to pin the current UTC day in tests.
func WithClock(now func() time.Time) GenerationServiceOption {
	return func(s *generationServiceImpl) {
		s.now = now
	}
}

type generationServiceImpl struct {
	generations store.GenerationStore
	decks       store.DeckStore
	generator   Generator
	config      GenerationServiceConfig
	logger      *slog.Logger
	now         func() time.Time
}

// NewGenerationService creates a GenerationService.
// It returns an error if any of the required dependencies are nil.
func NewGenerationService(
	generations store.GenerationStore,
	decks store.DeckStore,
	generator Generator,
	cfg GenerationServiceConfig,
	logger *slog.Logger,
	opts ...GenerationServiceOption,
) (GenerationService, error) {
	if generations == nil {
		return nil, &GenerationServiceError{Operation: "create_service", Message: "generation store cannot be nil"}
	}
	if decks == nil {
		return nil, &GenerationServiceError{Operation: "create_service", Message: "deck store cannot be nil"}
	}
	if generator == nil {
		return nil, &GenerationServiceError{Operation: "create_service", Message: "generator cannot be nil"}
	}
	if cfg.DailyLimit <= 0 {
		return nil, &GenerationServiceError{Operation: "create_service", Message: "daily limit must be positive"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &generationServiceImpl{
		generations: generations,
		decks:       decks,
		generator:   generator,
		config:      cfg,
		logger:      logger.With("component", "generation_service"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate implements GenerationService.Generate.
func (s *generationServiceImpl) Generate(ctx context.Context, params GenerateParams) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", params.UserID.String()),
		slog.String("deck_id", params.DeckID.String()),
	)

	if err := s.checkDeckOwnership(ctx, params.UserID, params.DeckID); err != nil {
		return nil, err
	}

	if err := s.checkQuota(ctx, log, params.UserID); err != nil {
		return nil, err
	}

	input := generation.Input{SourceText: params.SourceText, RequestedCount: params.RequestedCount}
	if err := generation.ValidateInput(input, s.config.Limits); err != nil {
		log.InfoContext(ctx, "generation input rejected", slog.String("reason", err.Error()))
		return nil, err
	}

	start := s.now()
	out, err := s.generator.Generate(ctx, params.SourceText, params.RequestedCount)
	if err != nil {
		log.ErrorContext(ctx, "flashcard generation failed", slog.String("error", redact.Error(err)))
		return nil, err
	}
	duration := s.now().Sub(start)

	model := out.Model
	if model == "" {
		model = s.generator.Model()
	}

	record, recErr := s.recordGeneration(ctx, params, model, len(out.Flashcards), duration)

	var generationID *uuid.UUID
	result := &GenerationResult{GeneratedCount: len(out.Flashcards)}
	if recErr != nil {
		// Bookkeeping only: the proposals are returned without a generation ID.
		log.WarnContext(ctx, "continuing without generation record",
			slog.String("error", redact.Error(recErr)))
		result.CreatedAt = s.now().UTC()
	} else {
		id := record.ID
		generationID = &id
		result.GenerationID = record.ID.String()
		result.CreatedAt = record.CreatedAt
	}

	result.Proposals = domain.AssembleProposals(out.Flashcards, generationID, params.DeckID)

	log.InfoContext(ctx, "flashcards generated",
		slog.String("generation_id", result.GenerationID),
		slog.Int("requested_count", params.RequestedCount),
		slog.Int("generated_count", result.GeneratedCount),
		slog.Int64("duration_ms", duration.Milliseconds()))

	return result, nil
}

// QuotaStatus implements GenerationService.QuotaStatus.
func (s *generationServiceImpl) QuotaStatus(ctx context.Context, userID uuid.UUID) (*QuotaStatus, error) {
	dayStart := startOfUTCDay(s.now())

	used, err := s.generations.CountSince(ctx, userID, dayStart)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).ErrorContext(ctx, "failed to count generations",
			slog.String("user_id", userID.String()),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("%w: %w", ErrQuotaCheckFailed, err)
	}

	remaining := s.config.DailyLimit - used
	if remaining < 0 {
		remaining = 0
	}

	return &QuotaStatus{
		Used:      used,
		Limit:     s.config.DailyLimit,
		Remaining: remaining,
		ResetsAt:  dayStart.Add(24 * time.Hour),
	}, nil
}

func (s *generationServiceImpl) checkDeckOwnership(ctx context.Context, userID, deckID uuid.UUID) error {
	ownerID, err := s.decks.GetOwnerID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDeckNotFound
		}
		return &GenerationServiceError{Operation: "check_deck", Message: "failed to look up deck", Err: err}
	}
	if ownerID != userID {
		return ErrDeckNotOwned
	}
	return nil
}

// checkQuota fails with ErrDailyLimitExceeded once the user has used the
// daily limit since the start of the current UTC day.
func (s *generationServiceImpl) checkQuota(ctx context.Context, log *slog.Logger, userID uuid.UUID) error {
	status, err := s.QuotaStatus(ctx, userID)
	if err != nil {
		return err
	}

	if status.Used >= status.Limit {
		log.InfoContext(ctx, "daily generation limit reached",
			slog.Int("used", status.Used),
			slog.Int("limit", status.Limit))
		return &QuotaExceededError{Used: status.Used, Limit: status.Limit, ResetsAt: status.ResetsAt}
	}
	return nil
}

// recordGeneration persists the generation metadata. Every failure is
// reported as ErrRecordingFailed.
func (s *generationServiceImpl) recordGeneration(
	ctx context.Context,
	params GenerateParams,
	model string,
	generatedCount int,
	duration time.Duration,
) (*domain.GenerationRecord, error) {
	record, err := domain.NewGenerationRecord(params.UserID, model, params.SourceText, generatedCount, duration, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecordingFailed, err)
	}

	if err := s.generations.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecordingFailed, err)
	}
	return record, nil
}

func startOfUTCDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
