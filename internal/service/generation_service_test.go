package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/mocks"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/service"
	"github.com/phrazzld/flashdeck-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

type serviceFixture struct {
	generations *mocks.TestifyMockGenerationStore
	decks       *mocks.MockDeckStore
	generator   *mocks.MockGenerator
	svc         service.GenerationService
	userID      uuid.UUID
	deckID      uuid.UUID
	logs        *logger.TestLogBuffer
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	userID := uuid.New()
	deckID := uuid.New()
	f := &serviceFixture{
		generations: &mocks.TestifyMockGenerationStore{},
		decks:       &mocks.MockDeckStore{Owners: map[uuid.UUID]uuid.UUID{deckID: userID}},
		generator: &mocks.MockGenerator{
			ModelName: "gpt-4o-mini",
			Flashcards: []domain.AIFlashcard{
				{Kind: domain.FlashcardKindQuestionAnswer, Front: "What is Go?", Back: "A programming language."},
				{Kind: domain.FlashcardKindGaps, Front: "Go was designed at ___.", Back: "Google"},
			},
		},
		userID: userID,
		deckID: deckID,
	}

	log, buf := logger.NewTestLogger(t)
	f.logs = buf

	svc, err := service.NewGenerationService(
		f.generations,
		f.decks,
		f.generator,
		service.GenerationServiceConfig{DailyLimit: 10, Limits: generation.DefaultLimits()},
		log,
		service.WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *serviceFixture) params() service.GenerateParams {
	return service.GenerateParams{
		UserID:         f.userID,
		DeckID:         f.deckID,
		SourceText:     strings.Repeat("a", 1000),
		RequestedCount: 5,
	}
}

func TestNewGenerationService_Validation(t *testing.T) {
	t.Parallel()

	gens := &mocks.TestifyMockGenerationStore{}
	decks := &mocks.MockDeckStore{}
	gen := &mocks.MockGenerator{}
	cfg := service.GenerationServiceConfig{DailyLimit: 10, Limits: generation.DefaultLimits()}

	_, err := service.NewGenerationService(nil, decks, gen, cfg, nil)
	assert.Error(t, err)
	_, err = service.NewGenerationService(gens, nil, gen, cfg, nil)
	assert.Error(t, err)
	_, err = service.NewGenerationService(gens, decks, nil, cfg, nil)
	assert.Error(t, err)
	_, err = service.NewGenerationService(gens, decks, gen, service.GenerationServiceConfig{}, nil)
	assert.Error(t, err)

	svc, err := service.NewGenerationService(gens, decks, gen, cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerate_RecordsElapsedDuration(t *testing.T) {
	t.Parallel()
	f := newServiceFixture(t)

	// Reads in order: quota window, generator start, generator end, record timestamp.
	ticks := []time.Time{
		fixedNow,
		fixedNow,
		fixedNow.Add(1500 * time.Millisecond),
		fixedNow.Add(1500 * time.Millisecond),
	}
	var calls int
	clock := func() time.Time {
		now := ticks[min(calls, len(ticks)-1)]
		calls++
		return now
	}

	log, _ := logger.NewTestLogger(t)
	svc, err := service.NewGenerationService(
		f.generations,
		f.decks,
		f.generator,
		service.GenerationServiceConfig{DailyLimit: 10, Limits: generation.DefaultLimits()},
		log,
		service.WithClock(clock),
	)
	require.NoError(t, err)

	f.generations.On("CountSince", mock.Anything, f.userID, mock.Anything).Return(0, nil)
	var saved *domain.GenerationRecord
	f.generations.On("Create", mock.Anything, mock.AnythingOfType("*domain.GenerationRecord")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.GenerationRecord)
		}).
		Return(nil)

	_, err = svc.Generate(context.Background(), f.params())
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, int64(1500), saved.DurationMs)
	assert.Equal(t, fixedNow.Add(1500*time.Millisecond), saved.CreatedAt)
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()
	f := newServiceFixture(t)

	dayStart := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	f.generations.On("CountSince", mock.Anything, f.userID, dayStart).Return(3, nil)

	var saved *domain.GenerationRecord
	f.generations.On("Create", mock.Anything, mock.AnythingOfType("*domain.GenerationRecord")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.GenerationRecord)
		}).
		Return(nil)

	result, err := f.svc.Generate(context.Background(), f.params())
	require.NoError(t, err)
	f.generations.AssertExpectations(t)

	require.NotNil(t, saved)
	assert.Equal(t, f.userID, saved.UserID)
	assert.Equal(t, "gpt-4o-mini", saved.Model)
	assert.Equal(t, 1000, saved.SourceTextLength)
	assert.Equal(t, domain.HashSourceText(strings.Repeat("a", 1000)), saved.SourceTextHash)
	assert.Equal(t, 2, saved.GeneratedCount)
	assert.Equal(t, int64(0), saved.DurationMs)

	assert.Equal(t, saved.ID.String(), result.GenerationID)
	assert.Equal(t, 2, result.GeneratedCount)
	assert.Equal(t, fixedNow, result.CreatedAt)
	require.Len(t, result.Proposals, 2)
	for i, p := range result.Proposals {
		assert.Equal(t, f.generator.Flashcards[i].Front, p.Front)
		assert.Equal(t, f.generator.Flashcards[i].Kind, p.Kind)
		assert.Equal(t, domain.ProposalSourceAIFull, p.Source)
		assert.Equal(t, f.deckID, p.DeckID)
		assert.False(t, p.Accepted)
		require.NotNil(t, p.GenerationID)
		assert.Equal(t, saved.ID, *p.GenerationID)
	}
}

func TestGenerate_QuotaExceeded(t *testing.T) {
	t.Parallel()
	f := newServiceFixture(t)

	f.generations.On("CountSince", mock.Anything, f.userID, mock.Anything).Return(10, nil)

	_, err := f.svc.Generate(context.Background(), f.params())
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrDailyLimitExceeded)

	var quotaErr *service.QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, 10, quotaErr.Used)
	assert.Equal(t, 10, quotaErr.Limit)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), quotaErr.ResetsAt)

	assert.Equal(t, 0, f.generator.Calls(), "no language model call once the quota is used up")
	f.generations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGenerate_QuotaCheckFailure(t *testing.T) {
	t.Parallel()
	f := newServiceFixture(t)

	dbErr := errors.New("connection reset")
	f.generations.On("CountSince", mock.Anything, f.userID, mock.Anything).Return(0, dbErr)

	_, err := f.svc.Generate(context.Background(), f.params())
	assert.ErrorIs(t, err, service.ErrQuotaCheckFailed)
	assert.ErrorIs(t, err, dbErr)
	assert.Equal(t, 0, f.generator.Calls())
}

func TestGenerate_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*service.GenerateParams)
		wantErr error
	}{
		{
			name:    "text too short",
			mutate:  func(p *service.GenerateParams) { p.SourceText = strings.Repeat("a", 999) },
			wantErr: generation.ErrTextTooShort,
		},
		{
			name:    "text too long",
			mutate:  func(p *service.GenerateParams) { p.SourceText = strings.Repeat("a", 10001) },
			wantErr: generation.ErrTextTooLong,
		},
		{
			name:    "count zero",
			mutate:  func(p *service.GenerateParams) { p.RequestedCount = 0 },
			wantErr: generation.ErrInvalidCount,
		},
		{
			name:    "count too large",
			mutate:  func(p *service.GenerateParams) { p.RequestedCount = 101 },
			wantErr: generation.ErrInvalidCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newServiceFixture(t)
			f.generations.On("CountSince", mock.Anything, f.userID, mock.Anything).Return(0, nil)

			params := f.params()
			tt.mutate(&params)

			_, err := f.svc.Generate(context.Background(), params)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.generator.Calls())
			f.generations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerate_DeckChecks(t *testing.T) {
	t.Parallel()

	t.Run("missing deck", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		params := f.params()
		params.DeckID = uuid.New()

		_, err := f.svc.Generate(context.Background(), params)
		assert.ErrorIs(t, err, service.ErrDeckNotFound)
		f.generations.AssertNotCalled(t, "CountSince", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deck of another user", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		f.decks.Owners[f.deckID] = uuid.New()

		_, err := f.svc.Generate(context.Background(), f.params())
		assert.ErrorIs(t, err, service.ErrDeckNotOwned)
		assert.Equal(t, 0, f.generator.Calls())
	})

	t.Run("lookup failure", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		dbErr := errors.New("timeout")
		f.decks.GetOwnerIDFn = func(ctx context.Context, deckID uuid.UUID) (uuid.UUID, error) {
			return uuid.Nil, store.NewStoreError("deck", "get_owner", "query failed", dbErr)
		}

		_, err := f.svc.Generate(context.Background(), f.params())
		var svcErr *service.GenerationServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "check_deck", svcErr.Operation)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestGenerate_GeneratorFailure(t *testing.T) {
	t.Parallel()
	f := newServiceFixture(t)
	f.generations.On("CountSince", mock.Anything, f.userID, mock.Anything).Return(0, nil)

	genErr := errors.New("rate limited after 4 attempts")
	f.generator.Err = genErr

	_, err := f.svc.Generate(context.Background(), f.params())
	assert.ErrorIs(t, err, genErr)
	f.generations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGenerate_RecorderFailureStillReturnsProposals(t *testing.T) {
	t.Parallel()
	f := newServiceFixture(t)
	f.generations.On("CountSince", mock.Anything, f.userID, mock.Anything).Return(0, nil)
	f.generations.On("Create", mock.Anything, mock.Anything).
		Return(store.NewStoreError("generation", "create", "insert failed", errors.New("disk full")))

	result, err := f.svc.Generate(context.Background(), f.params())
	require.NoError(t, err)

	assert.Empty(t, result.GenerationID)
	assert.Equal(t, 2, result.GeneratedCount)
	require.Len(t, result.Proposals, 2)
	for _, p := range result.Proposals {
		assert.Nil(t, p.GenerationID)
		assert.False(t, p.Accepted)
		assert.Equal(t, domain.ProposalSourceAIFull, p.Source)
	}

	entries, err := f.logs.Entries()
	require.NoError(t, err)
	var warned bool
	for _, e := range entries {
		if e["msg"] == "continuing without generation record" {
			warned = true
			assert.Equal(t, "WARN", e["level"])
		}
	}
	assert.True(t, warned, "recorder failure should be logged as a warning")
}

func TestGenerate_EmptyFlashcardList(t *testing.T) {
	t.Parallel()
	f := newServiceFixture(t)
	f.generator.Flashcards = []domain.AIFlashcard{}
	f.generations.On("CountSince", mock.Anything, f.userID, mock.Anything).Return(0, nil)
	f.generations.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.Generate(context.Background(), f.params())
	require.NoError(t, err)
	assert.Equal(t, 0, result.GeneratedCount)
	assert.NotNil(t, result.Proposals)
	assert.Empty(t, result.Proposals)
	assert.NotEmpty(t, result.GenerationID)
}

func TestQuotaStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		used          int
		wantRemaining int
	}{
		{name: "unused", used: 0, wantRemaining: 10},
		{name: "partially used", used: 4, wantRemaining: 6},
		{name: "over limit", used: 12, wantRemaining: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newServiceFixture(t)
			f.generations.On("CountSince", mock.Anything, f.userID, mock.Anything).Return(tt.used, nil)

			status, err := f.svc.QuotaStatus(context.Background(), f.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.used, status.Used)
			assert.Equal(t, 10, status.Limit)
			assert.Equal(t, tt.wantRemaining, status.Remaining)
			assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), status.ResetsAt)
		})
	}
}
