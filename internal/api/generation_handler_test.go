package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck-api/internal/api/shared"
	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/mocks"
	"github.com/phrazzld/flashdeck-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(h *GenerationHandler, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := shared.SetTraceID(req.Context())
			if userID != uuid.Nil {
				ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/api/decks/{deckID}/generations", h.GenerateFlashcards)
	r.Get("/api/generations/quota", h.GetQuota)
	return r
}

func sourceTextBody(t *testing.T, text string, count *int) string {
	t.Helper()
	body := map[string]any{"source_text": text}
	if count != nil {
		body["requested_count"] = *count
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return string(raw)
}

func TestGenerateFlashcards_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckID := uuid.New()
	generationID := uuid.New()
	createdAt := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	text := strings.Repeat("x", 1200)

	var got service.GenerateParams
	svc := &mocks.MockGenerationService{
		GenerateFn: func(ctx context.Context, params service.GenerateParams) (*service.GenerationResult, error) {
			got = params
			cards := []domain.AIFlashcard{
				{Kind: domain.FlashcardKindQuestionAnswer, Front: "Q1", Back: "A1"},
				{Kind: domain.FlashcardKindGaps, Front: "The ___ is blue", Back: "sky"},
			}
			return &service.GenerationResult{
				GenerationID:   generationID.String(),
				GeneratedCount: len(cards),
				Proposals:      domain.AssembleProposals(cards, &generationID, params.DeckID),
				CreatedAt:      createdAt,
			}, nil
		},
	}
	router := newTestRouter(NewGenerationHandler(svc, 10, nil), userID)

	count := 12
	req := httptest.NewRequest(http.MethodPost, "/api/decks/"+deckID.String()+"/generations",
		strings.NewReader(sourceTextBody(t, text, &count)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, deckID, got.DeckID)
	assert.Equal(t, text, got.SourceText)
	assert.Equal(t, 12, got.RequestedCount)

	var resp GenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, generationID.String(), resp.GenerationID)
	assert.Equal(t, 2, resp.GeneratedCount)
	assert.True(t, createdAt.Equal(resp.CreatedAt))
	require.Len(t, resp.Proposals, 2)
	assert.Equal(t, "question-answer", resp.Proposals[0].Kind)
	assert.Equal(t, "gaps", resp.Proposals[1].Kind)
	for _, p := range resp.Proposals {
		assert.Equal(t, "ai-full", p.Source)
		assert.False(t, p.Accepted)
		assert.Equal(t, deckID.String(), p.DeckID)
		require.NotNil(t, p.GenerationID)
		assert.Equal(t, generationID.String(), *p.GenerationID)
	}
}

func TestGenerateFlashcards_DefaultCountWithoutGenerationRecord(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()
	var gotCount int
	svc := &mocks.MockGenerationService{
		GenerateFn: func(ctx context.Context, params service.GenerateParams) (*service.GenerationResult, error) {
			gotCount = params.RequestedCount
			cards := []domain.AIFlashcard{{Kind: domain.FlashcardKindQuestionAnswer, Front: "Q", Back: "A"}}
			return &service.GenerationResult{
				GeneratedCount: 1,
				Proposals:      domain.AssembleProposals(cards, nil, params.DeckID),
				CreatedAt:      time.Now().UTC(),
			}, nil
		},
	}
	router := newTestRouter(NewGenerationHandler(svc, 10, nil), uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/decks/"+deckID.String()+"/generations",
		strings.NewReader(sourceTextBody(t, strings.Repeat("y", 1000), nil)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 10, gotCount)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	id, ok := raw["generation_id"]
	require.True(t, ok, "generation_id must be present")
	assert.Equal(t, "", id)
	proposals := raw["proposals"].([]any)
	require.Len(t, proposals, 1)
	proposal := proposals[0].(map[string]any)
	require.Contains(t, proposal, "generation_id")
	assert.Nil(t, proposal["generation_id"])
}

func TestGenerateFlashcards_RequestErrors(t *testing.T) {
	t.Parallel()

	deckID := uuid.New().String()

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid deck id",
			path:       "/api/decks/not-a-uuid/generations",
			body:       `{"source_text":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid deck ID",
		},
		{
			name:       "malformed body",
			path:       "/api/decks/" + deckID + "/generations",
			body:       `{"source_text":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "source text is a number",
			path:       "/api/decks/" + deckID + "/generations",
			body:       `{"source_text":42}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "source_text must be a string",
		},
		{
			name:       "source text missing",
			path:       "/api/decks/" + deckID + "/generations",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "source_text must be a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mocks.MockGenerationService{
				GenerateFn: func(ctx context.Context, params service.GenerateParams) (*service.GenerationResult, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}
			router := newTestRouter(NewGenerationHandler(svc, 10, nil), uuid.New())

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
			assert.NotEmpty(t, body.TraceID)
		})
	}
}

func TestGenerateFlashcards_ServiceErrors(t *testing.T) {
	t.Parallel()

	resetsAt := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantHint   string
		wantError  string
	}{
		{
			name:       "text too short",
			err:        &generation.InputError{Kind: generation.ErrTextTooShort, Actual: 999, Min: 1000, Max: 10000},
			wantStatus: http.StatusBadRequest,
			wantError:  "source text too short, 999 chars, minimum 1000",
		},
		{
			name:       "quota exceeded",
			err:        &service.QuotaExceededError{Used: 10, Limit: 10, ResetsAt: resetsAt},
			wantStatus: http.StatusTooManyRequests,
			wantError:  "Daily generation limit reached, try again tomorrow",
		},
		{
			name:       "service unavailable",
			err:        fmt.Errorf("%w after 4 attempts: %w", generation.ErrServiceUnavailable, errors.New("status 503")),
			wantStatus: http.StatusServiceUnavailable,
			wantHint:   HintManual,
			wantError:  "Flashcard generation is temporarily unavailable, create flashcards manually or try again later",
		},
		{
			name:       "schema validation failed",
			err:        fmt.Errorf("%w: flashcards[0].kind: failed flashcard_kind", generation.ErrSchemaValidationFailed),
			wantStatus: http.StatusBadRequest,
			wantError:  "Flashcard generation failed, try again",
		},
		{
			name:       "deck owned by someone else",
			err:        service.ErrDeckNotOwned,
			wantStatus: http.StatusForbidden,
			wantError:  "You do not own this deck",
		},
		{
			name:       "provider authentication",
			err:        fmt.Errorf("%w: %w", generation.ErrAuthenticationFailed, errors.New("bad key sk-abcdefghijklmnopqrstu")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mocks.MockGenerationService{
				GenerateFn: func(ctx context.Context, params service.GenerateParams) (*service.GenerationResult, error) {
					return nil, tt.err
				},
			}
			router := newTestRouter(NewGenerationHandler(svc, 10, nil), uuid.New())

			req := httptest.NewRequest(http.MethodPost, "/api/decks/"+uuid.New().String()+"/generations",
				strings.NewReader(sourceTextBody(t, strings.Repeat("z", 1000), nil)))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotContains(t, rec.Body.String(), "sk-")

			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantHint, body.Hint)

			if tt.wantStatus == http.StatusTooManyRequests {
				assert.Equal(t, resetsAt.Format(http.TimeFormat), rec.Header().Get("Retry-After"))
			}
		})
	}
}

func TestGenerateFlashcards_Unauthenticated(t *testing.T) {
	t.Parallel()

	router := newTestRouter(NewGenerationHandler(&mocks.MockGenerationService{}, 10, nil), uuid.Nil)

	req := httptest.NewRequest(http.MethodPost, "/api/decks/"+uuid.New().String()+"/generations",
		strings.NewReader(`{"source_text":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetQuota(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	resetsAt := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	svc := &mocks.MockGenerationService{
		QuotaStatusFn: func(ctx context.Context, id uuid.UUID) (*service.QuotaStatus, error) {
			assert.Equal(t, userID, id)
			return &service.QuotaStatus{Used: 3, Limit: 10, Remaining: 7, ResetsAt: resetsAt}, nil
		},
	}
	router := newTestRouter(NewGenerationHandler(svc, 10, nil), userID)

	req := httptest.NewRequest(http.MethodGet, "/api/generations/quota", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp QuotaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, QuotaResponse{Used: 3, Limit: 10, Remaining: 7, ResetsAt: resetsAt}, resp)
}

func TestGetQuota_Failure(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockGenerationService{
		QuotaStatusFn: func(ctx context.Context, id uuid.UUID) (*service.QuotaStatus, error) {
			return nil, fmt.Errorf("%w: %w", service.ErrQuotaCheckFailed, errors.New("db down"))
		},
	}
	router := newTestRouter(NewGenerationHandler(svc, 10, nil), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/generations/quota", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
