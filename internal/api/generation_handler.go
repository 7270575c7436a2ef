package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck-api/internal/api/shared"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/service"
)

// GenerationHandler handles flashcard generation requests.
type GenerationHandler struct {
	generationService service.GenerationService
	defaultCount      int
	logger            *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler. defaultCount is used
// when a request omits requested_count.
func NewGenerationHandler(
	generationService service.GenerationService,
	defaultCount int,
	logger *slog.Logger,
) *GenerationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationHandler{
		generationService: generationService,
		defaultCount:      defaultCount,
		logger:            logger.With("component", "generation_handler"),
	}
}

// GenerateFlashcards handles POST /api/decks/{deckID}/generations.
func (h *GenerationHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	deckID, err := uuid.Parse(chi.URLParam(r, "deckID"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid deck ID", err)
		return
	}

	var req GenerateFlashcardsRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	sourceText, err := generation.ParseSourceText(req.SourceText)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	count := h.defaultCount
	if req.RequestedCount != nil {
		count = *req.RequestedCount
	}

	result, err := h.generationService.Generate(r.Context(), service.GenerateParams{
		UserID:         userID,
		DeckID:         deckID,
		SourceText:     sourceText,
		RequestedCount: count,
	})
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, generationToResponse(result))
}

// GetQuota handles GET /api/generations/quota.
func (h *GenerationHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	status, err := h.generationService.QuotaStatus(r.Context(), userID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, quotaToResponse(status))
}

func (h *GenerationHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	var opts []shared.ResponseOption
	if hint := GetErrorHint(err); hint != "" {
		opts = append(opts, shared.WithHint(hint))
	}
	if errors.Is(err, service.ErrDeckNotOwned) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	var quotaErr *service.QuotaExceededError
	if errors.As(err, &quotaErr) {
		w.Header().Set("Retry-After", quotaErr.ResetsAt.UTC().Format(http.TimeFormat))
	}

	logger.FromContextOrDefault(r.Context(), h.logger).DebugContext(r.Context(), "generation request failed",
		slog.Int("status", status))

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
