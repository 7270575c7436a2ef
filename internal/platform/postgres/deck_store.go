package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/redact"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// PostgresDeckStore implements store.DeckStore.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

// GetOwnerID implements store.DeckStore.GetOwnerID.
func (s *PostgresDeckStore) GetOwnerID(ctx context.Context, deckID uuid.UUID) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var ownerID uuid.UUID
	err := s.db.QueryRowContext(ctx, `SELECT user_id FROM decks WHERE id = $1`, deckID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.String("deck_id", deckID.String()))
			return uuid.Nil, store.ErrDeckNotFound
		}
		log.Error("failed to look up deck owner",
			slog.String("error", redact.Error(err)),
			slog.String("deck_id", deckID.String()))
		return uuid.Nil, store.NewStoreError("deck", "get_owner", "query failed", MapError(err))
	}

	return ownerID, nil
}
