package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/redact"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// PostgresGenerationStore implements the store.GenerationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationStore creates a new PostgreSQL implementation of the GenerationStore interface.
// It accepts a database connection or transaction managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresGenerationStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_store")),
	}
}

// Ensure PostgresGenerationStore implements store.GenerationStore interface
var _ store.GenerationStore = (*PostgresGenerationStore)(nil)

// Create implements store.GenerationStore.Create.
func (s *PostgresGenerationStore) Create(ctx context.Context, record *domain.GenerationRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if record == nil {
		return fmt.Errorf("%w: generation record is nil", store.ErrInvalidEntity)
	}
	if err := record.Validate(); err != nil {
		log.Warn("generation record validation failed during create",
			slog.String("error", err.Error()),
			slog.String("generation_id", record.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO generations (
			id, user_id, model, source_text_length, source_text_hash,
			generated_count, duration_ms, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.UserID,
		record.Model,
		record.SourceTextLength,
		record.SourceTextHash,
		record.GeneratedCount,
		record.DurationMs,
		record.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create generation record",
			slog.String("error", redact.Error(err)),
			slog.String("generation_id", record.ID.String()),
			slog.String("user_id", record.UserID.String()))
		return store.NewStoreError("generation", "create", "insert failed", MapError(err))
	}

	log.Debug("generation record created",
		slog.String("generation_id", record.ID.String()),
		slog.String("user_id", record.UserID.String()),
		slog.Int("generated_count", record.GeneratedCount))
	return nil
}

// CountSince implements store.GenerationStore.CountSince.
func (s *PostgresGenerationStore) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM generations
		WHERE user_id = $1 AND created_at >= $2
	`
	var count int
	err := s.db.QueryRowContext(ctx, query, userID, since.UTC()).Scan(&count)
	if err != nil {
		log.Error("failed to count generation records",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()),
			slog.Time("since", since))
		return 0, store.NewStoreError("generation", "count", "query failed", MapError(err))
	}

	return count, nil
}

