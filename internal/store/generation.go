package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck-api/internal/domain"
)

// GenerationStore defines the interface for generation record persistence.
type GenerationStore interface {
	// Create saves a new generation record.
	// Returns ErrInvalidEntity if the record fails domain validation.
	Create(ctx context.Context, record *domain.GenerationRecord) error

	// CountSince returns how many records userID created at or after since.
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
}
