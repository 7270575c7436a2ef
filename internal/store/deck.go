package store

import (
	"context"

	"github.com/google/uuid"
)

// DeckStore exposes the deck lookups the generation pipeline needs.
// Deck management itself lives elsewhere.
type DeckStore interface {
	// GetOwnerID returns the ID of the user owning deckID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetOwnerID(ctx context.Context, deckID uuid.UUID) (uuid.UUID, error)
}
