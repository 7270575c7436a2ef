package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// MockDeckStore implements store.DeckStore for testing
type MockDeckStore struct {
	// GetOwnerIDFn allows test cases to mock the GetOwnerID behavior
	GetOwnerIDFn func(ctx context.Context, deckID uuid.UUID) (uuid.UUID, error)

	// Owners maps deck IDs to owners when GetOwnerIDFn is nil.
	// Unknown decks yield store.ErrDeckNotFound.
	Owners map[uuid.UUID]uuid.UUID
}

var _ store.DeckStore = (*MockDeckStore)(nil)

// GetOwnerID implements the store.DeckStore interface
func (m *MockDeckStore) GetOwnerID(ctx context.Context, deckID uuid.UUID) (uuid.UUID, error) {
	if m.GetOwnerIDFn != nil {
		return m.GetOwnerIDFn(ctx, deckID)
	}
	owner, ok := m.Owners[deckID]
	if !ok {
		return uuid.Nil, store.ErrDeckNotFound
	}
	return owner, nil
}
