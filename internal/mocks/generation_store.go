package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockGenerationStore is a mock of store.GenerationStore for use with testify/mock
type TestifyMockGenerationStore struct {
	mock.Mock
}

var _ store.GenerationStore = (*TestifyMockGenerationStore)(nil)

// Create is a mock implementation of store.GenerationStore.Create
func (m *TestifyMockGenerationStore) Create(ctx context.Context, record *domain.GenerationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// CountSince is a mock implementation of store.GenerationStore.CountSince
func (m *TestifyMockGenerationStore) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

