package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck-api/internal/service"
)

// MockGenerationService implements service.GenerationService for handler tests
type MockGenerationService struct {
	GenerateFn    func(ctx context.Context, params service.GenerateParams) (*service.GenerationResult, error)
	QuotaStatusFn func(ctx context.Context, userID uuid.UUID) (*service.QuotaStatus, error)
}

var _ service.GenerationService = (*MockGenerationService)(nil)

// Generate implements service.GenerationService
func (m *MockGenerationService) Generate(
	ctx context.Context,
	params service.GenerateParams,
) (*service.GenerationResult, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, params)
	}
	return &service.GenerationResult{}, nil
}

// QuotaStatus implements service.GenerationService
func (m *MockGenerationService) QuotaStatus(ctx context.Context, userID uuid.UUID) (*service.QuotaStatus, error) {
	if m.QuotaStatusFn != nil {
		return m.QuotaStatusFn(ctx, userID)
	}
	return &service.QuotaStatus{}, nil
}
