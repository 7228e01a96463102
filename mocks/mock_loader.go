package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"credintel/internal/domain"
)

// MockLoader is a mock implementation of loader.Loader.
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context, input *domain.ResolvedInput) (*domain.NormalizedDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NormalizedDocument), args.Error(1)
}
