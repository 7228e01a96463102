package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"credintel/internal/domain"
	"credintel/internal/service"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, input service.GenerateReportInput) (*domain.ReportOutcome, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportOutcome), args.Error(1)
}
