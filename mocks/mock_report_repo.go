package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"credintel/internal/domain"
)

// MockReportRepo is a mock implementation of port.ReportRepository.
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Insert(ctx context.Context, record *domain.ReportRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockReportRepo) GetLatestByPAN(ctx context.Context, pan string) (*domain.ReportRecord, error) {
	args := m.Called(ctx, pan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportRecord), args.Error(1)
}
