package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(fileBytes []byte, password string) (string, error) {
	args := m.Called(fileBytes, password)
	return args.String(0), args.Error(1)
}
