package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"credintel/internal/port"
)

// MockInferenceClient is a mock implementation of port.InferenceClient.
type MockInferenceClient struct {
	mock.Mock
}

func (m *MockInferenceClient) Complete(ctx context.Context, prompt string) (*port.CompletionOutput, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.CompletionOutput), args.Error(1)
}

func (m *MockInferenceClient) ProviderName() string {
	args := m.Called()
	return args.String(0)
}
