package llm

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of Client using testify/mock.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockFactory is a mock implementation of Factory using testify/mock.
type MockFactory struct {
	mock.Mock
}

func (m *MockFactory) New(ctx context.Context, apiKey string) (Client, error) {
	args := m.Called(ctx, apiKey)
	c, _ := args.Get(0).(Client)
	return c, args.Error(1)
}
