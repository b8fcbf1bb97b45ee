package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of ai.Client
type Client struct {
	mock.Mock
}

func (m *Client) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

func (m *Client) GenerateFromFile(ctx context.Context, system, prompt string, data []byte, mimeType string) (string, error) {
	args := m.Called(ctx, system, prompt, data, mimeType)
	return args.String(0), args.Error(1)
}
