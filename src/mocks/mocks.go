package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/models"
)

// MockCompleter implements models.Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Summarize(ctx context.Context, clinicalText string, style models.SummaryStyle) (*models.CompletionResult, error) {
	args := m.Called(ctx, clinicalText, style)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompletionResult), args.Error(1)
}

// MockCache implements models.SummaryCache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, key string, summary string) error {
	args := m.Called(ctx, key, summary)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
