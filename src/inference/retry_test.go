package inference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/config"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/mocks"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/models"
)

func TestRetryingCompleter_RetriesTransportErrors(t *testing.T) {
	next := new(mocks.MockCompleter)
	transportErr := &models.TransportError{Err: errors.New("connection reset")}

	next.On("Summarize", mock.Anything, "note", models.StyleBrief).Return(nil, transportErr).Twice()
	next.On("Summarize", mock.Anything, "note", models.StyleBrief).Return(&models.CompletionResult{Summary: "ok"}, nil).Once()

	r := NewRetryingCompleter(next, 2, time.Millisecond)

	result, err := r.Summarize(context.Background(), "note", models.StyleBrief)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Summary)
	next.AssertNumberOfCalls(t, "Summarize", 3)
}

func TestRetryingCompleter_GivesUpAfterMaxRetries(t *testing.T) {
	next := new(mocks.MockCompleter)
	transportErr := &models.TransportError{Err: errors.New("connection refused")}
	next.On("Summarize", mock.Anything, mock.Anything, mock.Anything).Return(nil, transportErr)

	r := NewRetryingCompleter(next, 2, time.Millisecond)

	_, err := r.Summarize(context.Background(), "note", models.StyleBrief)

	var got *models.TransportError
	assert.True(t, errors.As(err, &got))
	next.AssertNumberOfCalls(t, "Summarize", 3)
}

func TestRetryingCompleter_NeverRetriesUpstreamErrors(t *testing.T) {
	next := new(mocks.MockCompleter)
	upstreamErr := &models.UpstreamError{StatusCode: 429, Message: "rate limited"}
	next.On("Summarize", mock.Anything, mock.Anything, mock.Anything).Return(nil, upstreamErr)

	r := NewRetryingCompleter(next, 3, time.Millisecond)

	_, err := r.Summarize(context.Background(), "note", models.StyleBrief)

	var got *models.UpstreamError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 429, got.StatusCode)
	next.AssertNumberOfCalls(t, "Summarize", 1)
}

func TestRetryingCompleter_ZeroRetries(t *testing.T) {
	next := new(mocks.MockCompleter)
	next.On("Summarize", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &models.TransportError{Err: errors.New("down")})

	r := NewRetryingCompleter(next, 0, time.Millisecond)

	_, err := r.Summarize(context.Background(), "note", models.StyleBrief)
	assert.Error(t, err)
	next.AssertNumberOfCalls(t, "Summarize", 1)
}

func TestNewCompleter(t *testing.T) {
	c, err := NewCompleter(testLLMConfig(config.ProviderOpenAI, "http://localhost"))
	require.NoError(t, err)
	assert.IsType(t, &RetryingCompleter{}, c)

	c, err = NewCompleter(testLLMConfig(config.ProviderLangChain, "http://localhost"))
	require.NoError(t, err)
	assert.IsType(t, &RetryingCompleter{}, c)

	_, err = NewCompleter(testLLMConfig("bedrock", ""))
	assert.Error(t, err)
}
