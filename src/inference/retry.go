package inference

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/models"
)

// RetryingCompleter retries transport failures with exponential backoff.
// Upstream responses, successful or not, are returned as-is.
type RetryingCompleter struct {
	next            models.Completer
	maxRetries      int
	initialInterval time.Duration
}

func NewRetryingCompleter(next models.Completer, maxRetries int, initialInterval time.Duration) *RetryingCompleter {
	if initialInterval <= 0 {
		initialInterval = 500 * time.Millisecond
	}
	return &RetryingCompleter{
		next:            next,
		maxRetries:      maxRetries,
		initialInterval: initialInterval,
	}
}

func (r *RetryingCompleter) Summarize(ctx context.Context, clinicalText string, style models.SummaryStyle) (*models.CompletionResult, error) {
	if r.maxRetries <= 0 {
		return r.next.Summarize(ctx, clinicalText, style)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.initialInterval

	operation := func() (*models.CompletionResult, error) {
		result, err := r.next.Summarize(ctx, clinicalText, style)
		if err == nil {
			return result, nil
		}

		var transportErr *models.TransportError
		if !errors.As(err, &transportErr) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(r.maxRetries+1)),
	)
}
