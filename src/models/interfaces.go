package models

import (
	"context"
)

// Completer defines the interface for completion clients
type Completer interface {
	Summarize(ctx context.Context, clinicalText string, style SummaryStyle) (*CompletionResult, error)
}

// SummaryCache defines the interface for the summary result cache.
// Get reports a missing key as ok == false with a nil error.
type SummaryCache interface {
	Get(ctx context.Context, key string) (summary string, ok bool, err error)
	Set(ctx context.Context, key string, summary string) error
	Close() error
}
