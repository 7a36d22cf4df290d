// Package summary turns clinical text into style-shaped summaries, answering
// repeated (text, style) pairs from a cache instead of the completion API.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/cache"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/metrics"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/models"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/utils"
)

// Result is a summary ready to return to a caller.
type Result struct {
	Style      models.SummaryStyle
	Summary    string
	Structured *models.StructuredSummary
	CacheHit   bool
	TokenUsage *int
}

type Service struct {
	completer models.Completer
	cache     models.SummaryCache
	log       *slog.Logger

	// singleFlight collapses concurrent misses for one key into a single
	// completion call.
	singleFlight bool
	flights      singleflight.Group
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithSingleFlight(enabled bool) Option {
	return func(s *Service) {
		s.singleFlight = enabled
	}
}

func NewService(completer models.Completer, c models.SummaryCache, opts ...Option) *Service {
	s := &Service{
		completer: completer,
		cache:     c,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "summary")

	return s
}

// Summarize validates the text, serves the summary from the cache when
// present and otherwise calls the completion API once and caches the raw
// output. Upstream and transport failures are returned wrapped in
// models.ErrSummaryUnavailable.
func (s *Service) Summarize(ctx context.Context, clinicalText, styleName string) (*Result, error) {
	style, known := models.ParseStyle(styleName)

	if strings.TrimSpace(clinicalText) == "" {
		return nil, &models.ValidationError{
			Field:   "clinical_text",
			Message: models.MsgClinicalTextRequired,
		}
	}

	log := s.log.With("style", style.String(), "text_len", len(clinicalText))
	if !known && strings.TrimSpace(styleName) != "" {
		log.Debug("unknown summary style, using default", "requested_style", styleName)
	}

	key := cache.DeriveKey(clinicalText, style.String())

	if raw, ok := s.lookup(ctx, key, log); ok {
		s.recordHit(style, clinicalText, raw)
		return newResult(style, raw, true, nil), nil
	}

	out, err := s.complete(ctx, key, clinicalText, style, log)
	if err != nil {
		metrics.CacheMissesTotal.WithLabelValues(style.String()).Inc()
		return nil, fmt.Errorf("%w: %w", models.ErrSummaryUnavailable, err)
	}

	if out.cacheHit {
		s.recordHit(style, clinicalText, out.completion.Summary)
		return newResult(style, out.completion.Summary, true, nil), nil
	}
	metrics.CacheMissesTotal.WithLabelValues(style.String()).Inc()

	return newResult(style, out.completion.Summary, false, out.completion.TokenUsage), nil
}

func (s *Service) recordHit(style models.SummaryStyle, clinicalText, raw string) {
	metrics.CacheHitsTotal.WithLabelValues(style.String()).Inc()
	metrics.TokensSavedEstimatedTotal.Add(float64(utils.EstimateCompletionTokens(clinicalText, raw)))
}

// HandleSummarizeRequest is the entry point shared by the form page and the
// JSON API. Errors are reported in the response, never returned.
func (s *Service) HandleSummarizeRequest(ctx context.Context, req models.SummarizeRequest) *models.SummarizeResponse {
	result, err := s.Summarize(ctx, req.ClinicalText, req.SummaryStyle)
	if err != nil {
		style, _ := models.ParseStyle(req.SummaryStyle)
		resp := &models.SummarizeResponse{Style: style.String()}

		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			resp.Error = validationErr.Message
			resp.ErrorCode = models.ErrorCodeValidation
		} else {
			resp.Error = models.MsgSummaryUnavailable
			resp.ErrorCode = models.ErrorCodeUpstream
		}
		return resp
	}

	return &models.SummarizeResponse{
		Summary:    result.Summary,
		Structured: result.Structured,
		Style:      result.Style.String(),
		CacheHit:   result.CacheHit,
		TokenUsage: result.TokenUsage,
	}
}

// lookup treats a failing cache backend as a miss.
func (s *Service) lookup(ctx context.Context, key string, log *slog.Logger) (string, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("get").Inc()
		log.Warn("cache read failed, treating as miss", "cache_key", key, "error", err)
		return "", false
	}
	return raw, ok
}

// flightResult is what one flight hands to every caller sharing it.
// cacheHit is set when the flight found an entry stored by an earlier flight.
type flightResult struct {
	completion *models.CompletionResult
	cacheHit   bool
}

func (s *Service) complete(
	ctx context.Context,
	key string,
	clinicalText string,
	style models.SummaryStyle,
	log *slog.Logger,
) (*flightResult, error) {
	if !s.singleFlight {
		completion, err := s.completeAndStore(ctx, key, clinicalText, style, log)
		if err != nil {
			return nil, err
		}
		return &flightResult{completion: completion}, nil
	}

	// The shared call must outlive any single waiter's cancellation.
	flightCtx := context.WithoutCancel(ctx)

	v, err, shared := s.flights.Do(key, func() (any, error) {
		// A flight that finished between our lookup and Do has already
		// stored its result.
		if raw, ok := s.lookup(flightCtx, key, log); ok {
			return &flightResult{completion: &models.CompletionResult{Summary: raw}, cacheHit: true}, nil
		}
		completion, err := s.completeAndStore(flightCtx, key, clinicalText, style, log)
		if err != nil {
			return nil, err
		}
		return &flightResult{completion: completion}, nil
	})
	if shared {
		log.Debug("joined in-flight completion", "cache_key", key, "failed", err != nil)
	}
	if err != nil {
		return nil, err
	}

	return v.(*flightResult), nil
}

// completeAndStore makes one upstream call. Outcome metrics and failure logs
// are recorded here so each real call is counted once, however many callers
// share it.
func (s *Service) completeAndStore(
	ctx context.Context,
	key string,
	clinicalText string,
	style models.SummaryStyle,
	log *slog.Logger,
) (*models.CompletionResult, error) {
	start := time.Now()
	completion, err := s.completer.Summarize(ctx, clinicalText, style)
	metrics.UpstreamDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		s.reportFailure(log.With("cache_key", key), err)
		return nil, err
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	if completion.TokenUsage != nil {
		metrics.TokensUsedTotal.Add(float64(*completion.TokenUsage))
	}

	// The raw text is cached; shaping happens on every read.
	if err := s.cache.Set(ctx, key, completion.Summary); err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("set").Inc()
		log.Warn("failed to cache summary", "cache_key", key, "error", err)
	}

	return completion, nil
}

// reportFailure logs enough to diagnose a failed completion without the
// clinical text itself.
func (s *Service) reportFailure(log *slog.Logger, err error) {
	var upstreamErr *models.UpstreamError
	var transportErr *models.TransportError

	switch {
	case errors.As(err, &upstreamErr):
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeUpstream).Inc()
		log.Error("completion API returned an error",
			"error_kind", "upstream",
			"status_code", upstreamErr.StatusCode,
			"response", upstreamErr.Message)
	case errors.As(err, &transportErr):
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeTransport).Inc()
		log.Error("completion API unreachable",
			"error_kind", "transport",
			"error", transportErr.Err)
	default:
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeTransport).Inc()
		log.Error("completion failed", "error_kind", "unknown", "error", err)
	}
}

func newResult(style models.SummaryStyle, raw string, cacheHit bool, tokenUsage *int) *Result {
	shaped := Shape(style, raw)
	return &Result{
		Style:      style,
		Summary:    shaped.Text,
		Structured: shaped.Structured,
		CacheHit:   cacheHit,
		TokenUsage: tokenUsage,
	}
}
