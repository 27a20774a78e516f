// Package retry wraps a job source with bounded retries on transient
// failures. Rate-limit responses are deliberately not retried: a 429 means
// the source is done for this request, and the orchestrator abandons it.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// Source is a decorator that retries transient failures with exponential
// backoff and jitter before delegating to the wrapped JobSource.
type Source struct {
	inner      model.JobSource
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewSource wraps a JobSource with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewSource(inner model.JobSource, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Source {
	return &Source{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

func (s *Source) Name() string { return s.inner.Name() }

// Fetch attempts to fetch listings, retrying on transient errors. When every
// attempt fails, the largest partial result seen is returned alongside the
// last error so the caller can still merge it.
func (s *Source) Fetch(ctx context.Context, criteria model.SearchCriteria, maxResults int) ([]model.Listing, error) {
	listings, err := s.inner.Fetch(ctx, criteria, maxResults)
	if err == nil {
		return listings, nil
	}

	if !isRetryable(ctx, err) {
		return listings, err
	}

	best := listings
	lastErr := err
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		delay := s.backoffDelay(attempt, lastErr)

		s.logger.Warn("retrying after transient error",
			"source", s.inner.Name(),
			"attempt", attempt,
			"max_retries", s.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return best, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		listings, err = s.inner.Fetch(ctx, criteria, maxResults)
		if err == nil {
			return listings, nil
		}
		if len(listings) > len(best) {
			best = listings
		}
		if !isRetryable(ctx, err) {
			return best, err
		}
		lastErr = err
	}

	return best, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration, that takes precedence.
func (s *Source) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := s.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	// Apply ±30% jitter
	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)

	return delay
}

// isRetryable returns true if the error represents a transient failure worth
// retrying. 429 is transient for the source but terminal for this request,
// so it is excluded here and handled by the orchestrator's circuit break.
func isRetryable(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	// The caller giving up is final; a single slow request is not. An
	// http.Client timeout matches context.DeadlineExceeded, so the two are
	// told apart by whether the request context itself is done.
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		// 429: abandon the source for this request.
		if httpErr.StatusCode == 429 {
			return false
		}
		// 5xx is retryable, other 4xx are not.
		if httpErr.StatusCode >= 500 {
			return true
		}
		return false
	}

	// Network errors, DNS failures and the like are retryable.
	return true
}
