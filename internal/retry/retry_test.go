package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockSource calls a function on each invocation, tracking call count.
type mockSource struct {
	calls int
	fn    func(attempt int) ([]model.Listing, error)
}

func (m *mockSource) Name() string { return "mock" }

func (m *mockSource) Fetch(_ context.Context, _ model.SearchCriteria, _ int) ([]model.Listing, error) {
	m.calls++
	return m.fn(m.calls)
}

var criteria = model.SearchCriteria{Keywords: []string{"go"}, Limit: 10}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	listings := []model.Listing{{ExternalID: "a_1", Title: "Engineer"}}
	mock := &mockSource{fn: func(_ int) ([]model.Listing, error) {
		return listings, nil
	}}

	rs := NewSource(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := rs.Fetch(context.Background(), criteria, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ExternalID != "a_1" {
		t.Fatalf("unexpected listings: %v", got)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	listings := []model.Listing{{ExternalID: "a_1"}}
	mock := &mockSource{fn: func(attempt int) ([]model.Listing, error) {
		if attempt == 1 {
			return nil, &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return listings, nil
	}}

	rs := NewSource(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := rs.Fetch(context.Background(), criteria, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected listings after retry, got %v", got)
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetry429(t *testing.T) {
	partial := []model.Listing{{ExternalID: "a_1"}}
	mock := &mockSource{fn: func(_ int) ([]model.Listing, error) {
		return partial, &model.HTTPError{StatusCode: 429, RetryAfter: time.Minute}
	}}

	rs := NewSource(mock, 3, 10*time.Millisecond, discardLogger())
	got, err := rs.Fetch(context.Background(), criteria, 10)
	if err == nil {
		t.Fatal("expected the 429 to surface")
	}
	if !model.IsRateLimited(err) {
		t.Fatalf("expected rate-limit error, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("429 must not be retried, got %d calls", mock.calls)
	}
	if len(got) != 1 {
		t.Fatalf("partial results must pass through, got %v", got)
	}
}

func TestRetry_DoesNotRetry404(t *testing.T) {
	mock := &mockSource{fn: func(_ int) ([]model.Listing, error) {
		return nil, &model.HTTPError{StatusCode: 404}
	}}

	rs := NewSource(mock, 3, 10*time.Millisecond, discardLogger())
	if _, err := rs.Fetch(context.Background(), criteria, 10); err == nil {
		t.Fatal("expected error")
	}
	if mock.calls != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", mock.calls)
	}
}

func TestRetry_ExhaustsRetriesAndKeepsBestPartial(t *testing.T) {
	mock := &mockSource{fn: func(attempt int) ([]model.Listing, error) {
		if attempt == 2 {
			return []model.Listing{{ExternalID: "a_1"}, {ExternalID: "a_2"}},
				&model.HTTPError{StatusCode: 500}
		}
		return nil, &model.HTTPError{StatusCode: 500}
	}}

	rs := NewSource(mock, 2, time.Millisecond, discardLogger())
	got, err := rs.Fetch(context.Background(), criteria, 10)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if mock.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", mock.calls)
	}
	if len(got) != 2 {
		t.Fatalf("expected best partial result preserved, got %v", got)
	}
}

func TestRetry_PerCallTimeoutIsRetried(t *testing.T) {
	// An http.Client timeout surfaces as a url.Error wrapping
	// context.DeadlineExceeded even though the request context is still live.
	timeoutErr := &url.Error{Op: "Get", URL: "https://example.com/api", Err: context.DeadlineExceeded}

	listings := []model.Listing{{ExternalID: "a_1"}}
	mock := &mockSource{fn: func(attempt int) ([]model.Listing, error) {
		if attempt == 1 {
			return nil, timeoutErr
		}
		return listings, nil
	}}

	rs := NewSource(mock, 2, time.Millisecond, discardLogger())
	got, err := rs.Fetch(context.Background(), criteria, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected listings after retry, got %v", got)
	}
	if mock.calls != 2 {
		t.Fatalf("per-call timeout must be retried, got %d calls", mock.calls)
	}
}

func TestRetry_ExpiredContextDeadlineNotRetried(t *testing.T) {
	mock := &mockSource{fn: func(_ int) ([]model.Listing, error) {
		return nil, context.DeadlineExceeded
	}}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	rs := NewSource(mock, 3, time.Millisecond, discardLogger())
	if _, err := rs.Fetch(ctx, criteria, 10); err == nil {
		t.Fatal("expected error")
	}
	if mock.calls != 1 {
		t.Fatalf("expired request deadline must not be retried, got %d calls", mock.calls)
	}
}

func TestRetry_ContextCancelledNotRetried(t *testing.T) {
	mock := &mockSource{fn: func(_ int) ([]model.Listing, error) {
		return nil, context.Canceled
	}}

	rs := NewSource(mock, 3, time.Millisecond, discardLogger())
	if _, err := rs.Fetch(context.Background(), criteria, 10); err == nil {
		t.Fatal("expected error")
	}
	if mock.calls != 1 {
		t.Fatalf("cancellation must not be retried, got %d calls", mock.calls)
	}
}
