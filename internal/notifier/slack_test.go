package notifier

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jobsift/jobsift/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleListing(title, company string) model.Listing {
	return model.Listing{
		ExternalID: "remoteok_123",
		Company:    company,
		Title:      title,
		Location:   "Remote, US",
		URL:        "https://example.com/apply",
		MatchScore: 72,
		Source:     "remoteok",
	}
}

func TestSlackNotifier_EmptyListings(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())

	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if err := n.Notify([]model.Listing{}); err != nil {
		t.Errorf("Notify([]) = %v, want nil", err)
	}
	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_SingleListing(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	l := sampleListing("Backend Engineer", "Acme Corp")

	if err := n.Notify([]model.Listing{l}); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	header := payload.Blocks[0]
	if header.Text.Text != "Acme Corp: Backend Engineer" {
		t.Errorf("header text = %q, want company: title", header.Text.Text)
	}

	scoreField := payload.Blocks[2].Fields[0]
	if scoreField.Text != "*Match:*\n72/100" {
		t.Errorf("score field = %q", scoreField.Text)
	}

	actionURL := payload.Blocks[3].Elements[0].URL
	if actionURL != "https://example.com/apply" {
		t.Errorf("action URL = %q", actionURL)
	}
}

func TestSlackNotifier_ContactBlockIncluded(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	l := sampleListing("SRE", "Acme Corp")
	l.Contact = &model.ContactRecord{
		Email:      "recruiting@acme.com",
		Confidence: model.ConfidenceHigh,
	}

	if err := n.Notify([]model.Listing{l}); err != nil {
		t.Fatalf("Notify() = %v", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// header, 2 sections, contact, actions, divider
	if len(payload.Blocks) != 6 {
		t.Fatalf("expected 6 blocks with contact, got %d", len(payload.Blocks))
	}
	contact := payload.Blocks[3]
	if contact.Text == nil || contact.Text.Text != "*Contact:* recruiting@acme.com (high confidence)" {
		t.Errorf("unexpected contact block %+v", contact)
	}
}

func TestSlackNotifier_MultipleListings(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	listings := []model.Listing{
		sampleListing("Engineer 1", "A"),
		sampleListing("Engineer 2", "B"),
		sampleListing("Engineer 3", "C"),
	}

	if err := n.Notify(listings); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}
	if c := calls.Load(); c != 3 {
		t.Errorf("expected 3 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_AllFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	listings := []model.Listing{
		sampleListing("A", "X"),
		sampleListing("B", "Y"),
	}

	if err := n.Notify(listings); err == nil {
		t.Error("expected error when all messages fail, got nil")
	}
}

func TestSlackNotifier_PartialFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := calls.Add(1)
		if c == 1 {
			w.WriteHeader(http.StatusInternalServerError)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	listings := []model.Listing{
		sampleListing("Fails", "A"),
		sampleListing("Succeeds", "B"),
	}

	if err := n.Notify(listings); err != nil {
		t.Errorf("expected nil (partial success), got %v", err)
	}
}

func TestSlackNotifier_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := calls.Add(1)
		if c == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	err := n.Notify([]model.Listing{sampleListing("Rate Limited", "Test")})
	if err != nil {
		t.Fatalf("expected nil after retry, got %v", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 HTTP calls (initial + retry), got %d", c)
	}
}

func TestSlackNotifier_PayloadFormat(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	l := model.Listing{
		ExternalID: "wwr_456",
		Company:    "TestCo",
		Title:      "SRE",
		IsRemote:   true, // Location empty, should render as Remote
		URL:        "https://example.com/sre",
		Source:     "weworkremotely",
	}

	if err := n.Notify([]model.Listing{l}); err != nil {
		t.Fatalf("Notify() = %v", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(payload.Blocks) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(payload.Blocks))
	}
	if payload.Blocks[0].Type != "header" {
		t.Errorf("block[0] type = %q, want header", payload.Blocks[0].Type)
	}
	if payload.Blocks[1].Type != "section" || len(payload.Blocks[1].Fields) != 2 {
		t.Errorf("block[1] not a 2-field section")
	}
	locationField := payload.Blocks[1].Fields[1].Text
	if locationField != "*Location:*\nRemote" {
		t.Errorf("location field = %q, want Remote for remote listing", locationField)
	}
	if payload.Blocks[3].Type != "actions" || len(payload.Blocks[3].Elements) != 1 {
		t.Errorf("block[3] not a single-element actions block")
	}
	if payload.Blocks[3].Elements[0].Style != "primary" {
		t.Errorf("button style = %q, want primary", payload.Blocks[3].Elements[0].Style)
	}
	if payload.Blocks[4].Type != "divider" {
		t.Errorf("block[4] type = %q, want divider", payload.Blocks[4].Type)
	}
}
