package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jobsift/jobsift/internal/model"
)

func arbeitnowPage(jobs string) string {
	return fmt.Sprintf(`{"data": [%s]}`, jobs)
}

const arbeitnowJob1 = `{
	"slug": "backend-engineer-initech-berlin",
	"company_name": "Initech",
	"title": "Backend Engineer",
	"description": "<p>Go and Postgres</p>",
	"remote": true,
	"url": "https://www.arbeitnow.com/jobs/initech/backend-engineer",
	"tags": ["go", "postgres"],
	"location": "Berlin",
	"created_at": 1756000000
}`

const arbeitnowJob2 = `{
	"slug": "office-manager-initech",
	"company_name": "Initech",
	"title": "Office Manager",
	"description": "on-site role",
	"remote": false,
	"url": "https://www.arbeitnow.com/jobs/initech/office-manager",
	"tags": [],
	"location": "Berlin"
}`

func newArbeitnowTestAdapter(srv *httptest.Server) *Arbeitnow {
	a := NewArbeitnow(srv.Client(), nil, discardLogger())
	a.baseURL = srv.URL
	return a
}

func TestArbeitnow_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" && r.URL.Query().Get("search") == "backend" {
			w.Write([]byte(arbeitnowPage(arbeitnowJob1)))
			return
		}
		w.Write([]byte(arbeitnowPage("")))
	}))
	defer srv.Close()

	a := newArbeitnowTestAdapter(srv)
	listings, err := a.Fetch(context.Background(), model.SearchCriteria{Keywords: []string{"backend"}}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}

	l := listings[0]
	if l.ExternalID != "arbeitnow_backend-engineer-initech-berlin" {
		t.Errorf("unexpected ExternalID %s", l.ExternalID)
	}
	if l.Description != "Go and Postgres" {
		t.Errorf("expected stripped description, got %q", l.Description)
	}
	if l.Requirements != "go, postgres" {
		t.Errorf("expected joined tags, got %q", l.Requirements)
	}
	if l.PostedAt == nil || l.PostedAt.Unix() != 1756000000 {
		t.Errorf("expected PostedAt from created_at, got %v", l.PostedAt)
	}
	if !l.IsRemote {
		t.Error("expected IsRemote from remote flag")
	}
}

func TestArbeitnow_Fetch_RemoteOnlySkipsOnSite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(arbeitnowPage(arbeitnowJob1 + "," + arbeitnowJob2)))
			return
		}
		w.Write([]byte(arbeitnowPage("")))
	}))
	defer srv.Close()

	a := newArbeitnowTestAdapter(srv)
	listings, err := a.Fetch(context.Background(),
		model.SearchCriteria{Keywords: []string{"initech"}, RemoteOnly: true}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 1 || listings[0].Title != "Backend Engineer" {
		t.Fatalf("expected only the remote listing, got %v", listings)
	}
}

func TestArbeitnow_Fetch_DedupsSlugAcrossKeywords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Same job returned for every keyword and page.
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(arbeitnowPage(arbeitnowJob1)))
			return
		}
		w.Write([]byte(arbeitnowPage("")))
	}))
	defer srv.Close()

	a := newArbeitnowTestAdapter(srv)
	listings, err := a.Fetch(context.Background(),
		model.SearchCriteria{Keywords: []string{"backend", "go developer"}}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected slug dedup to collapse repeats, got %d", len(listings))
	}
}

func TestArbeitnow_Fetch_RateLimitedKeepsPartialResults(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write([]byte(arbeitnowPage(arbeitnowJob1)))
			return
		}
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := newArbeitnowTestAdapter(srv)
	listings, err := a.Fetch(context.Background(), model.SearchCriteria{Keywords: []string{"backend"}}, 10)
	if err == nil {
		t.Fatal("expected rate-limit error")
	}
	if !model.IsRateLimited(err) {
		t.Fatalf("expected 429 classification, got %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected partial results alongside the error, got %d", len(listings))
	}
}

func TestArbeitnow_Fetch_StopsOnEmptyPage(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(arbeitnowPage("")))
	}))
	defer srv.Close()

	a := newArbeitnowTestAdapter(srv)
	listings, err := a.Fetch(context.Background(), model.SearchCriteria{Keywords: []string{"nothing"}}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("expected no listings, got %d", len(listings))
	}
	// One request per keyword, not maxPages each.
	if calls.Load() > 1 {
		t.Errorf("expected pagination to stop on empty page, got %d calls", calls.Load())
	}
}
