package contact

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/jobsift/jobsift/internal/model"
)

// stubResolver derives a fake domain from the company name and counts
// lookups per company.
type stubResolver struct {
	mu    sync.Mutex
	calls map[string]int
}

func (r *stubResolver) Resolve(_ context.Context, companyName string) string {
	key := strings.ToLower(companyName)

	r.mu.Lock()
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[key]++
	r.mu.Unlock()

	return strings.ReplaceAll(key, " ", "") + ".com"
}

func (r *stubResolver) callCount(company string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[strings.ToLower(company)]
}

type stubFinder struct {
	mu    sync.Mutex
	calls int
}

func (f *stubFinder) Find(_ context.Context, companyName, domain string) model.ContactRecord {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	return model.ContactRecord{
		Email:      "careers@" + domain,
		Confidence: model.ConfidenceHigh,
		Verified:   true,
		Source:     "careers_page",
	}
}

func TestEnrich_ResolvesEachCompanyOnce(t *testing.T) {
	resolver := &stubResolver{}
	finder := &stubFinder{}
	e := NewEnricher(resolver, finder, 2, discardLogger())

	listings := []model.Listing{
		{ExternalID: "a_1", Company: "Acme"},
		{ExternalID: "b_1", Company: "Globex"},
		{ExternalID: "a_2", Company: "ACME"}, // case variant of the first
	}

	got := e.Enrich(context.Background(), listings)

	if resolver.callCount("acme") != 1 {
		t.Errorf("expected 1 resolve for acme, got %d", resolver.callCount("acme"))
	}
	if resolver.callCount("globex") != 1 {
		t.Errorf("expected 1 resolve for globex, got %d", resolver.callCount("globex"))
	}
	if finder.calls != 2 {
		t.Errorf("expected 2 finder calls (one per unique company), got %d", finder.calls)
	}

	for _, l := range got {
		if l.Contact == nil {
			t.Fatalf("listing %s not annotated with a contact", l.ExternalID)
		}
		wantDomain := strings.ToLower(l.Company) + ".com"
		if l.CompanyWebsite != wantDomain {
			t.Errorf("listing %s: expected website %s, got %s", l.ExternalID, wantDomain, l.CompanyWebsite)
		}
		if l.Contact.Email != "careers@"+wantDomain {
			t.Errorf("listing %s: unexpected contact email %s", l.ExternalID, l.Contact.Email)
		}
	}
}

func TestEnrich_ListingsGetIndependentContactCopies(t *testing.T) {
	e := NewEnricher(&stubResolver{}, &stubFinder{}, 1, discardLogger())

	listings := []model.Listing{
		{ExternalID: "a_1", Company: "Acme"},
		{ExternalID: "a_2", Company: "Acme"},
	}

	got := e.Enrich(context.Background(), listings)
	if got[0].Contact == got[1].Contact {
		t.Fatal("listings of the same company must not share a contact pointer")
	}

	got[0].Contact.Email = "mutated@acme.com"
	if got[1].Contact.Email != "careers@acme.com" {
		t.Errorf("mutating one listing's contact leaked into another: %s", got[1].Contact.Email)
	}
}

func TestEnrich_SkipsBlankCompanies(t *testing.T) {
	resolver := &stubResolver{}
	e := NewEnricher(resolver, &stubFinder{}, 2, discardLogger())

	listings := []model.Listing{
		{ExternalID: "a_1", Company: "   "},
		{ExternalID: "a_2", Company: ""},
	}

	got := e.Enrich(context.Background(), listings)

	resolver.mu.Lock()
	total := len(resolver.calls)
	resolver.mu.Unlock()
	if total != 0 {
		t.Errorf("blank companies must not be resolved, got %d lookups", total)
	}
	for _, l := range got {
		if l.Contact != nil {
			t.Errorf("listing %s must stay unannotated", l.ExternalID)
		}
	}
}

func TestEnrich_CancelledContextStopsResolution(t *testing.T) {
	resolver := &stubResolver{}
	e := NewEnricher(resolver, &stubFinder{}, 2, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	listings := []model.Listing{
		{ExternalID: "a_1", Company: "Acme"},
		{ExternalID: "b_1", Company: "Globex"},
	}

	got := e.Enrich(ctx, listings)

	resolver.mu.Lock()
	total := len(resolver.calls)
	resolver.mu.Unlock()
	if total != 0 {
		t.Errorf("cancelled context must stop resolution, got %d lookups", total)
	}
	for _, l := range got {
		if l.Contact != nil {
			t.Errorf("listing %s must stay unannotated after cancellation", l.ExternalID)
		}
	}
}

func TestNewEnricher_DefaultsWorkerCount(t *testing.T) {
	e := NewEnricher(&stubResolver{}, &stubFinder{}, 0, discardLogger())
	if e.workers != defaultEnrichWorkers {
		t.Errorf("expected default worker count %d, got %d", defaultEnrichWorkers, e.workers)
	}
}
