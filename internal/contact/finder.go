// Package contact resolves a best-effort hiring contact for a company
// through a strict fallback chain: career-page scrape, targeted web search,
// naming-convention inference, and finally a generated ladder of
// conventional recruiting addresses. The chain never fails outright; the
// last tier is unconditional.
package contact

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/ratelimit"
)

const maxAlternatives = 5

// Finder runs the tier chain. Results are cached per company for the
// lifetime of the Finder (one search run); a cached result is never
// downgraded by a later lookup.
type Finder struct {
	client        *http.Client
	limiter       *ratelimit.JitterLimiter
	scheme        string // https outside of tests
	searchBaseURL string
	logger        *slog.Logger

	mu    sync.Mutex
	cache map[string]model.ContactRecord
}

// NewFinder creates a contact finder sharing the given limiter with the
// rest of the run's network callers.
func NewFinder(client *http.Client, limiter *ratelimit.JitterLimiter, logger *slog.Logger) *Finder {
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	return &Finder{
		client:        client,
		limiter:       limiter,
		scheme:        "https",
		searchBaseURL: defaultSearchBaseURL,
		logger:        logger,
		cache:         make(map[string]model.ContactRecord),
	}
}

// Find returns the best contact the chain can produce for the company.
// Tiers run in order until one yields a verified result; otherwise the
// highest-confidence result seen wins, with the generated ladder as the
// floor. domain may be empty, which skips the network tiers that need it.
func (f *Finder) Find(ctx context.Context, companyName, domain string) model.ContactRecord {
	key := strings.ToLower(strings.TrimSpace(companyName))

	f.mu.Lock()
	if cached, ok := f.cache[key]; ok {
		f.mu.Unlock()
		return cached
	}
	f.mu.Unlock()

	record := f.resolve(ctx, companyName, domain)

	f.mu.Lock()
	// Another goroutine may have resolved the same company meanwhile; keep
	// whichever result is more trustworthy.
	if cached, ok := f.cache[key]; !ok || record.Confidence.AtLeast(cached.Confidence) {
		f.cache[key] = record
	} else {
		record = cached
	}
	f.mu.Unlock()

	return record
}

func (f *Finder) resolve(ctx context.Context, companyName, domain string) model.ContactRecord {
	var best *model.ContactRecord

	consider := func(rec *model.ContactRecord) bool {
		if rec == nil {
			return false
		}
		if best == nil || rec.Confidence.AtLeast(best.Confidence) {
			best = rec
		}
		return rec.Verified
	}

	if consider(f.careersScrape(ctx, domain)) {
		return *best
	}
	if consider(f.webSearch(ctx, companyName, domain)) {
		return *best
	}
	if consider(f.patternInference(ctx, domain)) {
		return *best
	}

	if best != nil {
		return *best
	}
	return generatedContact(companyName, domain)
}
