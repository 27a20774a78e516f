package contact

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/jobsift/jobsift/internal/model"
)

const defaultEnrichWorkers = 4

// Enricher annotates listings with company websites and hiring contacts.
// Each unique company is resolved exactly once per call, spread across a
// bounded worker pool since companies are independent of one another.
type Enricher struct {
	resolver model.DomainResolver
	finder   model.ContactFinder
	workers  int
	logger   *slog.Logger
}

// NewEnricher creates an enricher. workers <= 0 selects the default pool size.
func NewEnricher(resolver model.DomainResolver, finder model.ContactFinder, workers int, logger *slog.Logger) *Enricher {
	if workers <= 0 {
		workers = defaultEnrichWorkers
	}
	return &Enricher{resolver: resolver, finder: finder, workers: workers, logger: logger}
}

type companyInfo struct {
	domain  string
	contact model.ContactRecord
}

// Enrich fills CompanyWebsite and Contact on every listing in place.
// Cancellation stops unresolved companies; listings whose company was
// already resolved still get annotated.
func (e *Enricher) Enrich(ctx context.Context, listings []model.Listing) []model.Listing {
	companies := uniqueCompanies(listings)
	if len(companies) == 0 {
		return listings
	}

	e.logger.Debug("enriching contacts", "companies", len(companies), "workers", e.workers)

	results := make(map[string]companyInfo, len(companies))
	var mu sync.Mutex

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for company := range jobs {
				if ctx.Err() != nil {
					return
				}
				domain := e.resolver.Resolve(ctx, company)
				contact := e.finder.Find(ctx, company, domain)

				mu.Lock()
				results[strings.ToLower(company)] = companyInfo{domain: domain, contact: contact}
				mu.Unlock()
			}
		}()
	}

	for _, company := range companies {
		select {
		case jobs <- company:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	for i := range listings {
		info, ok := results[strings.ToLower(listings[i].Company)]
		if !ok {
			continue
		}
		listings[i].CompanyWebsite = info.domain
		contact := info.contact
		listings[i].Contact = &contact
	}
	return listings
}

func uniqueCompanies(listings []model.Listing) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range listings {
		name := strings.TrimSpace(l.Company)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
