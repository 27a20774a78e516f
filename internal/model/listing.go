package model

import (
	"context"
	"time"
)

// Listing is the unified representation of a job posting from any source.
type Listing struct {
	ExternalID     string     // source tag + source-native id, primary dedup key
	Source         string     // source name ("remoteok", "arbeitnow", ...)
	Title          string     // job title
	Company        string     // company name
	Location       string     // location string
	Description    string     // plain-text description
	Requirements   string     // free-text requirements / tag list
	SalaryMin      *int       // nullable, annual
	SalaryMax      *int       // nullable, annual
	IsRemote       bool       // remote-friendly posting
	URL            string     // canonical posting URL
	ApplicationURL string     // direct apply link (may equal URL)
	EasyApply      bool       // source supports one-click apply
	PostedAt       *time.Time // nullable (not all sources provide this)
	FetchedAt      time.Time  // our clock (set on normalize)

	MatchScore     float64        // relevance against the current criteria
	CompanyWebsite string         // filled by enrichment
	Contact        *ContactRecord // filled by enrichment
}

// DedupKey identifies the listing across sources. ExternalID when present,
// otherwise the posting URL. The URL fallback is strictly weaker: the same
// posting reachable via two URL variants is not deduplicated.
func (l Listing) DedupKey() string {
	if l.ExternalID != "" {
		return l.ExternalID
	}
	return l.URL
}

// SearchCriteria is the caller's input to one aggregated search.
type SearchCriteria struct {
	Keywords   []string
	Location   string
	RemoteOnly bool
	Limit      int
}

// CandidateProfile is the structured resume data supplied by the profile
// collaborator. Any field may be empty; scoring degrades to keywords only.
type CandidateProfile struct {
	Skills            []string
	ExperienceEntries int
	RawText           string
}

// JobSource fetches listings from one external job board.
// Implementations own their pagination and per-request delays, skip
// malformed records instead of failing, and may return fewer than
// maxResults (including zero) when the source is exhausted. On a 429
// mid-pagination they return the listings collected so far together
// with the rate-limit error.
type JobSource interface {
	Name() string
	Fetch(ctx context.Context, criteria SearchCriteria, maxResults int) ([]Listing, error)
}

// DomainResolver maps a company name to its canonical website domain.
// An empty string means "unknown domain" and is a normal outcome, not an error.
type DomainResolver interface {
	Resolve(ctx context.Context, companyName string) string
}

// ContactFinder produces a best-effort hiring contact for a company.
// It never fails outright: the generated-fallback tier is unconditional.
type ContactFinder interface {
	Find(ctx context.Context, companyName, domain string) ContactRecord
}

// ListingStore persists search results. Owned by the caller; the
// orchestrator never reads or writes it.
type ListingStore interface {
	SaveListings(listings []Listing) error
	HasSeen(externalID string) (bool, error)
	MarkSeen(externalID string) error
}

// Notifier delivers a batch of listings to the user.
type Notifier interface {
	Notify(listings []Listing) error
}
