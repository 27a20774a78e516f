package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/keyword"
	"github.com/jobsift/jobsift/internal/model"
)

const (
	arbeitnowBaseURL = "https://www.arbeitnow.com"

	// Pagination ceilings; the board serves long tails of weak matches
	// past these.
	arbeitnowMaxPages    = 5
	arbeitnowMaxKeywords = 10
)

// arbeitnowJob represents a single job in the Arbeitnow job-board API.
type arbeitnowJob struct {
	Slug        string   `json:"slug"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	Location    string   `json:"location"`
	CreatedAt   int64    `json:"created_at"`
}

// arbeitnowResponse is the top-level Arbeitnow API response.
type arbeitnowResponse struct {
	Data []arbeitnowJob `json:"data"`
}

// Arbeitnow fetches listings from the Arbeitnow job-board API, paginating
// per expanded keyword until the budget or the board is exhausted.
type Arbeitnow struct {
	baseURL string
	client  *http.Client
	limiter Waiter
	logger  *slog.Logger
}

// NewArbeitnow creates an Arbeitnow source adapter.
func NewArbeitnow(client *http.Client, limiter Waiter, logger *slog.Logger) *Arbeitnow {
	return &Arbeitnow{
		baseURL: arbeitnowBaseURL,
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

func (a *Arbeitnow) Name() string { return "arbeitnow" }

// Fetch iterates expanded keywords and pages. A rate-limit response ends
// the fetch but the listings collected so far are returned alongside the
// error so the orchestrator can keep them.
func (a *Arbeitnow) Fetch(ctx context.Context, criteria model.SearchCriteria, maxResults int) ([]model.Listing, error) {
	keywords := keyword.Expand(criteria.Keywords)
	if len(keywords) > arbeitnowMaxKeywords {
		keywords = keywords[:arbeitnowMaxKeywords]
	}
	if len(keywords) == 0 {
		keywords = []string{""}
	}

	var listings []model.Listing
	seenSlugs := make(map[string]bool)
	skipped := 0

	for _, kw := range keywords {
		if len(listings) >= maxResults {
			break
		}

		for page := 1; page <= arbeitnowMaxPages; page++ {
			if len(listings) >= maxResults {
				break
			}

			u := fmt.Sprintf("%s/api/job-board-api?search=%s&page=%d",
				a.baseURL, url.QueryEscape(kw), page)
			// Partial results stay with the caller on failure, notably
			// on a 429 where the orchestrator abandons this source.
			body, err := fetchBytes(ctx, a.client, a.limiter, a.Name(), u)
			if err != nil {
				return listings, err
			}

			var resp arbeitnowResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return listings, fmt.Errorf("arbeitnow fetch: %w", err)
			}
			if len(resp.Data) == 0 {
				break // keyword exhausted
			}

			for _, job := range resp.Data {
				if len(listings) >= maxResults {
					break
				}
				if job.Slug == "" || seenSlugs[job.Slug] {
					continue
				}
				seenSlugs[job.Slug] = true

				if criteria.RemoteOnly && !job.Remote {
					continue
				}

				l, ok := a.normalize(job)
				if !ok {
					skipped++
					continue
				}
				listings = append(listings, l)
			}
		}
	}

	if skipped > 0 {
		a.logger.Debug("skipped malformed records", "source", a.Name(), "count", skipped)
	}
	return listings, nil
}

// normalize maps a raw Arbeitnow record into a Listing.
func (a *Arbeitnow) normalize(job arbeitnowJob) (model.Listing, bool) {
	if job.Title == "" || job.URL == "" {
		return model.Listing{}, false
	}

	l := model.Listing{
		ExternalID:     "arbeitnow_" + job.Slug,
		Source:         a.Name(),
		Title:          job.Title,
		Company:        job.CompanyName,
		Location:       orDefault(job.Location, "Remote"),
		Description:    extractText(job.Description),
		Requirements:   strings.Join(job.Tags, ", "),
		IsRemote:       job.Remote || strings.Contains(strings.ToLower(job.Location), "remote"),
		URL:            job.URL,
		ApplicationURL: job.URL,
		FetchedAt:      time.Now().UTC(),
	}

	if job.CreatedAt > 0 {
		t := time.Unix(job.CreatedAt, 0).UTC()
		l.PostedAt = &t
	}
	return l, true
}
