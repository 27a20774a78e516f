package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/keyword"
	"github.com/jobsift/jobsift/internal/model"
)

const (
	remotiveBaseURL     = "https://remotive.com"
	remotiveMaxKeywords = 10
	remotivePageSize    = 100
)

// remotiveJob represents a single job in the Remotive API response.
type remotiveJob struct {
	ID                        int64    `json:"id"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	URL                       string   `json:"url"`
	Description               string   `json:"description"`
	Tags                      []string `json:"tags"`
	PublicationDate           string   `json:"publication_date"`
}

// remotiveResponse is the top-level Remotive API response.
type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// Remotive fetches listings from the Remotive remote-jobs API, issuing one
// search per expanded keyword.
type Remotive struct {
	baseURL string
	client  *http.Client
	limiter Waiter
	logger  *slog.Logger
}

// NewRemotive creates a Remotive source adapter.
func NewRemotive(client *http.Client, limiter Waiter, logger *slog.Logger) *Remotive {
	return &Remotive{
		baseURL: remotiveBaseURL,
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

func (a *Remotive) Name() string { return "remotive" }

// Fetch searches per expanded keyword and dedups on the source-native id.
// Partial results accompany any error.
func (a *Remotive) Fetch(ctx context.Context, criteria model.SearchCriteria, maxResults int) ([]model.Listing, error) {
	keywords := keyword.Expand(criteria.Keywords)
	if len(keywords) > remotiveMaxKeywords {
		keywords = keywords[:remotiveMaxKeywords]
	}
	if len(keywords) == 0 {
		keywords = []string{""}
	}

	var listings []model.Listing
	seenIDs := make(map[int64]bool)
	skipped := 0

	for _, kw := range keywords {
		if len(listings) >= maxResults {
			break
		}

		u := fmt.Sprintf("%s/api/remote-jobs?search=%s&limit=%d",
			a.baseURL, url.QueryEscape(kw), remotivePageSize)
		body, err := fetchBytes(ctx, a.client, a.limiter, a.Name(), u)
		if err != nil {
			return listings, err
		}

		var resp remotiveResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return listings, fmt.Errorf("remotive fetch: %w", err)
		}

		for _, job := range resp.Jobs {
			if len(listings) >= maxResults {
				break
			}
			if job.ID == 0 || seenIDs[job.ID] {
				continue
			}
			seenIDs[job.ID] = true

			l, ok := a.normalize(job)
			if !ok {
				skipped++
				continue
			}
			listings = append(listings, l)
		}
	}

	if skipped > 0 {
		a.logger.Debug("skipped malformed records", "source", a.Name(), "count", skipped)
	}
	return listings, nil
}

// normalize maps a raw Remotive record into a Listing. All Remotive
// postings are remote by definition.
func (a *Remotive) normalize(job remotiveJob) (model.Listing, bool) {
	if job.Title == "" || job.URL == "" {
		return model.Listing{}, false
	}

	l := model.Listing{
		ExternalID:     "remotive_" + strconv.FormatInt(job.ID, 10),
		Source:         a.Name(),
		Title:          job.Title,
		Company:        job.CompanyName,
		Location:       orDefault(job.CandidateRequiredLocation, "Remote"),
		Description:    extractText(job.Description),
		Requirements:   strings.Join(job.Tags, ", "),
		IsRemote:       true,
		URL:            job.URL,
		ApplicationURL: job.URL,
		FetchedAt:      time.Now().UTC(),
	}

	if job.PublicationDate != "" {
		// Remotive timestamps omit the zone suffix.
		if t, err := time.Parse("2006-01-02T15:04:05", job.PublicationDate); err == nil {
			l.PostedAt = &t
		}
	}
	return l, true
}
