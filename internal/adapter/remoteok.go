package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/keyword"
	"github.com/jobsift/jobsift/internal/model"
)

const remoteOKBaseURL = "https://remoteok.com"

// remoteOKJob represents a single entry in the RemoteOK API response.
// The first array element is API metadata, not a job.
type remoteOKJob struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	SalaryMin   int      `json:"salary_min"`
	SalaryMax   int      `json:"salary_max"`
	URL         string   `json:"url"`
	ApplyURL    string   `json:"apply_url"`
	Date        string   `json:"date"`
}

// RemoteOK fetches listings from the RemoteOK public API. The API returns
// the whole board in one response, so filtering happens client-side.
type RemoteOK struct {
	baseURL string
	client  *http.Client
	limiter Waiter
	logger  *slog.Logger
}

// NewRemoteOK creates a RemoteOK source adapter.
func NewRemoteOK(client *http.Client, limiter Waiter, logger *slog.Logger) *RemoteOK {
	return &RemoteOK{
		baseURL: remoteOKBaseURL,
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

func (a *RemoteOK) Name() string { return "remoteok" }

// Fetch retrieves the board and keeps listings matching any keyword token.
// Malformed entries are skipped and counted, never fatal.
func (a *RemoteOK) Fetch(ctx context.Context, criteria model.SearchCriteria, maxResults int) ([]model.Listing, error) {
	body, err := fetchBytes(ctx, a.client, a.limiter, a.Name(), a.baseURL+"/api")
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("remoteok fetch: %w", err)
	}
	if len(entries) > 0 {
		entries = entries[1:] // first element is API metadata
	}

	keywords := keyword.Expand(criteria.Keywords)

	listings := make([]model.Listing, 0, maxResults)
	skipped := 0
	for _, raw := range entries {
		if len(listings) >= maxResults {
			break
		}

		var job remoteOKJob
		if err := json.Unmarshal(raw, &job); err != nil {
			skipped++
			continue
		}

		l, ok := a.normalize(job)
		if !ok {
			skipped++
			continue
		}

		haystack := job.Position + " " + strings.Join(job.Tags, " ") + " " + l.Description
		if len(keywords) > 0 && !matchesAnyToken(keywords, haystack) {
			continue
		}

		listings = append(listings, l)
	}

	if skipped > 0 {
		a.logger.Debug("skipped malformed records", "source", a.Name(), "count", skipped)
	}
	return listings, nil
}

// normalize maps a raw RemoteOK record into a Listing. Records without an
// id or position are malformed and rejected.
func (a *RemoteOK) normalize(job remoteOKJob) (model.Listing, bool) {
	if job.ID == "" || job.Position == "" {
		return model.Listing{}, false
	}

	url := job.URL
	if url == "" && job.Slug != "" {
		url = a.baseURL + "/remote-jobs/" + job.Slug
	}

	l := model.Listing{
		ExternalID:     "remoteok_" + job.ID,
		Source:         a.Name(),
		Title:          job.Position,
		Company:        job.Company,
		Location:       orDefault(job.Location, "Remote"),
		Description:    extractText(job.Description),
		Requirements:   strings.Join(job.Tags, ", "),
		IsRemote:       true,
		URL:            url,
		ApplicationURL: orDefault(job.ApplyURL, url),
		EasyApply:      job.ApplyURL != "",
		FetchedAt:      time.Now().UTC(),
	}

	if job.SalaryMin > 0 {
		l.SalaryMin = &job.SalaryMin
	}
	if job.SalaryMax > 0 {
		l.SalaryMax = &job.SalaryMax
	}
	if job.Date != "" {
		if t, err := time.Parse(time.RFC3339, job.Date); err == nil {
			l.PostedAt = &t
		}
	}
	return l, true
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
