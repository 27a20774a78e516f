package adapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobsift/jobsift/internal/keyword"
	"github.com/jobsift/jobsift/internal/model"
)

const (
	weWorkRemotelyBaseURL     = "https://weworkremotely.com"
	weWorkRemotelyMaxKeywords = 8
)

// WeWorkRemotely scrapes the WeWorkRemotely search page. The board has no
// public API, so listings are extracted from HTML.
type WeWorkRemotely struct {
	baseURL string
	client  *http.Client
	limiter Waiter
	logger  *slog.Logger
}

// NewWeWorkRemotely creates a WeWorkRemotely source adapter.
func NewWeWorkRemotely(client *http.Client, limiter Waiter, logger *slog.Logger) *WeWorkRemotely {
	return &WeWorkRemotely{
		baseURL: weWorkRemotelyBaseURL,
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

func (a *WeWorkRemotely) Name() string { return "weworkremotely" }

// Fetch runs one search per expanded keyword and parses the result pages.
// Any markup shape is tolerated: cards missing required elements are
// skipped and counted.
func (a *WeWorkRemotely) Fetch(ctx context.Context, criteria model.SearchCriteria, maxResults int) ([]model.Listing, error) {
	keywords := keyword.Expand(criteria.Keywords)
	if len(keywords) > weWorkRemotelyMaxKeywords {
		keywords = keywords[:weWorkRemotelyMaxKeywords]
	}
	if len(keywords) == 0 {
		keywords = []string{""}
	}

	var listings []model.Listing
	seenIDs := make(map[string]bool)
	skipped := 0

	for _, kw := range keywords {
		if len(listings) >= maxResults {
			break
		}

		u := fmt.Sprintf("%s/remote-jobs/search?term=%s", a.baseURL, url.QueryEscape(kw))
		body, err := fetchBytes(ctx, a.client, a.limiter, a.Name(), u)
		if err != nil {
			return listings, err
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return listings, fmt.Errorf("weworkremotely fetch: %w", err)
		}

		doc.Find("li.feature").EachWithBreak(func(_ int, card *goquery.Selection) bool {
			if len(listings) >= maxResults {
				return false
			}

			l, ok := a.normalize(card)
			if !ok {
				skipped++
				return true
			}
			if seenIDs[l.ExternalID] {
				return true
			}
			seenIDs[l.ExternalID] = true

			listings = append(listings, l)
			return true
		})
	}

	if skipped > 0 {
		a.logger.Debug("skipped malformed records", "source", a.Name(), "count", skipped)
	}
	return listings, nil
}

// normalize extracts one Listing from a job card. Cards without a title,
// company, or link are malformed and rejected.
func (a *WeWorkRemotely) normalize(card *goquery.Selection) (model.Listing, bool) {
	title := strings.TrimSpace(card.Find("span.title").First().Text())
	company := strings.TrimSpace(card.Find("span.company").First().Text())
	href, _ := card.Find("a").First().Attr("href")

	if title == "" || company == "" || href == "" {
		return model.Listing{}, false
	}

	jobURL := href
	if !strings.HasPrefix(jobURL, "http") {
		jobURL = a.baseURL + href
	}

	// Source-native id is the URL tail.
	parts := strings.Split(strings.TrimRight(href, "/"), "/")
	id := parts[len(parts)-1]
	if id == "" {
		return model.Listing{}, false
	}

	return model.Listing{
		ExternalID:     "wwr_" + id,
		Source:         a.Name(),
		Title:          title,
		Company:        company,
		Location:       "Remote",
		Description:    fmt.Sprintf("%s at %s", title, company),
		IsRemote:       true,
		URL:            jobURL,
		ApplicationURL: jobURL,
		FetchedAt:      time.Now().UTC(),
	}, true
}
