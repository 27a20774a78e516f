package contact

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jobsift/jobsift/internal/model"
)

const defaultSearchBaseURL = "https://html.duckduckgo.com"

// webSearch issues targeted queries against an HTML search endpoint and
// accepts only addresses on the company's own domain. Without a resolved
// domain there is no way to tell the company's address from a stranger's,
// so the tier is skipped entirely.
func (f *Finder) webSearch(ctx context.Context, companyName, domain string) *model.ContactRecord {
	if domain == "" {
		return nil
	}

	queries := []string{
		fmt.Sprintf("%q recruiter email", companyName),
		fmt.Sprintf("%q talent acquisition email", companyName),
		fmt.Sprintf("%q hiring manager email", companyName),
		fmt.Sprintf("site:%s recruiter email", domain),
		fmt.Sprintf("site:%s careers contact", domain),
	}

	for _, query := range queries {
		if ctx.Err() != nil {
			return nil
		}

		searchURL := fmt.Sprintf("%s/html/?q=%s", f.searchBaseURL, url.QueryEscape(query))
		html, err := f.fetchPage(ctx, searchURL)
		if err != nil {
			f.logger.Debug("web search failed", "company", companyName, "error", err)
			continue
		}

		var onDomain []string
		for _, email := range extractEmails(html) {
			if strings.HasSuffix(strings.ToLower(email), "@"+domain) {
				onDomain = append(onDomain, email)
			}
		}
		if len(onDomain) == 0 {
			continue
		}

		best := selectBestEmail(onDomain, visibleText(html))
		if best == "" {
			continue
		}

		f.logger.Debug("contact found via web search", "company", companyName)
		return &model.ContactRecord{
			Email:        best,
			DisplayName:  "Talent Acquisition Team",
			Title:        "Recruiter",
			Confidence:   model.ConfidenceHigh,
			Verified:     true,
			Source:       "web_search",
			Alternatives: runnerUps(onDomain, best, maxAlternatives),
		}
	}

	return nil
}
