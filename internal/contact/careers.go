package contact

import (
	"context"

	"github.com/jobsift/jobsift/internal/model"
)

// Career-page suffixes probed in order. Companies that publish a recruiting
// address almost always do it on one of these.
var careerPaths = []string{
	"/careers",
	"/jobs",
	"/careers/contact",
	"/about/careers",
	"/work-with-us",
	"/join-us",
	"/about",
	"/contact",
}

// careersScrape probes well-known career pages under the domain and picks
// the best recruiting address found. A hit is the strongest signal the
// pipeline produces: the address was published by the company itself.
func (f *Finder) careersScrape(ctx context.Context, domain string) *model.ContactRecord {
	if domain == "" {
		return nil
	}

	for _, path := range careerPaths {
		if ctx.Err() != nil {
			return nil
		}

		html, err := f.fetchPage(ctx, f.scheme+"://"+domain+path)
		if err != nil {
			f.logger.Debug("career page probe failed", "domain", domain, "path", path, "error", err)
			continue
		}

		emails := extractEmails(html)
		if len(emails) == 0 {
			continue
		}

		text := visibleText(html)
		best := selectBestEmail(emails, text)
		if best == "" {
			continue
		}

		name := nameNearEmail(text, best)
		if name == "" {
			name = "Hiring Team"
		}

		f.logger.Debug("contact found on career page", "domain", domain, "path", path)
		return &model.ContactRecord{
			Email:        best,
			DisplayName:  name,
			Title:        titleFromEmail(best),
			Confidence:   model.ConfidenceHigh,
			Verified:     true,
			Source:       "careers_page" + path,
			Alternatives: runnerUps(emails, best, maxAlternatives),
		}
	}

	return nil
}
