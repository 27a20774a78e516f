package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/jobsift/jobsift/internal/model"
)

var patternPages = []string{"", "/about", "/team", "/contact"}

// patternInference fetches a few public pages, infers the company's email
// naming convention by majority vote over observed addresses, and
// synthesizes a recruiting-team address in that convention. The result is
// plausible, not observed, hence medium confidence and unverified.
func (f *Finder) patternInference(ctx context.Context, domain string) *model.ContactRecord {
	if domain == "" {
		return nil
	}

	var samples []string
	for _, page := range patternPages {
		if ctx.Err() != nil {
			break
		}
		html, err := f.fetchPage(ctx, f.scheme+"://"+domain+page)
		if err != nil {
			continue
		}
		samples = append(samples, extractEmails(html)...)
	}
	if len(samples) == 0 {
		return nil
	}

	convention := detectConvention(samples)
	email := synthesizeRecruitingEmail(domain, convention)

	f.logger.Debug("contact synthesized from naming convention",
		"domain", domain, "convention", convention)
	return &model.ContactRecord{
		Email:       email,
		DisplayName: "Talent Team",
		Title:       "Recruiting",
		Confidence:  model.ConfidenceMedium,
		Verified:    false,
		Source:      "pattern_inference",
	}
}

// Naming conventions distinguishable from mailbox names alone.
const (
	conventionFirstDotLast = "first.last"
	conventionFirstLast    = "firstlast"
	conventionInitialDot   = "f.last"
	conventionInitialLast  = "flast"
)

// detectConvention votes each sample address into a convention bucket and
// returns the winner. first.last is the default when nothing is decisive.
func detectConvention(emails []string) string {
	votes := map[string]int{}

	for _, email := range emails {
		local, _, ok := strings.Cut(strings.ToLower(email), "@")
		if !ok {
			continue
		}
		switch {
		case strings.Count(local, ".") == 1:
			first, last, _ := strings.Cut(local, ".")
			if len(first) > 2 && len(last) > 2 {
				votes[conventionFirstDotLast]++
			} else if len(first) <= 2 && len(last) > 2 {
				votes[conventionInitialDot]++
			}
		case len(local) > 8:
			votes[conventionFirstLast]++
		case len(local) > 3:
			votes[conventionInitialLast]++
		}
	}

	winner := conventionFirstDotLast
	best := 0
	for _, convention := range []string{
		conventionFirstDotLast, conventionFirstLast, conventionInitialDot, conventionInitialLast,
	} {
		if votes[convention] > best {
			best = votes[convention]
			winner = convention
		}
	}
	return winner
}

// synthesizeRecruitingEmail renders a "talent team" mailbox in the given
// convention.
func synthesizeRecruitingEmail(domain, convention string) string {
	const first, last = "talent", "team"
	switch convention {
	case conventionFirstDotLast:
		return fmt.Sprintf("%s.%s@%s", first, last, domain)
	case conventionFirstLast:
		return fmt.Sprintf("%s%s@%s", first, last, domain)
	case conventionInitialDot:
		return fmt.Sprintf("%c.%s@%s", first[0], last, domain)
	case conventionInitialLast:
		return fmt.Sprintf("%c%s@%s", first[0], last, domain)
	default:
		return "careers@" + domain
	}
}
