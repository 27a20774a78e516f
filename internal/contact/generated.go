package contact

import (
	"regexp"
	"strings"

	"github.com/jobsift/jobsift/internal/model"
)

// Conventional recruiting mailboxes, most common first.
var generatedLadder = []string{
	"careers", "jobs", "recruiting", "talent",
	"hr", "hiring", "talentacquisition", "people",
}

var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]`)

// generatedContact is the unconditional last tier: a ranked ladder of
// conventional addresses against the resolved domain, or a name-derived
// domain when resolution found nothing. It always returns a record.
func generatedContact(companyName, domain string) model.ContactRecord {
	if domain == "" {
		clean := nonAlnumRegex.ReplaceAllString(strings.ToLower(companyName), "")
		if clean == "" {
			clean = "company"
		}
		domain = clean + ".com"
	}

	addresses := make([]string, len(generatedLadder))
	for i, prefix := range generatedLadder {
		addresses[i] = prefix + "@" + domain
	}

	alternatives := addresses[1:]
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}

	return model.ContactRecord{
		Email:        addresses[0],
		DisplayName:  "Hiring Team",
		Title:        "Talent Acquisition",
		Confidence:   model.ConfidenceLow,
		Verified:     false,
		Source:       "generated",
		Alternatives: alternatives,
	}
}
