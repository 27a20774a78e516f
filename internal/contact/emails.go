package contact

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)

// Addresses nobody should cold-email a recruiter question to.
var genericFragments = []string{
	"noreply", "no-reply", "donotreply", "support",
	"info@", "hello@", "contact@", "webmaster", "admin@",
	"example.com", "test@", "privacy@", "legal@",
}

var recruitingKeywords = []string{
	"recruit", "talent", "hr", "hiring", "career",
	"job", "people", "acquisition", "staffing",
}

// extractEmails pulls addresses out of raw page text, dropping generic
// mailbox names and deduplicating while preserving first-seen order.
func extractEmails(text string) []string {
	matches := emailRegex.FindAllString(text, -1)

	seen := make(map[string]bool)
	var out []string
	for _, email := range matches {
		lower := strings.ToLower(email)
		if seen[lower] || isGeneric(lower) {
			continue
		}
		seen[lower] = true
		out = append(out, email)
	}
	return out
}

func isGeneric(emailLower string) bool {
	for _, fragment := range genericFragments {
		if strings.Contains(emailLower, fragment) {
			return true
		}
	}
	return false
}

// selectBestEmail ranks candidate addresses by recruiting relevance: each
// recruiting keyword in the address itself scores 10, each keyword within
// 50 characters of the address in the page scores 5. Falls back to the
// first candidate when nothing scores.
func selectBestEmail(emails []string, pageText string) string {
	if len(emails) == 0 {
		return ""
	}

	textLower := strings.ToLower(pageText)
	bestScore := 0
	best := ""
	for _, email := range emails {
		emailLower := strings.ToLower(email)

		score := 0
		for _, kw := range recruitingKeywords {
			if strings.Contains(emailLower, kw) {
				score += 10
			}
		}

		if idx := strings.Index(textLower, emailLower); idx >= 0 {
			start := idx - 50
			if start < 0 {
				start = 0
			}
			end := idx + len(emailLower) + 50
			if end > len(textLower) {
				end = len(textLower)
			}
			surrounding := textLower[start:end]
			for _, kw := range recruitingKeywords {
				if strings.Contains(surrounding, kw) {
					score += 5
				}
			}
		}

		if score > bestScore {
			bestScore = score
			best = email
		}
	}

	if bestScore > 0 {
		return best
	}
	return emails[0]
}

var nameRegex = regexp.MustCompile(`\b([A-Z][a-z]+ [A-Z][a-z]+)\b`)

// nameNearEmail looks for a capitalized first-and-last name within 100
// characters of the address in the page text.
func nameNearEmail(pageText, email string) string {
	idx := strings.Index(strings.ToLower(pageText), strings.ToLower(email))
	if idx < 0 {
		return ""
	}
	start := idx - 100
	if start < 0 {
		start = 0
	}
	end := idx + len(email) + 100
	if end > len(pageText) {
		end = len(pageText)
	}
	if m := nameRegex.FindString(pageText[start:end]); m != "" {
		return m
	}
	return ""
}

// titleFromEmail guesses the contact's role from the mailbox name.
func titleFromEmail(email string) string {
	lower := strings.ToLower(email)
	switch {
	case strings.Contains(lower, "recruit") || strings.Contains(lower, "talent"):
		return "Recruiter"
	case strings.Contains(lower, "hr") || strings.Contains(lower, "people"):
		return "HR Manager"
	case strings.Contains(lower, "career") || strings.Contains(lower, "job"):
		return "Career Services"
	case strings.Contains(lower, "hiring"):
		return "Hiring Manager"
	default:
		return "Hiring Contact"
	}
}

// runnerUps returns the non-selected candidates, capped at max.
func runnerUps(emails []string, selected string, max int) []string {
	var out []string
	for _, email := range emails {
		if email == selected {
			continue
		}
		out = append(out, email)
		if len(out) == max {
			break
		}
	}
	return out
}
