// Package score computes relevance of a listing against search criteria and,
// optionally, a candidate profile. Scoring is a pure function of its inputs:
// no I/O, no randomness, identical inputs always produce identical scores.
package score

import (
	"strings"

	"github.com/jobsift/jobsift/internal/model"
)

// Weights per match location. A token matching the title outweighs one
// buried in the description; each token is awarded at most once.
const (
	titleWeight        = 10.0
	requirementsWeight = 5.0
	descriptionWeight  = 2.0

	maxScore = 100.0
)

var juniorTerms = []string{"junior", "entry level", "entry-level", "graduate", "associate"}

var seniorTerms = []string{"senior", "sr.", "sr ", "lead", "principal", "staff", "architect", "director"}

var midTerms = []string{"mid", "intermediate", "experienced"}

// Score computes a 0-100 keyword relevance score for a listing.
// Each keyword is split on whitespace; tokens shorter than two characters
// are ignored. A token scores once, at the highest-weight field it appears
// in: title, then requirements/tags, then description.
func Score(criteria model.SearchCriteria, l model.Listing) float64 {
	title := strings.ToLower(l.Title)
	requirements := strings.ToLower(l.Requirements)
	description := strings.ToLower(l.Description)

	var total float64
	counted := make(map[string]bool)
	for _, keyword := range criteria.Keywords {
		for _, token := range strings.Fields(strings.ToLower(keyword)) {
			if len(token) < 2 || counted[token] {
				continue
			}
			counted[token] = true

			switch {
			case strings.Contains(title, token):
				total += titleWeight
			case strings.Contains(requirements, token):
				total += requirementsWeight
			case strings.Contains(description, token):
				total += descriptionWeight
			}
		}
	}

	return clamp(total)
}

// WithProfile refines the keyword score with bounded candidate-profile
// adjustments: a proportional bonus for skill overlap, a seniority
// mismatch penalty (small, never disqualifying), an experience-alignment
// bonus, and a bonus when a top skill appears in the title. A zero-value
// profile degrades to Score.
func WithProfile(criteria model.SearchCriteria, profile model.CandidateProfile, l model.Listing) float64 {
	base := Score(criteria, l)
	if len(profile.Skills) == 0 && profile.ExperienceEntries == 0 {
		return base
	}

	jobText := strings.ToLower(l.Title + " " + l.Description + " " + l.Requirements)
	titleLower := strings.ToLower(l.Title)

	total := base

	if len(profile.Skills) > 0 {
		matched := 0
		for _, skill := range profile.Skills {
			for _, part := range strings.Fields(strings.ToLower(skill)) {
				if len(part) > 2 && strings.Contains(jobText, part) {
					matched++
					break // count each skill once
				}
			}
		}
		total += float64(matched) / float64(len(profile.Skills)) * 50
	}

	if containsAny(jobText, juniorTerms) {
		total += 10
	}
	if containsAny(jobText, seniorTerms) {
		total -= 5
	}

	years := profile.ExperienceEntries
	switch {
	case years > 0 && years < 3 && strings.Contains(jobText, "junior"):
		total += 15
	case years >= 3 && years < 7 && containsAny(jobText, midTerms):
		total += 15
	}

	// Top skills showing up in the title is a strong signal; award once.
	topSkills := profile.Skills
	if len(topSkills) > 5 {
		topSkills = topSkills[:5]
	}
	for _, skill := range topSkills {
		if skill != "" && strings.Contains(titleLower, strings.ToLower(skill)) {
			total += 10
			break
		}
	}

	return clamp(total)
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
