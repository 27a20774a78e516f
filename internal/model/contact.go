package model

// Confidence grades how much trust a resolved contact deserves.
type Confidence string

const (
	ConfidenceVerified Confidence = "verified"
	ConfidenceHigh     Confidence = "high"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceLow      Confidence = "low"
)

// rank orders confidence tiers for comparison: verified > high > medium > low.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceVerified:
		return 3
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether c is at least as trustworthy as other.
func (c Confidence) AtLeast(other Confidence) bool {
	return c.rank() >= other.rank()
}

// ContactRecord is a best-effort hiring contact for a company.
// Alternatives are plausible runner-up addresses, not guaranteed deliverable.
type ContactRecord struct {
	Email        string
	DisplayName  string
	Title        string
	Confidence   Confidence
	Verified     bool
	Source       string // which pipeline tier produced it
	Alternatives []string
}
