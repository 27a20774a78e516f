package orchestrator

import "github.com/jobsift/jobsift/internal/model"

// mergeMap deduplicates listings by DedupKey while preserving first-seen
// order. On a key collision the existing listing keeps every field it
// already has; only empty fields take the newcomer's value. The match score
// is computed once, when the key is first seen.
type mergeMap struct {
	index map[string]int
	items []model.Listing
}

func newMergeMap() *mergeMap {
	return &mergeMap{index: make(map[string]int)}
}

func (m *mergeMap) len() int { return len(m.items) }

func (m *mergeMap) add(l model.Listing, scoreFn func(model.Listing) float64) {
	key := l.DedupKey()
	if key == "" {
		return
	}
	if i, ok := m.index[key]; ok {
		m.items[i] = mergeFields(m.items[i], l)
		return
	}
	l.MatchScore = scoreFn(l)
	m.index[key] = len(m.items)
	m.items = append(m.items, l)
}

// listings returns the merged collection in first-seen order.
func (m *mergeMap) listings() []model.Listing {
	out := make([]model.Listing, len(m.items))
	copy(out, m.items)
	return out
}

// mergeFields fills empty fields of the first-seen listing from a duplicate.
// Non-empty fields are never overwritten.
func mergeFields(dst, src model.Listing) model.Listing {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Company == "" {
		dst.Company = src.Company
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.Requirements == "" {
		dst.Requirements = src.Requirements
	}
	if dst.SalaryMin == nil {
		dst.SalaryMin = src.SalaryMin
	}
	if dst.SalaryMax == nil {
		dst.SalaryMax = src.SalaryMax
	}
	if dst.URL == "" {
		dst.URL = src.URL
	}
	if dst.ApplicationURL == "" {
		dst.ApplicationURL = src.ApplicationURL
	}
	if dst.PostedAt == nil {
		dst.PostedAt = src.PostedAt
	}
	if !dst.IsRemote && src.IsRemote {
		dst.IsRemote = true
	}
	if !dst.EasyApply && src.EasyApply {
		dst.EasyApply = true
	}
	return dst
}
