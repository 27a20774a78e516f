// Package keyword grows a search-term set with domain synonyms to raise
// adapter recall. Expansion never changes scoring semantics.
package keyword

import (
	"sort"
	"strings"
)

// synonyms maps a keyword fragment to terms worth searching alongside it.
// Matching is by substring on the lowercased keyword.
var synonyms = map[string][]string{
	"software engineer": {"developer", "programmer", "software developer", "engineer"},
	"developer":         {"engineer", "programmer", "dev", "software engineer"},
	"full stack":        {"fullstack", "full-stack", "frontend", "backend", "web developer"},
	"frontend":          {"front-end", "front end", "ui developer", "react", "vue"},
	"backend":           {"back-end", "back end", "server", "api", "node"},
	"java":              {"spring", "spring boot", "jvm"},
	"python":            {"django", "flask", "fastapi"},
	"javascript":        {"js", "typescript", "node"},
	"golang":            {"go developer", "go engineer"},
}

// Expand returns keywords plus domain synonyms, closed under expansion:
// synonyms of added terms are added too, so expanding an already-expanded
// set yields the same set. The result is deduplicated, preserves the input
// order first, and appends each term's new synonyms in sorted order so the
// output is deterministic. Output always contains every input.
func Expand(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		key := strings.ToLower(strings.TrimSpace(kw))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
	}

	// Worklist over the growing list reaches a fixed point: every term's
	// synonyms end up present, including synonyms of synonyms.
	for i := 0; i < len(out); i++ {
		kwLower := strings.ToLower(out[i])
		var added []string
		for frag, terms := range synonyms {
			if !strings.Contains(kwLower, frag) {
				continue
			}
			for _, term := range terms {
				if !seen[term] {
					seen[term] = true
					added = append(added, term)
				}
			}
		}
		sort.Strings(added)
		out = append(out, added...)
	}

	return out
}
