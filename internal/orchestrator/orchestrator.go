// Package orchestrator drives the configured job sources for one search
// request: dispatch in priority order, merge and deduplicate, score, rank,
// truncate. A failing source is logged and skipped, never fatal.
package orchestrator

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/score"
)

// DefaultLimit applies when the caller leaves SearchCriteria.Limit unset.
const DefaultLimit = 20

// Reason codes attached to a Result. An empty result is a normal outcome,
// the reason tells the caller why.
const (
	ReasonOK               = "ok"
	ReasonNoResults        = "no_results"
	ReasonAllSourcesFailed = "all_sources_failed"
)

// Source is one dispatchable job source with its dispatch settings.
type Source struct {
	Adapter    model.JobSource
	Priority   int // lower dispatches first
	MaxResults int // per-source ceiling, 0 means no ceiling
}

// Result is the outcome of one aggregated search.
type Result struct {
	Listings     []model.Listing
	SourceErrors map[string]error // source name -> error, partial failures included
	Reason       string
}

// Orchestrator aggregates listings across sources. It holds no per-request
// state; Search may be called concurrently.
type Orchestrator struct {
	sources []Source
	logger  *slog.Logger
}

// New creates an orchestrator over the given sources, ordered by priority.
func New(sources []Source, logger *slog.Logger) *Orchestrator {
	ordered := make([]Source, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return &Orchestrator{sources: ordered, logger: logger}
}

// Search runs one aggregated search. Sources are dispatched in priority order
// with a remaining-budget limit until the requested limit is met or every
// source has been tried. profile may be nil, in which case listings are
// scored against the keywords alone.
func (o *Orchestrator) Search(ctx context.Context, criteria model.SearchCriteria, profile *model.CandidateProfile) Result {
	limit := criteria.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	merged := newMergeMap()
	sourceErrors := make(map[string]error)
	attempted := 0

	for _, src := range o.sources {
		if merged.len() >= limit {
			break
		}
		if ctx.Err() != nil {
			break
		}

		budget := limit - merged.len()
		if src.MaxResults > 0 && budget > src.MaxResults {
			budget = src.MaxResults
		}

		name := src.Adapter.Name()
		attempted++

		o.logger.Debug("dispatching source", "source", name, "budget", budget)
		listings, err := src.Adapter.Fetch(ctx, criteria, budget)
		if err != nil {
			sourceErrors[name] = &model.FetchError{
				Source: name,
				Kind:   model.ClassifyError(err),
				Err:    err,
			}
			if model.IsRateLimited(err) {
				o.logger.Warn("source rate limited, abandoning for this request",
					"source", name, "partial", len(listings))
			} else {
				o.logger.Warn("source failed, continuing with remaining sources",
					"source", name, "error", err)
			}
			// Partial results collected before the failure still count.
		}

		for _, l := range listings {
			if criteria.RemoteOnly && !l.IsRemote {
				continue
			}
			if !matchesLocation(criteria, l) {
				continue
			}
			merged.add(l, func(l model.Listing) float64 {
				if profile != nil {
					return score.WithProfile(criteria, *profile, l)
				}
				return score.Score(criteria, l)
			})
		}

		o.logger.Debug("source done",
			"source", name, "returned", len(listings), "collected", merged.len())
	}

	listings := merged.listings()

	// Stable sort keeps discovery order for equal scores.
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].MatchScore > listings[j].MatchScore
	})
	if len(listings) > limit {
		listings = listings[:limit]
	}

	reason := ReasonOK
	if len(listings) == 0 {
		reason = ReasonNoResults
		if attempted > 0 && len(sourceErrors) == attempted {
			reason = ReasonAllSourcesFailed
		}
	}

	return Result{Listings: listings, SourceErrors: sourceErrors, Reason: reason}
}

// matchesLocation applies the criteria's location filter leniently: a remote
// listing is workable from anywhere and always passes, otherwise the
// listing's location must contain the requested one (case-insensitive).
func matchesLocation(criteria model.SearchCriteria, l model.Listing) bool {
	want := strings.ToLower(strings.TrimSpace(criteria.Location))
	if want == "" || l.IsRemote {
		return true
	}
	return strings.Contains(strings.ToLower(l.Location), want)
}
