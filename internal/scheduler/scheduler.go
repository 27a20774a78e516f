// Package scheduler owns the watch loop: re-run the configured search on an
// interval and notify only listings that have not been seen before.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// SearchFunc runs one aggregated, scored (and possibly enriched) search.
type SearchFunc func(ctx context.Context) []model.Listing

// Watcher ticks on an interval and pushes unseen listings to the notifier.
type Watcher struct {
	search   SearchFunc
	store    model.ListingStore
	notifier model.Notifier
	interval time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a watcher over the given search.
func NewWatcher(search SearchFunc, store model.ListingStore, notifier model.Notifier, interval time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{
		search:   search,
		store:    store,
		notifier: notifier,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the watch loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("starting watch loop", "interval", w.interval.String())

	if err := w.cycle(ctx); err != nil {
		w.logger.Error("watch cycle failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("shutting down watch loop")
			return nil
		case <-time.After(w.interval):
			if err := w.cycle(ctx); err != nil {
				w.logger.Error("watch cycle failed", "error", err)
			}
		}
	}
}

// cycle runs one search, drops listings already seen in earlier cycles,
// notifies the rest, and marks them seen. Marking happens only after a
// successful notify so a failed delivery is retried next cycle.
func (w *Watcher) cycle(ctx context.Context) error {
	listings := w.search(ctx)
	if ctx.Err() != nil {
		return nil
	}

	var unseen []model.Listing
	for _, l := range listings {
		seen, err := w.store.HasSeen(l.DedupKey())
		if err != nil {
			return fmt.Errorf("checking seen status: %w", err)
		}
		if !seen {
			unseen = append(unseen, l)
		}
	}

	if len(unseen) > 0 {
		if err := w.notifier.Notify(unseen); err != nil {
			return fmt.Errorf("notifying: %w", err)
		}
	}

	for _, l := range unseen {
		if err := w.store.MarkSeen(l.DedupKey()); err != nil {
			return fmt.Errorf("marking seen: %w", err)
		}
	}

	w.logger.Info("watch cycle complete",
		"found", len(listings),
		"new", len(unseen),
	)
	return nil
}
