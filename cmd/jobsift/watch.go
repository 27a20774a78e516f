package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/ratelimit"
	"github.com/jobsift/jobsift/internal/scheduler"
	"github.com/jobsift/jobsift/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the configured search on an interval and notify new matches",
	Long: "Run the configured search repeatedly, remember which listings were " +
		"already delivered, and send only new matches to the configured notifier. " +
		"Runs until interrupted.",
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if len(cfg.Search.Keywords) == 0 {
		return fmt.Errorf("watch mode needs search keywords in the config")
	}

	httpClient := newHTTPClient()
	limiter := ratelimit.NewJitterLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.MaxDelay)
	orch := buildOrchestrator(cfg, httpClient, limiter, logger)
	enricher := buildEnricher(cfg, httpClient, limiter, logger)
	notify := setupNotifier(cfg, httpClient, logger)

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	// Seen entries only matter for a while; prune old ones on startup.
	if err := sqlStore.Cleanup(90 * 24 * time.Hour); err != nil {
		logger.Warn("failed to clean up old seen entries", "error", err)
	}

	criteria := model.SearchCriteria{
		Keywords:   cfg.Search.Keywords,
		Location:   cfg.Search.Location,
		RemoteOnly: cfg.Search.RemoteOnly,
		Limit:      cfg.Search.Limit,
	}

	search := func(ctx context.Context) []model.Listing {
		result := orch.Search(ctx, criteria, nil)
		for source, srcErr := range result.SourceErrors {
			logger.Warn("source incomplete", "source", source, "error", srcErr)
		}
		listings := result.Listings
		if enricher != nil && len(listings) > 0 {
			listings = enricher.Enrich(ctx, listings)
		}
		if err := sqlStore.SaveListings(listings); err != nil {
			logger.Error("failed to save listings", "error", err)
		}
		return listings
	}

	watcher := scheduler.NewWatcher(search, sqlStore, notify, cfg.WatchInterval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watcher.Run(ctx)
}
