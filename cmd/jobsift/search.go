package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jobsift/jobsift/internal/browse"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/orchestrator"
	"github.com/jobsift/jobsift/internal/ratelimit"
	"github.com/jobsift/jobsift/internal/store"
)

var (
	searchLimit       int
	searchLocation    string
	searchRemoteOnly  bool
	searchSave        bool
	searchInteractive bool
	profilePath       string
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords...]",
	Short: "Run one aggregated search across the configured sources",
	Long: "Search every enabled job source, deduplicate and rank the results, " +
		"and resolve a hiring contact per company. Keywords given as arguments " +
		"override the configured defaults.",
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum number of results (default from config)")
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "location filter (default from config)")
	searchCmd.Flags().BoolVar(&searchRemoteOnly, "remote", false, "only remote listings")
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "persist results to the configured store")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "browse results in an interactive view")
	searchCmd.Flags().StringVar(&profilePath, "profile", "", "path to a candidate profile YAML for profile-aware scoring")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	criteria := model.SearchCriteria{
		Keywords:   cfg.Search.Keywords,
		Location:   cfg.Search.Location,
		RemoteOnly: cfg.Search.RemoteOnly,
		Limit:      cfg.Search.Limit,
	}
	if len(args) > 0 {
		criteria.Keywords = args
	}
	if searchLimit > 0 {
		criteria.Limit = searchLimit
	}
	if searchLocation != "" {
		criteria.Location = searchLocation
	}
	if searchRemoteOnly {
		criteria.RemoteOnly = true
	}
	if len(criteria.Keywords) == 0 {
		return fmt.Errorf("no keywords given and none configured")
	}

	var profile *model.CandidateProfile
	if profilePath != "" {
		profile, err = loadProfile(profilePath)
		if err != nil {
			logger.Error("failed to load profile", "error", err)
			os.Exit(1)
		}
		logger.Info("profile loaded", "skills", len(profile.Skills))
	}

	httpClient := newHTTPClient()
	limiter := ratelimit.NewJitterLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.MaxDelay)
	orch := buildOrchestrator(cfg, httpClient, limiter, logger)
	enricher := buildEnricher(cfg, httpClient, limiter, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := orch.Search(ctx, criteria, profile)
	for source, srcErr := range result.SourceErrors {
		logger.Warn("source incomplete", "source", source, "error", srcErr)
	}

	listings := result.Listings
	if enricher != nil && len(listings) > 0 {
		listings = enricher.Enrich(ctx, listings)
	}

	if searchSave {
		sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		if err := sqlStore.SaveListings(listings); err != nil {
			logger.Error("failed to save listings", "error", err)
			os.Exit(1)
		}
		logger.Info("results saved", "path", cfg.Store.Path, "count", len(listings))
	}

	if searchInteractive {
		return browse.Run(listings)
	}

	printResults(listings, result.Reason)
	return nil
}

func printResults(listings []model.Listing, reason string) {
	if len(listings) == 0 {
		switch reason {
		case orchestrator.ReasonAllSourcesFailed:
			fmt.Println("No results: every source failed.")
		default:
			fmt.Println("No results.")
		}
		return
	}

	for i, l := range listings {
		fmt.Printf("%2d. [%3.0f] %s — %s\n", i+1, l.MatchScore, l.Title, l.Company)

		location := l.Location
		if location == "" && l.IsRemote {
			location = "Remote"
		}
		fmt.Printf("      %s · %s · %s\n", l.Source, location, l.URL)

		if l.Contact != nil && l.Contact.Email != "" {
			fmt.Printf("      contact: %s (%s)\n", l.Contact.Email, l.Contact.Confidence)
		}
	}
}

// candidate profile YAML shape: skills list plus a rough experience count.
type profileFile struct {
	Skills            []string `yaml:"skills"`
	ExperienceEntries int      `yaml:"experience_entries"`
	RawText           string   `yaml:"raw_text"`
}

func loadProfile(path string) (*model.CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var pf profileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &model.CandidateProfile{
		Skills:            pf.Skills,
		ExperienceEntries: pf.ExperienceEntries,
		RawText:           pf.RawText,
	}, nil
}
