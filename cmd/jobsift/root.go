package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/adapter"
	"github.com/jobsift/jobsift/internal/company"
	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/contact"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/notifier"
	"github.com/jobsift/jobsift/internal/orchestrator"
	"github.com/jobsift/jobsift/internal/ratelimit"
	"github.com/jobsift/jobsift/internal/retry"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobsift",
	Short: "Aggregated job search with contact enrichment",
	Long:  "jobsift searches multiple job boards at once, ranks results by relevance, and finds a hiring contact for each company.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSIFT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSIFT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSIFT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func createAdapter(name string, httpClient *http.Client, limiter *ratelimit.JitterLimiter, logger *slog.Logger) (model.JobSource, bool) {
	switch name {
	case "arbeitnow":
		return adapter.NewArbeitnow(httpClient, limiter, logger), true
	case "remoteok":
		return adapter.NewRemoteOK(httpClient, limiter, logger), true
	case "remotive":
		return adapter.NewRemotive(httpClient, limiter, logger), true
	case "weworkremotely":
		return adapter.NewWeWorkRemotely(httpClient, limiter, logger), true
	default:
		logger.Warn("unsupported source, skipping", "source", name)
		return nil, false
	}
}

// buildOrchestrator wires the enabled sources, each behind the shared
// limiter and a retry decorator, into a priority-ordered orchestrator.
func buildOrchestrator(cfg *config.Config, httpClient *http.Client, limiter *ratelimit.JitterLimiter, logger *slog.Logger) *orchestrator.Orchestrator {
	var sources []orchestrator.Source
	for _, sc := range cfg.Sources {
		if !sc.Enabled {
			continue
		}

		src, ok := createAdapter(sc.Name, httpClient, limiter, logger)
		if !ok {
			continue
		}

		wrapped := retry.NewSource(src, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)
		sources = append(sources, orchestrator.Source{
			Adapter:    wrapped,
			Priority:   sc.Priority,
			MaxResults: sc.MaxResults,
		})
		logger.Info("registered source", "name", sc.Name, "priority", sc.Priority)
	}
	return orchestrator.New(sources, logger)
}

// buildEnricher wires the domain resolver and contact finder, or returns
// nil when enrichment is disabled.
func buildEnricher(cfg *config.Config, httpClient *http.Client, limiter *ratelimit.JitterLimiter, logger *slog.Logger) *contact.Enricher {
	if !cfg.Contact.Enabled {
		return nil
	}
	resolver := company.NewResolver(cfg.Contact.ResolverURL, httpClient, limiter, cfg.Contact.BlockedDomains, logger)
	finder := contact.NewFinder(httpClient, limiter, logger)
	return contact.NewEnricher(resolver, finder, cfg.Contact.Workers, logger)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
