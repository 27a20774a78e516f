package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/browse"
	"github.com/jobsift/jobsift/internal/store"
)

var (
	recentLimit       int
	recentInteractive bool
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recently saved listings",
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 20, "number of listings to show")
	recentCmd.Flags().BoolVarP(&recentInteractive, "interactive", "i", false, "browse listings in an interactive view")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	listings, err := sqlStore.Recent(recentLimit)
	if err != nil {
		logger.Error("failed to load saved listings", "error", err)
		os.Exit(1)
	}

	if recentInteractive {
		return browse.Run(listings)
	}

	printResults(listings, "")
	return nil
}
