package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the configured job sources",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%-18s %-9s %-9s %s\n", "SOURCE", "ENABLED", "PRIORITY", "MAX RESULTS")
	for _, sc := range cfg.Sources {
		fmt.Printf("%-18s %-9t %-9d %d\n", sc.Name, sc.Enabled, sc.Priority, sc.MaxResults)
	}
	return nil
}
