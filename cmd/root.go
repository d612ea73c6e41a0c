// Package cmd implements the command-line interface: a scrape command group
// driving the crawl pipeline and a search command group driving seed
// searches.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/swigspot/gswcrawl/cmd/scrape"
	"github.com/swigspot/gswcrawl/cmd/search"
)

var rootCmd = &cobra.Command{
	Use:   "gswcrawl",
	Short: "Discover Swiss German text on the web",
	Long: `gswcrawl maintains a growing corpus of written Swiss German. The search
command turns seed queries into candidate URLs through a search engine; the
scrape command crawls those URLs, extracts Swiss German sentences and
generates new seeds from what it finds.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context, so running scrape workers finish their current page, save the
// leftover queue and exit.
func Execute() error {
	// load .env early so config env overrides are in place
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "override the log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("db", "d", "", "override the database set in the config")

	rootCmd.AddCommand(scrape.Command())
	rootCmd.AddCommand(search.Command())
}
