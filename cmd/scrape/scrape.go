// Package scrape implements the scrape command group: crawl URLs, harvest
// Swiss German sentences and optionally turn them into new seeds.
package scrape

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/swigspot/gswcrawl/internal/config"
	"github.com/swigspot/gswcrawl/internal/logger"
	"github.com/swigspot/gswcrawl/internal/queue"
	"github.com/swigspot/gswcrawl/internal/scraper"
)

// Command returns the scrape command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Crawl URLs and harvest Swiss German sentences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().Bool("seed", false, "generate new seeds from the sentences found during the run")

	cmd.AddCommand(dumpConfigCommand())
	cmd.AddCommand(genSeedsCommand())
	cmd.AddCommand(fromStoreCommand())
	cmd.AddCommand(fromFileCommand())
	return cmd
}

// closeAll releases whatever resources the pipeline tools hold, such as the
// store connection or a headless browser.
func closeAll(ctx context.Context, log logger.Interface, resources ...any) {
	for _, res := range resources {
		var err error
		switch c := res.(type) {
		case interface{ Close(context.Context) error }:
			err = c.Close(ctx)
		case interface{ Close() error }:
			err = c.Close()
		case interface{ Close() }:
			c.Close()
			continue
		default:
			continue
		}
		if err != nil {
			log.Error("close failed", "error", err)
		}
	}
}

// runScrape queues the given URLs, drains the queue through the pipeline
// and optionally generates seeds from the yield.
func runScrape(ctx context.Context, cmd *cobra.Command, cfg *config.Config, pipeline *scraper.Pipeline, urls []string, log logger.Interface) error {
	runner := scraper.NewRunner(pipeline, cfg.Options.NumWorkers, cfg.Options.CrawlDepth, log)

	q := queue.New()
	for _, url := range urls {
		if err := runner.Enqueue(ctx, q, url); err != nil {
			return err
		}
	}

	sentences, err := runner.Run(ctx, q)
	if err != nil {
		return err
	}

	genSeeds, _ := cmd.Flags().GetBool("seed")
	if genSeeds && len(sentences) > 0 {
		seeds, err := runner.GenerateSeeds(ctx, sentences, cfg.Options.NumSeeds, false)
		if err != nil {
			return err
		}
		for _, seed := range seeds {
			cmd.Println(seed)
		}
	}
	return nil
}
