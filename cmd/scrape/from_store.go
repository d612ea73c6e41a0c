package scrape

import (
	"github.com/spf13/cobra"

	"github.com/swigspot/gswcrawl/cmd/common"
)

// fromStoreCommand crawls the URLs the store considers most worth a visit.
func fromStoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "from-store",
		Short: "Crawl URLs selected from the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := common.Setup(cmd)
			if err != nil {
				return err
			}

			numURLs, _ := cmd.Flags().GetInt("num-urls")
			onlyNew, _ := cmd.Flags().GetBool("new")

			ctx := cmd.Context()
			pipeline, err := cfg.BuildScrapePipeline(ctx, log)
			if err != nil {
				return err
			}
			defer closeAll(ctx, log, pipeline.Crawler, pipeline.Store)

			urls, err := pipeline.Store.URLsToCrawl(ctx, onlyNew, numURLs)
			if err != nil {
				return err
			}
			log.Info("selected urls from store", "count", len(urls), "new_only", onlyNew)

			return runScrape(ctx, cmd, cfg, pipeline, urls, log)
		},
	}

	cmd.Flags().IntP("num-urls", "n", 20, "number of urls to crawl")
	cmd.Flags().Bool("new", false, "only crawl urls that were never visited")
	cmd.Flags().Bool("any", false, "crawl new and known urls (the default)")
	cmd.MarkFlagsMutuallyExclusive("new", "any")
	return cmd
}
