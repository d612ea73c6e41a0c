package scrape

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swigspot/gswcrawl/cmd/common"
)

// fromFileCommand crawls URLs listed in a file, one per line. Lines that do
// not start with http and URLs already on the blacklist are skipped.
func fromFileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "from-file <urlfile>",
		Short: "Crawl URLs listed in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := common.Setup(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open url file: %w", err)
			}
			defer f.Close()

			ctx := cmd.Context()
			pipeline, err := cfg.BuildScrapePipeline(ctx, log)
			if err != nil {
				return err
			}
			defer closeAll(ctx, log, pipeline.Crawler, pipeline.Store)

			var urls []string
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				url := strings.TrimSpace(scanner.Text())
				if !strings.HasPrefix(url, "http") {
					continue
				}
				blacklisted, err := pipeline.Store.IsURLBlacklisted(ctx, url)
				if err != nil {
					return err
				}
				if blacklisted {
					log.Info("skipping blacklisted url", "url", url)
					continue
				}
				urls = append(urls, url)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read url file: %w", err)
			}
			log.Info("loaded urls from file", "file", args[0], "count", len(urls))

			return runScrape(ctx, cmd, cfg, pipeline, urls, log)
		},
	}
	return cmd
}
