package scrape

import (
	"github.com/spf13/cobra"

	"github.com/swigspot/gswcrawl/cmd/common"
	"github.com/swigspot/gswcrawl/internal/domain"
)

// genSeedsCommand samples sentences from the store and turns them into new
// search seeds.
func genSeedsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-seeds",
		Short: "Generate search seeds from stored sentences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := common.Setup(cmd)
			if err != nil {
				return err
			}

			numSentences, _ := cmd.Flags().GetInt("num-sentences")
			num, _ := cmd.Flags().GetInt("num")
			onlyNew, _ := cmd.Flags().GetBool("new")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			if numSentences <= 0 {
				numSentences = cfg.Options.NumSentences
			}
			if num <= 0 {
				num = cfg.Options.NumSeeds
			}

			ctx := cmd.Context()
			pipeline, err := cfg.BuildScrapePipeline(ctx, log)
			if err != nil {
				return err
			}
			defer closeAll(ctx, log, pipeline.Crawler, pipeline.Store)

			var sentences []string
			if onlyNew {
				sentences, err = pipeline.Store.MostRecentSentences(ctx, numSentences)
			} else {
				sentences, err = pipeline.Store.RandomSentences(ctx, numSentences)
			}
			if err != nil {
				return err
			}
			log.Info("sampled sentences", "count", len(sentences), "newest_only", onlyNew)

			generated := pipeline.Seeder.Generate(sentences, num, nil)
			for _, seed := range generated {
				cmd.Println(seed)
			}
			if dryRun || len(generated) == 0 {
				return nil
			}
			return pipeline.Store.SaveSeeds(ctx, generated, domain.AutoSource(""))
		},
	}

	cmd.Flags().IntP("num-sentences", "s", 0, "number of sentences to sample (default from config)")
	cmd.Flags().IntP("num", "n", 0, "number of seeds to generate (default from config)")
	cmd.Flags().Bool("new", false, "sample the newest sentences instead of a random subset")
	cmd.Flags().Bool("any", false, "sample sentences at random (the default)")
	cmd.Flags().Bool("dry-run", false, "print the seeds without saving them")
	cmd.MarkFlagsMutuallyExclusive("new", "any")
	return cmd
}
