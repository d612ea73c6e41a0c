package search

import (
	"github.com/spf13/cobra"

	"github.com/swigspot/gswcrawl/cmd/common"
)

// fromStoreCommand searches with seeds selected from the store.
func fromStoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "from-store",
		Short: "Search with seeds selected from the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := common.Setup(cmd)
			if err != nil {
				return err
			}

			numSeeds, _ := cmd.Flags().GetInt("num-seeds")
			onlyNew, _ := cmd.Flags().GetBool("new")

			ctx := cmd.Context()
			store, err := cfg.BuildStore(ctx, log)
			if err != nil {
				return err
			}
			defer closeStore(ctx, log, store)

			engine, err := cfg.BuildSearchEngine(ctx, store, log)
			if err != nil {
				return err
			}

			seeds, err := store.SeedsToSearch(ctx, onlyNew, numSeeds)
			if err != nil {
				return err
			}
			log.Info("selected seeds from store", "count", len(seeds), "new_only", onlyNew)

			added, err := engine.Process(ctx, seeds)
			if err != nil {
				return err
			}
			log.Info("search run done", "seeds", len(seeds), "new_urls", added)
			return nil
		},
	}

	cmd.Flags().IntP("num-seeds", "n", 5, "number of seeds to search with")
	cmd.Flags().Bool("new", false, "only use seeds that were never searched")
	cmd.Flags().Bool("any", false, "use new and known seeds (the default)")
	cmd.MarkFlagsMutuallyExclusive("new", "any")
	return cmd
}
