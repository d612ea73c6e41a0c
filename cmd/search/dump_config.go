package search

import (
	"github.com/spf13/cobra"

	"github.com/swigspot/gswcrawl/cmd/common"
)

// dumpConfigCommand prints the effective configuration. With --test it also
// instantiates the store and the search engine.
func dumpConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-config",
		Short: "Print the resolved search configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := common.Setup(cmd)
			if err != nil {
				return err
			}

			dump, err := cfg.Dump()
			if err != nil {
				return err
			}
			cmd.Print(dump)

			test, _ := cmd.Flags().GetBool("test")
			if test {
				ctx := cmd.Context()
				store, err := cfg.BuildStore(ctx, log)
				if err != nil {
					return err
				}
				defer closeStore(ctx, log, store)
				if _, err := cfg.BuildSearchEngine(ctx, store, log); err != nil {
					return err
				}
				log.Info("search engine instantiated successfully")
			}
			return nil
		},
	}

	cmd.Flags().Bool("test", false, "also instantiate the search tools")
	return cmd
}
