package scrape

import (
	"github.com/spf13/cobra"

	"github.com/swigspot/gswcrawl/cmd/common"
)

// dumpConfigCommand prints the effective configuration. With --test it also
// instantiates the whole pipeline, so bad tool tags or unreachable backends
// surface before a long run.
func dumpConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-config",
		Short: "Print the resolved scrape configuration",
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
				pipeline, err := cfg.BuildScrapePipeline(ctx, log)
				if err != nil {
					return err
				}
				closeAll(ctx, log, pipeline.Crawler, pipeline.Store)
				log.Info("pipeline instantiated successfully")
			}
			return nil
		},
	}

	cmd.Flags().Bool("test", false, "also instantiate the pipeline tools")
	return cmd
}
