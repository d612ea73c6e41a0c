package search

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swigspot/gswcrawl/cmd/common"
	"github.com/swigspot/gswcrawl/internal/domain"
)

// fromFileCommand searches with seed queries listed in a file, one per
// line. Lines starting with whitespace are treated as comments and skipped.
func fromFileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "from-file <seedfile>",
		Short: "Search with seed queries listed in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := common.Setup(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()

			var seeds []*domain.Seed
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := scanner.Text()
				if line == "" || line != strings.TrimLeft(line, " \t") {
					continue
				}
				seeds = append(seeds, domain.NewSeed(line, domain.UserSource("")))
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read seed file: %w", err)
			}
			log.Info("loaded seeds from file", "file", args[0], "count", len(seeds))

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

			added, err := engine.Process(ctx, seeds)
			if err != nil {
				return err
			}
			log.Info("search run done", "seeds", len(seeds), "new_urls", added)
			return nil
		},
	}
	return cmd
}
