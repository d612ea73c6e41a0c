// Package search implements the search command group: turn seed queries
// into candidate URLs through a search engine.
package search

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/swigspot/gswcrawl/internal/logger"
)

// Command returns the search command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the web for Swiss German URLs using stored seeds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(dumpConfigCommand())
	cmd.AddCommand(fromStoreCommand())
	cmd.AddCommand(fromFileCommand())
	return cmd
}

func closeStore(ctx context.Context, log logger.Interface, store any) {
	var err error
	switch c := store.(type) {
	case interface{ Close(context.Context) error }:
		err = c.Close(ctx)
	case interface{ Close() error }:
		err = c.Close()
	default:
		return
	}
	if err != nil {
		log.Error("close store failed", "error", err)
	}
}
