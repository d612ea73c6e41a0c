// Package common holds the setup shared by the scrape and search command
// groups.
package common

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swigspot/gswcrawl/internal/config"
	"github.com/swigspot/gswcrawl/internal/logger"
)

// Setup loads the configuration and the logger, honoring the persistent
// --config, --log-level and --db flags.
func Setup(cmd *cobra.Command) (*config.Config, logger.Interface, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	db, _ := cmd.Flags().GetString("db")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.SetLogLevel(logLevel)
	}
	if db != "" {
		cfg.SetDatabase(db)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log, nil
}
