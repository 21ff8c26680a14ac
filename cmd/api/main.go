package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/4oBuko/spy-cat-agency-records/internal/config"
	"github.com/4oBuko/spy-cat-agency-records/internal/logging"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// load resolves configuration and builds the logger for a subcommand.
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "agency",
		Short: "Spy Cat Agency record service",
		Long: `agency keeps the records of the Spy Cat Agency: its cats, their
missions and the targets of each mission.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging in console format")

	rootCmd.AddCommand(serveCmd(opts))
	rootCmd.AddCommand(migrateCmd(opts))
	rootCmd.AddCommand(breedsCmd(opts))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
