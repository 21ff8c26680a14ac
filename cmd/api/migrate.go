package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/4oBuko/spy-cat-agency-records/internal/storage"
)

func migrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := storage.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
			logger.Debug("schema migrated", zap.String("driver", cfg.Database.Driver))
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date (%s)\n",
				color.New(color.FgGreen).Sprint("OK"), cfg.Database.Driver)
			return nil
		},
	}
}
