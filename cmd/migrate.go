package main

import (
	"github.com/spf13/cobra"

	"github.com/farellandr/eventreg/config"
	"github.com/farellandr/eventreg/internal/models"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := config.OpenDatabase(cfg.Database, logger)
		if err != nil {
			return err
		}
		if err := models.AutoMigrate(db); err != nil {
			return err
		}

		logger.Info().Msg("schema migrated")
		return nil
	},
}
