package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scout-genomics/scout/internal/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := loadSettings()
			if err != nil {
				return err
			}

			runner, err := database.NewMigrationRunner(settings.Database.URL(),
				settings.Database.Migrations, logger)
			if err != nil {
				return err
			}
			defer runner.Close()
			return runner.Up()
		},
	}
}

func newWipeCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Drop the entire database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to wipe without --yes")
			}

			settings, logger, err := loadSettings()
			if err != nil {
				return err
			}

			runner, err := database.NewMigrationRunner(settings.Database.URL(),
				settings.Database.Migrations, logger)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := runner.Drop(); err != nil {
				return err
			}
			logger.Warn("Database schema dropped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return cmd
}
