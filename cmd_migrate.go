package main

import (
	"github.com/spf13/cobra"

	"github.com/camden-git/communitybackend/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.AutoMigrateModels(a.db); err != nil {
				return err
			}
			a.log.Info("database schema migrated", "path", a.cfg.DatabasePath)
			return nil
		},
	}
}
