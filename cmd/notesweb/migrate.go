package main

import (
	"github.com/spf13/cobra"

	"notesweb/internal/config"
	"notesweb/internal/repos"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadDB()
		if err != nil {
			return err
		}
		db, err := repos.OpenDB(cmd.Context(), cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		return repos.Migrate(cmd.Context(), db)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations have been applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadDB()
		if err != nil {
			return err
		}
		db, err := repos.OpenDB(cmd.Context(), cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		return repos.MigrationStatus(cmd.Context(), db)
	},
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
