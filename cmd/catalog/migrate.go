package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/catalog-backend/internal/data/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the store schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := db.NewService(cfg.DB, log)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.AutoMigrateAll(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}
