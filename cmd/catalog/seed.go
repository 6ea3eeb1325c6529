package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/catalog-backend/internal/data/db"
	"github.com/yungbote/catalog-backend/internal/data/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load YAML fixtures into the store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtures, err := seed.ParseFile(seedFile)
		if err != nil {
			return err
		}

		store, err := db.NewService(cfg.DB, log)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.AutoMigrateAll(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		res, err := seed.NewSeeder(store.DB(), log).Apply(cmd.Context(), fixtures)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories, %d products, %d pets, %d visits\n",
			res.Categories, res.Products, res.Pets, res.Visits)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "config/fixtures.yaml", "fixtures file")
}
