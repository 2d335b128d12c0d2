package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"curbside-backend/internal/db"
)

func newMigrateCmd(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and seed reference windows from the config",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stdout, "curbside ", log.LstdFlags)

			cfg, err := loadConfig(logger)
			if err != nil {
				return err
			}

			gormDB, err := db.Init(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			if err := db.Seed(cmd.Context(), gormDB, cfg); err != nil {
				return err
			}
			logger.Println("migration complete")
			return nil
		},
	}
}
