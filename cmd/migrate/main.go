// Package main applies the database schema.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/max-friebertshaeuser/F1Insight/internal/config"
	"github.com/max-friebertshaeuser/F1Insight/internal/database"
	applogger "github.com/max-friebertshaeuser/F1Insight/internal/logger"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  `Create or update all tables and indexes. The schema is idempotent; re-running against an up-to-date database is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runMigration(ctx context.Context) error {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close(context.Background())

	if err := db.ApplySchema(ctx); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	appLog.Info("Database schema applied")
	fmt.Println("Schema applied successfully")

	return nil
}
