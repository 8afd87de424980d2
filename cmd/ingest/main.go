// Package main provides the reference data ingestion command.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/max-friebertshaeuser/F1Insight/internal/config"
	"github.com/max-friebertshaeuser/F1Insight/internal/database"
	"github.com/max-friebertshaeuser/F1Insight/internal/ingest"
	applogger "github.com/max-friebertshaeuser/F1Insight/internal/logger"
	"github.com/max-friebertshaeuser/F1Insight/internal/repository"
)

var (
	configFile string
	season     string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	syncCmd.Flags().StringVarP(&season, "season", "s", "", "Season to synchronize (e.g. 2025); empty for the latest on record")
	rootCmd.AddCommand(syncCmd, fullCmd)
}

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Synchronize F1 reference data",
	Long:  `Pull seasons, circuits, drivers, constructors, races and classifications from the reference data API into the local store.`,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Incremental sync of one season",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSyncService(cmd.Context(), func(ctx context.Context, svc *ingest.SyncService) error {
			if season != "" {
				return svc.SyncSeason(ctx, season)
			}
			return svc.SyncLatest(ctx)
		})
	},
}

var fullCmd = &cobra.Command{
	Use:   "full",
	Short: "Full historical load",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSyncService(cmd.Context(), func(ctx context.Context, svc *ingest.SyncService) error {
			return svc.SyncAll(ctx)
		})
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func withSyncService(ctx context.Context, run func(context.Context, *ingest.SyncService) error) error {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close(context.Background())

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	httpCfg := ingest.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.Ergast.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.Ergast.MaxRetries
	httpCfg.RateLimit = cfg.Ergast.RateLimit
	httpClient := ingest.NewRateLimitedHTTPClient(httpCfg, nil)
	defer httpClient.Close()

	client := ingest.NewClient(cfg.Ergast.BaseURL, cfg.Ergast.PageSize, httpClient)
	svc := ingest.NewSyncService(client, repos.Race, repos.Result, repos.Qualifying, repos.Reference, appLog)

	return run(ctx, svc)
}
