// Package main provides a one-shot runner for the bet evaluation sweep.
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
	"github.com/max-friebertshaeuser/F1Insight/internal/repository"
	"github.com/max-friebertshaeuser/F1Insight/internal/service"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "evaluate-bets",
	Short: "Run one bet evaluation sweep",
	Long:  `Evaluate every unevaluated bet whose race date has passed and settle the awarded points.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runSweep(ctx context.Context) error {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Sweep.BatchTimeout)*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close(context.Background())

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	settler := service.NewSettlementService(db, repos.Bet, repos.BetStat, appLog)
	evaluator := service.NewEvaluationService(repos.Race, repos.Result, repos.Bet, settler, appLog)

	summary, err := evaluator.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Sweep complete: %d evaluated, %d skipped (no reference race), %d failed in %s\n",
		summary.Evaluated, summary.SkippedNoReference, summary.Failed, summary.Duration)

	return nil
}
