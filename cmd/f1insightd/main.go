// Package main provides the entry point for the F1Insight scoring daemon.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/max-friebertshaeuser/F1Insight/internal/config"
	"github.com/max-friebertshaeuser/F1Insight/internal/database"
	"github.com/max-friebertshaeuser/F1Insight/internal/health"
	"github.com/max-friebertshaeuser/F1Insight/internal/ingest"
	applogger "github.com/max-friebertshaeuser/F1Insight/internal/logger"
	"github.com/max-friebertshaeuser/F1Insight/internal/metrics"
	"github.com/max-friebertshaeuser/F1Insight/internal/repository"
	"github.com/max-friebertshaeuser/F1Insight/internal/scheduler"
	"github.com/max-friebertshaeuser/F1Insight/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults(os.Getenv("F1INSIGHT_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("F1Insight scoring daemon starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close(context.Background())

	appLog.Info("Database connection established")

	// Initialize repositories
	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Initialize services
	settler := service.NewSettlementService(db, repos.Bet, repos.BetStat, appLog)
	evaluator := service.NewEvaluationService(repos.Race, repos.Result, repos.Bet, settler, appLog)

	httpCfg := ingest.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.Ergast.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.Ergast.MaxRetries
	httpCfg.RateLimit = cfg.Ergast.RateLimit
	httpClient := ingest.NewRateLimitedHTTPClient(httpCfg, nil)
	defer httpClient.Close()

	apiClient := ingest.NewClient(cfg.Ergast.BaseURL, cfg.Ergast.PageSize, httpClient)
	syncService := ingest.NewSyncService(apiClient, repos.Race, repos.Result, repos.Qualifying, repos.Reference, appLog)

	// Schedule background jobs
	sweepTimeout := time.Duration(cfg.Sweep.BatchTimeout) * time.Second
	sched := scheduler.NewScheduler(evaluator, syncService, sweepTimeout, appLog)
	if err := sched.ScheduleSweep(cfg.Sweep.Cron); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule evaluation sweep")
	}
	if err := sched.ScheduleDataSync(cfg.Sweep.DataSyncCron); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule data sync")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	// Start metrics server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, appLog)
		metricsServer.Start(ctx)
	}

	// Start health check server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Health.Port,
		Logger:      appLog,
		DB:          db,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"sweep_cron":     cfg.Sweep.Cron,
		"data_sync_cron": cfg.Sweep.DataSyncCron,
		"next_run":       sched.NextRun(),
	}).Info("Daemon is running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	appLog.Info("F1Insight scoring daemon shut down successfully")
}
