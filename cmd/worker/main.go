package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	appcfg "community-feed/internal/config"
	"community-feed/internal/handler/http/respond"
	pgRepo "community-feed/internal/infra/adapter/persistence/postgres"
	"community-feed/internal/infra/db"
	workerPkg "community-feed/internal/infra/worker"
	"community-feed/internal/resilience/circuitbreaker"
	"community-feed/internal/usecase/sweep"
	"community-feed/internal/usecase/view"
)

// waitForMigrations blocks until the API's migrations have created the
// base tables, so a sweep never runs against a half-initialized schema.
func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM posts LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("sweep_max_concurrent", workerConfig.SweepMaxConcurrent),
		slog.Duration("sweep_timeout", workerConfig.SweepTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	startMetricsServer(ctx, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	healthDone := make(chan struct{})
	go func() {
		defer close(healthDone)
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	svc := setupSweepService(logger, database, workerConfig)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	startCronWorker(logger, svc, workerConfig, workerMetrics, healthServer, quit)

	// Cron has drained; stop the metrics and health servers and wait for
	// the health server to finish its graceful shutdown.
	cancel()
	select {
	case <-healthDone:
	case <-time.After(10 * time.Second):
		logger.Warn("health server did not stop in time")
	}
	logger.Info("worker stopped")
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and waits for migrations to complete.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

// setupSweepService wires the aggregate sweep against the store and views.
func setupSweepService(logger *slog.Logger, database *sql.DB, cfg *workerPkg.WorkerConfig) *sweep.Service {
	breaker := circuitbreaker.NewDBCircuitBreaker(database)

	rc := loadRankingConfig(logger)
	weights := view.Weights{
		Like:    rc.Ranking.Weights.Like,
		Comment: rc.Ranking.Weights.Comment,
		View:    rc.Ranking.Weights.View,
	}

	store := pgRepo.NewAggregateStore(breaker)
	reader := pgRepo.NewDocumentReader(breaker)
	engine := view.NewEngine(store, reader, logger)

	return &sweep.Service{
		Posts:         pgRepo.NewPostRepo(breaker),
		Topics:        pgRepo.NewTopicRepo(breaker),
		Engine:        engine,
		PostView:      view.NewPostView(weights),
		TopicView:     view.NewTopicView(weights),
		MaxConcurrent: cfg.SweepMaxConcurrent,
		Logger:        logger,
	}
}

// loadRankingConfig loads ranking weights from RANKING_CONFIG_PATH, falling
// back to the default policy. The worker must score aggregates with the
// same weights as the API or sweeps would silently rewrite every score.
func loadRankingConfig(logger *slog.Logger) *appcfg.RankingConfig {
	path := os.Getenv("RANKING_CONFIG_PATH")
	if path == "" {
		return appcfg.DefaultRankingConfig()
	}
	rc, err := appcfg.LoadRankingConfig(path)
	if err != nil {
		logger.Error("failed to load ranking configuration",
			slog.String("path", path),
			slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("ranking configuration loaded", slog.String("path", path))
	return rc
}

// cronDrainTimeout bounds how long shutdown waits for an in-flight
// sweep before abandoning it.
const cronDrainTimeout = 30 * time.Second

// startCronWorker runs the cron scheduler until stop delivers a shutdown
// signal, then flips readiness off and waits for any running sweep to
// drain before returning.
func startCronWorker(logger *slog.Logger, svc *sweep.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer, stop <-chan os.Signal) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runSweepJob(logger, svc, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	sig := <-stop
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	healthServer.SetReady(false)

	// Stop scheduling new sweeps and wait, bounded, for a running one.
	drained := c.Stop()
	select {
	case <-drained.Done():
	case <-time.After(cronDrainTimeout):
		logger.Warn("timed out waiting for running sweep to finish")
	}
}

// runSweepJob executes a single staleness sweep with timeout and error handling.
func runSweepJob(logger *slog.Logger, svc *sweep.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	metrics.RecordJobRun("started")
	logger.Info("sweep started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SweepTimeout)
	defer cancel()

	stats, err := svc.Run(ctx)
	if err != nil {
		logger.Error("sweep failed", slog.String("error", respond.SanitizeError(err)))
		metrics.RecordJobRun("failure")
		metrics.RecordJobDuration(time.Since(startTime).Seconds())
		return
	}

	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordAggregatesRefreshed(stats.Refreshed)
	metrics.RecordLastSuccess()

	logger.Info("sweep completed",
		slog.Int("refreshed", stats.Refreshed),
		slog.Int("removed", stats.Removed),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", stats.Duration),
	)
}
