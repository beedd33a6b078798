package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"community-feed/internal/common/pagination"
	appcfg "community-feed/internal/config"
	hhttp "community-feed/internal/handler/http"
	"community-feed/internal/handler/http/auth"
	hpost "community-feed/internal/handler/http/post"
	"community-feed/internal/handler/http/requestid"
	hsearch "community-feed/internal/handler/http/search"
	htopic "community-feed/internal/handler/http/topic"
	pgRepo "community-feed/internal/infra/adapter/persistence/postgres"
	"community-feed/internal/infra/db"
	"community-feed/internal/observability/tracing"
	"community-feed/internal/resilience/circuitbreaker"
	engUC "community-feed/internal/usecase/engagement"
	postUC "community-feed/internal/usecase/post"
	searchUC "community-feed/internal/usecase/search"
	topicUC "community-feed/internal/usecase/topic"
	"community-feed/internal/usecase/view"
	"community-feed/pkg/config"
)

func main() {
	logger := initLogger()
	applySecurityConfig(logger)
	validateJWTSecret(logger)
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	handler := setupServer(logger, database, version)

	runServer(logger, handler, version)
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

// applySecurityConfig loads the optional security YAML and applies its
// overrides before any route is registered.
func applySecurityConfig(logger *slog.Logger) {
	path := os.Getenv("SECURITY_CONFIG_PATH")
	if path == "" {
		return
	}
	sc, err := appcfg.LoadSecurityConfig(path)
	if err != nil {
		logger.Error("failed to load security configuration",
			slog.String("path", path),
			slog.Any("error", err))
		os.Exit(1)
	}
	if eps := sc.GetPublicEndpoints(); len(eps) > 0 {
		auth.PublicEndpoints = eps
	}
	auth.SecretEnv = sc.GetJWTSecretEnv()
	logger.Info("security configuration loaded", slog.String("path", path))
}

// validateJWTSecret validates the JWT signing secret for security requirements.
func validateJWTSecret(logger *slog.Logger) {
	secret := os.Getenv(auth.SecretEnv)
	if secret == "" {
		logger.Error("JWT secret must be set", slog.String("env", auth.SecretEnv))
		os.Exit(1)
	}
	if len(secret) < 32 {
		logger.Error("JWT secret must be at least 32 characters (256 bits)", slog.String("env", auth.SecretEnv))
		os.Exit(1)
	}
	weakSecrets := []string{"secret", "password", "test", "admin", "default"}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			logger.Error("JWT secret must not be a common weak value", slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// loadRankingConfig loads ranking weights from RANKING_CONFIG_PATH, falling
// back to the default policy when no file is configured.
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

// setupServer wires the stores, view engine, services, and routes, and
// returns the HTTP handler with the full middleware chain applied.
func setupServer(logger *slog.Logger, database *sql.DB, version string) http.Handler {
	// All store traffic runs behind the database circuit breaker so a dead
	// backend fails fast instead of piling up connection attempts.
	breaker := circuitbreaker.NewDBCircuitBreaker(database)

	store := pgRepo.NewAggregateStore(breaker)
	reader := pgRepo.NewDocumentReader(breaker)

	rc := loadRankingConfig(logger)
	weights := view.Weights{
		Like:    rc.Ranking.Weights.Like,
		Comment: rc.Ranking.Weights.Comment,
		View:    rc.Ranking.Weights.View,
	}

	engine := view.NewEngine(store, reader, logger)
	postView := view.NewPostView(weights)
	topicView := view.NewTopicView(weights)

	postSvc := &postUC.Service{
		Repo:   pgRepo.NewPostRepo(breaker),
		Engine: engine,
		Posts:  postView,
		Topics: topicView,
	}
	topicSvc := &topicUC.Service{
		Repo:   pgRepo.NewTopicRepo(breaker),
		Engine: engine,
		Topics: topicView,
	}
	engSvc := &engUC.Service{
		Comments: pgRepo.NewCommentRepo(breaker),
		Replies:  pgRepo.NewReplyRepo(breaker),
		Likes:    pgRepo.NewLikeRepo(breaker),
		Views:    pgRepo.NewViewRepo(breaker),
		Follows:  pgRepo.NewFollowRepo(breaker),
		Engine:   engine,
		Posts:    postView,
		Topics:   topicView,
	}
	searchSvc := searchUC.NewService(store, searchUC.Config{
		Boost:         rc.Ranking.Search.PopularityBoost,
		MinSimilarity: rc.Ranking.Search.MinSimilarity,
	}, logger)

	paginationCfg := pagination.LoadFromEnv()

	mux := http.NewServeMux()
	hpost.Register(mux, postSvc, engSvc, engine, postView, paginationCfg, logger)
	htopic.Register(mux, topicSvc, engSvc, engine, topicView, paginationCfg, logger)
	hsearch.Register(mux, searchSvc, postView, topicView, paginationCfg, logger)

	mux.Handle("GET    /health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("GET    /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET    /live", &hhttp.LiveHandler{})
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, mux)
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost first): Request ID -> Input Limits -> Rate Limit ->
// Recovery -> Logging -> Tracing -> Timeout -> Body Limit -> Metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	requestTimeout := config.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second)

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = hhttp.Timeout(requestTimeout)(chain)
	chain = tracing.Middleware(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)

	if config.GetEnvBool("RATE_LIMIT_ENABLED", true) {
		rps := config.GetEnvInt("RATE_LIMIT_RPS", 50)
		burst := config.GetEnvInt("RATE_LIMIT_BURST", 100)
		limiter := hhttp.NewRateLimiter(float64(rps), burst)
		logger.Info("rate limiting enabled",
			slog.Int("requests_per_second", rps),
			slog.Int("burst", burst))
		chain = limiter.Limit(chain)
	}

	chain = hhttp.InputValidation()(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := config.GetEnvString("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
