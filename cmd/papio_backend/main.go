package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/namboy94/papio/internal/adapters/database/pgsql"
	"github.com/namboy94/papio/internal/adapters/ratecache"
	"github.com/namboy94/papio/internal/adapters/rates"
	"github.com/namboy94/papio/internal/core/services"
	"github.com/namboy94/papio/internal/handlers"
	"github.com/namboy94/papio/internal/middleware"
	"github.com/namboy94/papio/internal/platform/config"
	"github.com/namboy94/papio/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Rate conversion engine: external providers plus the on-disk fallback
	// cache, refreshed in the background on a schedule.
	converter := services.NewConverterService(
		rates.NewECBSource(cfg.FiatRatesURL, cfg.RateFetchTimeout),
		rates.NewCryptoSource(cfg.CryptoRatesURL, cfg.RateFetchTimeout),
		ratecache.NewFileCache(cfg.RateCacheFile),
		cfg.RateFreshnessWindow,
		logger,
	)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RateRefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RateFetchTimeout)
		defer cancel()
		converter.Update(ctx, true)
	}); err != nil {
		logger.Error("Invalid rate refresh schedule", slog.String("schedule", cfg.RateRefreshSchedule), slog.String("error", err.Error()))
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := &services.Container{
		Auth:        services.NewAuthService(cfg.AuthUsername, cfg.AuthPasswordHash, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiryDuration),
		Converter:   converter,
		Wallet:      services.NewWalletService(repos.WalletRepo, repos.TransactionRepo, converter),
		Transaction: services.NewTransactionService(repos.TransactionRepo, repos.WalletRepo, repos.CategoryRepo, repos.PartnerRepo, converter),
		Category:    services.NewCategoryService(repos.CategoryRepo),
		Partner:     services.NewPartnerService(repos.PartnerRepo),
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.Default(),
		middleware.RateLimit(limiter.New(memory.NewStore(), limiter.Rate{
			Period: time.Second,
			Limit:  int64(cfg.RateLimitRPS),
		})),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced server shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped.")
}

// runMigrations applies all pending schema migrations over a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
