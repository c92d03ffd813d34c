package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/atelier-erp/cashbox/internal/adapter/http"
	"github.com/atelier-erp/cashbox/internal/adapter/http/handler"
	"github.com/atelier-erp/cashbox/internal/adapter/http/middleware"
	postgresRepo "github.com/atelier-erp/cashbox/internal/adapter/repository/postgres"
	redisRepo "github.com/atelier-erp/cashbox/internal/adapter/repository/redis"
	"github.com/atelier-erp/cashbox/internal/infrastructure/config"
	"github.com/atelier-erp/cashbox/internal/infrastructure/logger"
	"github.com/atelier-erp/cashbox/internal/infrastructure/metrics"
	"github.com/atelier-erp/cashbox/internal/infrastructure/postgres"
	"github.com/atelier-erp/cashbox/internal/infrastructure/redis"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

func main() {
	// .env is optional; production supplies real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	branchRepo := postgresRepo.NewBranchRepository(pool)
	cashboxRepo := postgresRepo.NewCashboxRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	m := metrics.New()

	// Initialize use cases
	cashboxUC := usecase.NewCashboxUseCase(txManager, branchRepo, cashboxRepo, auditRepo, idGen, m)
	postingUC := usecase.NewPostingUseCase(txManager, cashboxRepo, entryRepo, auditRepo, idGen, retrier, m)
	reconciliationUC := usecase.NewReconciliationUseCase(txManager, cashboxRepo, entryRepo, auditRepo, idGen, retrier, m)
	entryUC := usecase.NewEntryUseCase(cashboxRepo, entryRepo)

	// Initialize handlers
	branchHandler := handler.NewBranchHandler(cashboxUC)
	cashboxHandler := handler.NewCashboxHandler(cashboxUC, postingUC, reconciliationUC)
	entryHandler := handler.NewEntryHandler(entryUC, postingUC)
	auditHandler := handler.NewAuditHandler(cashboxUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		BranchHandler:    branchHandler,
		CashboxHandler:   cashboxHandler,
		EntryHandler:     entryHandler,
		AuditHandler:     auditHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		RequestLogger:    middleware.NewLoggingMiddleware(appLogger),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
