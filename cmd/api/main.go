package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/baharkarakas/wallet-api/internal/api"
	"github.com/baharkarakas/wallet-api/internal/config"
	"github.com/baharkarakas/wallet-api/internal/db"
	"github.com/baharkarakas/wallet-api/internal/logger"
	"github.com/baharkarakas/wallet-api/internal/metrics"
	"github.com/baharkarakas/wallet-api/internal/ratelimit"
	"github.com/baharkarakas/wallet-api/internal/repository/postgres"
	"github.com/baharkarakas/wallet-api/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	// the listener must not bind until the table exists
	if err := db.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("initializing the database: %w", err)
	}
	log.Info("database initialized")

	repos := postgres.NewRepositories(pool, cfg.QueryTimeout)
	txnSvc := services.NewTransactionService(repos.Transactions)

	metrics.Init()
	r := api.NewRouter(cfg, txnSvc, newLimiter(cfg, log))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLimiter(cfg config.Config, log *slog.Logger) ratelimit.Limiter {
	if cfg.RemoteRateLimit() {
		log.Info("rate limiter", "backend", "upstash", "key", cfg.RateLimitKey, "scope", cfg.RateLimitScope,
			"max", cfg.RateLimitMax, "window", cfg.RateLimitWindow)
		client := &http.Client{Timeout: cfg.RateLimitTimeout}
		return ratelimit.NewUpstash(cfg.UpstashURL, cfg.UpstashToken, cfg.RateLimitMax, cfg.RateLimitWindow, client)
	}
	log.Warn("UPSTASH_REDIS_REST_URL/TOKEN not set, using in-process rate limiter",
		"max", cfg.RateLimitMax, "window", cfg.RateLimitWindow)
	return ratelimit.NewLocal(cfg.RateLimitMax, cfg.RateLimitWindow)
}
