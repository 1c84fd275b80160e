// Package main is the entry point for the ledgerpos API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledgerpos/internal/app"
	"ledgerpos/internal/config"
	v1 "ledgerpos/internal/infrastructure/http/v1"
	"ledgerpos/internal/infrastructure/http/v1/handlers"
	"ledgerpos/internal/infrastructure/http/v1/middleware"
	"ledgerpos/internal/infrastructure/storage/memory"
	"ledgerpos/internal/infrastructure/storage/postgres"
	"ledgerpos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting ledgerpos server", "store", cfg.Store)

	var (
		repos       app.Repositories
		pinger      handlers.Pinger
		idempotency middleware.IdempotencyStore
	)

	switch cfg.Store {
	case config.StoreMemory:
		repos = app.MemoryRepositories(memory.New())
		log.Warn("memory store: data is lost on restart")

	case config.StorePostgres:
		poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
		poolCfg.MaxConns = cfg.DBMaxConns
		poolCfg.MinConns = cfg.DBMinConns
		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		txManager := postgres.NewTxManager(pool, cfg.StatementTimeout)
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, txManager); err != nil {
				log.Fatalw("failed to apply schema", "error", err)
			}
		}

		repos, err = app.PostgresRepositories(txManager)
		if err != nil {
			log.Fatalw("failed to build repositories", "error", err)
		}
		pinger = pool
		idempotency = postgres.NewIdempotencyStore(txManager, cfg.IdempotencyTTL)
	}

	router := v1.NewRouter(v1.RouterConfig{
		Services:    app.New(repos),
		Logger:      log,
		Idempotency: idempotency,
		Store:       string(cfg.Store),
		Pinger:      pinger,
		Debug:       cfg.LogDevelopment,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
