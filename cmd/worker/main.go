// Package main is the entry point for the ledgerpos background worker.
// It relays the transactional outbox and expires old idempotency keys.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledgerpos/internal/config"
	"ledgerpos/internal/infrastructure/storage/postgres"
	"ledgerpos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.Store != config.StorePostgres {
		fmt.Println("the worker needs STORE=postgres")
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	log.Info("starting ledgerpos worker")

	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = 4
	poolCfg.MinConns = 1
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool, cfg.StatementTimeout)
	w := &Worker{
		relay:       postgres.NewOutboxRelay(txManager, cfg.OutboxBatchSize, NewLogSink(log)),
		idempotency: postgres.NewIdempotencyStore(txManager, cfg.IdempotencyTTL),
		pool:        pool,
		log:         log.WithComponent("worker"),
		interval:    cfg.OutboxInterval,
		retention:   cfg.OutboxRetention,
	}
	w.Run(ctx)

	log.Info("worker stopped")
}

// Worker runs the periodic jobs.
type Worker struct {
	relay       *postgres.OutboxRelay
	idempotency *postgres.IdempotencyStore
	pool        *postgres.Pool
	log         *logger.Logger
	interval    time.Duration
	retention   time.Duration
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(time.Hour)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drainOutbox(ctx)
		case <-cleanupTicker.C:
			w.cleanup(ctx)
			postgres.LogPoolStats(ctx, w.pool)
		}
	}
}

// drainOutbox relays full batches back to back so a backlog clears quickly.
func (w *Worker) drainOutbox(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := w.relay.ProcessBatch(ctx)
		if err != nil {
			w.log.Errorw("outbox relay failed", "error", err)
			return
		}
		if n == 0 {
			return
		}
		w.log.Debugw("outbox batch relayed", "messages", n)
	}
}

func (w *Worker) cleanup(ctx context.Context) {
	if n, err := w.idempotency.CleanupExpired(ctx); err != nil {
		w.log.Errorw("idempotency cleanup failed", "error", err)
	} else if n > 0 {
		w.log.Infow("expired idempotency keys removed", "count", n)
	}

	if n, err := w.relay.Purge(ctx, w.retention); err != nil {
		w.log.Errorw("outbox purge failed", "error", err)
	} else if n > 0 {
		w.log.Infow("published outbox messages purged", "count", n)
	}
}
