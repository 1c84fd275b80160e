// Package config loads the service configuration from the environment.
// A .env file in the working directory is read first; real environment variables win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store selects the persistence backend.
type Store string

const (
	StorePostgres Store = "postgres"
	StoreMemory   Store = "memory"
)

// Config is the full service configuration.
type Config struct {
	HTTPAddr string

	Store       Store
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	AutoMigrate bool

	LogLevel       string
	LogDevelopment bool

	StatementTimeout time.Duration
	ShutdownTimeout  time.Duration
	IdempotencyTTL   time.Duration

	// Worker
	OutboxInterval  time.Duration
	OutboxBatchSize int
	OutboxRetention time.Duration
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}

	cfg := &Config{
		HTTPAddr:         r.str("HTTP_ADDR", ":8080"),
		Store:            Store(strings.ToLower(r.str("STORE", string(StorePostgres)))),
		DatabaseURL:      r.str("DATABASE_URL", ""),
		DBMaxConns:       int32(r.integer("DB_MAX_CONNS", 25)),
		DBMinConns:       int32(r.integer("DB_MIN_CONNS", 2)),
		AutoMigrate:      r.boolean("AUTO_MIGRATE", false),
		LogLevel:         r.str("LOG_LEVEL", "info"),
		LogDevelopment:   r.boolean("LOG_DEVELOPMENT", false),
		StatementTimeout: r.duration("STATEMENT_TIMEOUT", 30*time.Second),
		ShutdownTimeout:  r.duration("SHUTDOWN_TIMEOUT", 30*time.Second),
		IdempotencyTTL:   r.duration("IDEMPOTENCY_TTL", 24*time.Hour),
		OutboxInterval:   r.duration("OUTBOX_INTERVAL", time.Second),
		OutboxBatchSize:  r.integer("OUTBOX_BATCH_SIZE", 100),
		OutboxRetention:  r.duration("OUTBOX_RETENTION", 7*24*time.Hour),
	}
	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field rules.
func (c *Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE=postgres")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store)
	}
	if c.DBMaxConns < 1 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid pool bounds: min %d, max %d", c.DBMinConns, c.DBMaxConns)
	}
	if c.OutboxBatchSize < 1 {
		return errors.New("OUTBOX_BATCH_SIZE must be positive")
	}
	return nil
}

type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *reader) integer(key string, def int) int {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (r *reader) boolean(key string, def bool) bool {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}
