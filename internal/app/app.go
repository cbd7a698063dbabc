// Package app wires the digest pipeline from a Config. Both binaries (the
// long-running service and the one-shot CLI) build their runner here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/nyashahama/bump-digest/internal/config"
	"github.com/nyashahama/bump-digest/internal/content"
	"github.com/nyashahama/bump-digest/internal/db"
	"github.com/nyashahama/bump-digest/internal/digest"
	"github.com/nyashahama/bump-digest/internal/email"
	"github.com/nyashahama/bump-digest/internal/store"
	"github.com/nyashahama/bump-digest/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
)

// OpenPool opens and pings the connection pool without preparing statements,
// so it works against an empty schema (migrations).
func OpenPool(ctx context.Context, dsn string) (*sql.DB, error) {
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(10)
	pool.SetConnMaxLifetime(5 * time.Minute)
	pool.SetConnMaxIdleTime(2 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// OpenDB opens the pool and prepares all sqlc statements. Preparing validates
// every query against the live schema, so a process started against an
// unmigrated database fails here rather than at the first run.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, *db.Queries, error) {
	pool, err := OpenPool(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	prepCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	queries, err := db.Prepare(prepCtx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("prepare statements: %w", err)
	}
	return pool, queries, nil
}

// NewRunner builds the Job and Runner for cfg. Metrics are registered on reg.
func NewRunner(cfg *config.Config, q db.Querier, reg prometheus.Registerer, logger *slog.Logger) (*worker.Runner, error) {
	catalogue, err := content.Default()
	if err != nil {
		return nil, fmt.Errorf("content catalogue: %w", err)
	}

	mailer := email.NewResendClient(cfg.ResendAPIKey, cfg.EmailFromAddr, cfg.EmailFromName)
	metrics := worker.NewMetrics(reg)

	job := worker.NewJob(q, store.New(q), catalogue, mailer, worker.JobConfig{
		CallTimeout: cfg.DigestCallTimeout,
		Aggregator: digest.AggregatorConfig{
			ResourceLimit:  cfg.DigestResourceLimit,
			ResourceWindow: cfg.DigestResourceWindow,
			BaseURL:        cfg.BaseURL,
		},
	}, metrics, logger)

	return worker.NewRunner(job, q, worker.RunnerConfig{
		Workers:     cfg.DigestWorkers,
		LoadTimeout: cfg.DigestCallTimeout,
		RunTimeout:  cfg.DigestRunTimeout,
	}, metrics, logger), nil
}
