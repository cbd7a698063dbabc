// Package worker contains the digest batch: a bulk preference load, a bounded
// pool of goroutines that runs one Job per due subscriber, and the merge of
// their outcomes into a single digest.RunResult. The api and scheduler
// packages hold the DigestRunner interface and never see the concrete Runner
// or Job types.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nyashahama/bump-digest/internal/db"
	"github.com/nyashahama/bump-digest/internal/digest"
	"github.com/prometheus/client_golang/prometheus"
)

// ─── DIGEST RUNNER INTERFACE ──────────────────────────────────────────────────

// DigestRunner is the narrow interface the scheduler, the admin endpoint and
// the CLI use to trigger a batch. *Runner is the concrete implementation.
type DigestRunner interface {
	// RunDigest sends every digest due at now. force skips the day-of-week /
	// day-of-month check but never the enabled/off check. The error is non-nil
	// only when the run never started (ctx ended while an earlier run held
	// the slot) or the bulk preference load fails; every other failure is in
	// the RunResult.
	RunDigest(ctx context.Context, now time.Time, force bool) (digest.RunResult, error)
}

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters for the Runner. Zero values fall back
// to DefaultRunnerConfig.
type RunnerConfig struct {
	// Workers is the number of subscriber units processed concurrently.
	// Default: 4.
	Workers int

	// LoadTimeout bounds the bulk preference load. Default: 15s.
	LoadTimeout time.Duration

	// RunTimeout bounds the whole batch. Units not started when it expires
	// are reported as cancelled. Default: 30 minutes.
	RunTimeout time.Duration
}

// DefaultRunnerConfig returns safe production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:     4,
		LoadTimeout: 15 * time.Second,
		RunTimeout:  30 * time.Minute,
	}
}

// Runner fans due subscribers out to a pool of goroutines. Runs are
// serialised: a manual trigger arriving during a scheduled run waits for it,
// and the wait counts against its RunTimeout and its caller's context.
type Runner struct {
	job     *Job
	q       db.Querier
	cfg     RunnerConfig
	metrics *Metrics
	logger  *slog.Logger

	// slot holds one token while a run is in progress.
	slot chan struct{}
}

var _ DigestRunner = (*Runner)(nil)

// NewRunner constructs a Runner.
func NewRunner(
	job *Job,
	q db.Querier,
	cfg RunnerConfig,
	metrics *Metrics,
	logger *slog.Logger,
) *Runner {
	def := DefaultRunnerConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = def.LoadTimeout
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = def.RunTimeout
	}
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}

	return &Runner{
		job:     job,
		q:       q,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		slot:    make(chan struct{}, 1),
	}
}

// unitResult carries one subscriber's Outcome back to the merge loop.
type unitResult struct {
	index int
	out   Outcome
}

// RunDigest implements DigestRunner.
func (r *Runner) RunDigest(ctx context.Context, now time.Time, force bool) (digest.RunResult, error) {
	start := time.Now()
	mode := "scheduled"
	if force {
		mode = "forced"
	}
	log := r.logger.With("run_at", now.UTC().Format(time.RFC3339), "mode", mode)

	ctx, cancel := context.WithTimeout(ctx, r.cfg.RunTimeout)
	defer cancel()

	// ── 0. Wait for the previous run ──────────────────────────────────────────
	select {
	case r.slot <- struct{}{}:
		defer func() { <-r.slot }()
	case <-ctx.Done():
		r.metrics.observeRun(mode, "failed", time.Since(start))
		log.Warn("worker: digest run not started", "error", context.Cause(ctx))
		return digest.RunResult{}, fmt.Errorf("worker: run not started: %w", context.Cause(ctx))
	}

	// ── 1. Bulk load ──────────────────────────────────────────────────────────
	loadCtx, cancelLoad := context.WithTimeout(ctx, r.cfg.LoadTimeout)
	rows, err := r.q.ListDigestRecipients(loadCtx)
	cancelLoad()
	if err != nil {
		r.metrics.observeRun(mode, "failed", time.Since(start))
		log.Error("worker: bulk preference load failed", "error", err)
		return digest.RunResult{}, fmt.Errorf("worker: load recipients: %w", err)
	}

	// ── 2. Select due subscribers ─────────────────────────────────────────────
	due := make([]digest.Recipient, 0, len(rows))
	for _, row := range rows {
		rcp := recipientFromRow(row)
		if !digest.Eligible(rcp.Preference) {
			continue
		}
		if !force && !digest.ShouldSendToday(rcp.Preference, now) {
			continue
		}
		due = append(due, rcp)
	}

	log.Info("worker: digest run starting", "loaded", len(rows), "due", len(due), "workers", r.cfg.Workers)

	// ── 3. Fan out ────────────────────────────────────────────────────────────
	outcomes, dispatched := r.fanOut(ctx, due, now)

	// ── 4. Merge in bulk-load order ───────────────────────────────────────────
	result := digest.RunResult{Errors: []string{}}
	for i, rcp := range due {
		if i >= dispatched {
			r.metrics.Failures.WithLabelValues("cancelled").Inc()
			result.Errors = append(result.Errors, fmt.Sprintf(
				"run cancelled before subscriber %s (%s): %v",
				rcp.Subscriber.Email, rcp.Subscriber.ID, context.Cause(ctx),
			))
			continue
		}
		result.SentCount += outcomes[i].Sent
		for _, e := range outcomes[i].Errors {
			result.Errors = append(result.Errors, e.Error())
		}
	}
	result.ErrorCount = len(result.Errors)

	elapsed := time.Since(start)
	r.metrics.observeRun(mode, "ok", elapsed)
	log.Info("worker: digest run finished",
		"sent", result.SentCount,
		"errors", result.ErrorCount,
		"duration", elapsed,
	)

	return result, nil
}

// fanOut runs one Job per recipient on at most cfg.Workers goroutines.
// Units are handed out in order, so the first dispatched of them are exactly
// the ones that ran; no new unit is handed out once ctx is done.
func (r *Runner) fanOut(ctx context.Context, due []digest.Recipient, now time.Time) ([]Outcome, int) {
	outcomes := make([]Outcome, len(due))
	if len(due) == 0 {
		return outcomes, 0
	}

	workers := min(r.cfg.Workers, len(due))
	queue := make(chan int)
	results := make(chan unitResult, len(due))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				results <- unitResult{index: i, out: r.job.Run(ctx, due[i], now)}
			}
		}()
	}

	dispatched := 0
feed:
	for i := range due {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case queue <- i:
			dispatched++
		}
	}
	close(queue)

	wg.Wait()
	close(results)

	for res := range results {
		outcomes[res.index] = res.out
	}
	return outcomes, dispatched
}
