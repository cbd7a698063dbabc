package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/nyashahama/bump-digest/internal/db"
	"github.com/nyashahama/bump-digest/internal/digest"
	"github.com/nyashahama/bump-digest/internal/email"
	"github.com/nyashahama/bump-digest/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

// JobConfig tunes a Job. Zero values fall back to DefaultJobConfig.
type JobConfig struct {
	// CallTimeout bounds every external call (db read, email send, db write).
	// Default: 15s.
	CallTimeout time.Duration

	// Aggregator tunes the payload builder (resource window, limit, links).
	Aggregator digest.AggregatorConfig
}

// DefaultJobConfig returns safe production defaults.
func DefaultJobConfig() JobConfig {
	return JobConfig{
		CallTimeout: 15 * time.Second,
		Aggregator:  digest.DefaultAggregatorConfig(),
	}
}

// Outcome is what one subscriber unit produced. Errors are in child order.
type Outcome struct {
	Sent    int
	Skipped int
	Errors  []error
}

// Job holds the dependencies for the per-subscriber digest pipeline.
type Job struct {
	q       db.Querier
	store   *store.Store
	agg     *digest.Aggregator
	mailer  email.Sender
	cfg     JobConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewJob constructs a Job with all required dependencies. A nil metrics
// registers on a private registry.
func NewJob(
	q db.Querier,
	st *store.Store,
	facts digest.FactSource,
	mailer email.Sender,
	cfg JobConfig,
	metrics *Metrics,
	logger *slog.Logger,
) *Job {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultJobConfig().CallTimeout
	}
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}

	return &Job{
		q:       q,
		store:   st,
		agg:     digest.NewAggregator(facts, querierResources{q: q}, cfg.Aggregator),
		mailer:  mailer,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

// Run executes the digest for one subscriber:
//
//  1. Load the subscriber's children.
//  2. For each child, in order: build the payload, render it, send it, and
//     advance the preference's last_email_sent_at to now.
//
// Failures never stop the loop. A failed child list is a single
// subscriber-level error; every later failure is scoped to its child.
func (j *Job) Run(ctx context.Context, rcp digest.Recipient, now time.Time) Outcome {
	sub, pref := rcp.Subscriber, rcp.Preference
	log := j.logger.With("subscriber_id", sub.ID, "preference_id", pref.ID)

	var out Outcome

	// ── 1. Load children ──────────────────────────────────────────────────────
	rows, err := j.listChildren(ctx, sub)
	if err != nil {
		j.fail(&out, log, err)
		return out
	}

	log.Debug("worker: loaded children", "count", len(rows))

	// ── 2. One digest per child ───────────────────────────────────────────────
	for _, row := range rows {
		j.runChild(ctx, &out, log, sub, pref, childFromRow(row), now)
	}

	return out
}

func (j *Job) runChild(
	ctx context.Context,
	out *Outcome,
	log *slog.Logger,
	sub digest.Subscriber,
	pref digest.Preference,
	child digest.Child,
	now time.Time,
) {
	log = log.With("child_id", child.ID)
	unit := digest.Unit{SubscriberID: sub.ID, Email: sub.Email, ChildID: child.ID}

	// ── a. Aggregate ──────────────────────────────────────────────────────────
	callCtx, cancel := context.WithTimeout(ctx, j.cfg.CallTimeout)
	payload, ok, err := j.agg.BuildPayload(callCtx, sub, child, pref, now)
	cancel()
	if err != nil {
		j.fail(out, log, err)
		return
	}
	if !ok {
		out.Skipped++
		j.metrics.Skipped.Inc()
		log.Debug("worker: nothing to send for child", "is_born", child.IsBorn)
		return
	}

	// ── b. Render ─────────────────────────────────────────────────────────────
	msg, err := digest.Render(payload)
	if err != nil {
		j.fail(out, log, &digest.DispatchError{Unit: unit, Err: err})
		return
	}

	// ── c. Send ───────────────────────────────────────────────────────────────
	callCtx, cancel = context.WithTimeout(ctx, j.cfg.CallTimeout)
	err = j.mailer.Send(callCtx, email.Message{
		To:      sub.Email,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	cancel()
	if err != nil {
		j.fail(out, log, &digest.DispatchError{Unit: unit, Err: err})
		return
	}

	out.Sent++
	j.metrics.Sent.Inc()
	log.Info("worker: digest sent", "week", payload.Progress.Week)

	// ── d. Record the send ────────────────────────────────────────────────────
	// The email is already out; a failure here is reported, not rolled back.
	callCtx, cancel = context.WithTimeout(ctx, j.cfg.CallTimeout)
	err = j.store.MarkSent(callCtx, pref.ID, now)
	cancel()
	if err != nil {
		j.fail(out, log, &digest.PersistError{Unit: unit, PreferenceID: pref.ID, Err: err})
	}
}

func (j *Job) listChildren(ctx context.Context, sub digest.Subscriber) ([]db.Child, error) {
	callCtx, cancel := context.WithTimeout(ctx, j.cfg.CallTimeout)
	defer cancel()

	rows, err := j.q.ListChildrenByUser(callCtx, sub.ID)
	if err != nil {
		return nil, &digest.LookupError{
			Unit: digest.Unit{SubscriberID: sub.ID, Email: sub.Email},
			Op:   "list children",
			Err:  err,
		}
	}
	return rows, nil
}

func (j *Job) fail(out *Outcome, log *slog.Logger, err error) {
	kind := digest.Kind(err)
	out.Errors = append(out.Errors, err)
	j.metrics.Failures.WithLabelValues(kind).Inc()
	log.Warn("worker: digest unit failed", "kind", kind, "error", err)
}
