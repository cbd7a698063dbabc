// Package scheduler fires the digest batch once a day at a fixed UTC time.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/nyashahama/bump-digest/internal/worker"
)

// Scheduler triggers a non-forced digest run every day at hour:minute UTC.
type Scheduler struct {
	runner worker.DigestRunner
	hour   int
	minute int
	log    *slog.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// New creates a Scheduler for the given UTC time of day.
func New(runner worker.DigestRunner, hour, minute int, log *slog.Logger) *Scheduler {
	return &Scheduler{
		runner: runner,
		hour:   hour,
		minute: minute,
		log:    log,
		now:    time.Now,
		after:  time.After,
	}
}

// NextRun returns the first hour:minute UTC strictly after now.
func NextRun(now time.Time, hour, minute int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is cancelled, firing one run per day. A run that
// outlasts the next slot delays it; slots are never queued up. A slot fires
// at most once even if the wall clock steps backwards after it.
func (s *Scheduler) Run(ctx context.Context) {
	var last time.Time
	for {
		from := s.now()
		if from.Before(last) {
			from = last
		}
		next := NextRun(from, s.hour, s.minute)
		s.log.Info("scheduler: next digest run", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			s.log.Info("scheduler: stopped")
			return
		case <-s.after(next.Sub(s.now())):
			s.fire(ctx)
			last = next
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	res, err := s.runner.RunDigest(ctx, s.now().UTC(), false)
	if err != nil {
		s.log.Error("scheduler: digest run failed", "error", err)
		return
	}

	s.log.Info("scheduler: digest run complete",
		"sent", res.SentCount,
		"errors", res.ErrorCount,
	)
	for _, e := range res.Errors {
		s.log.Warn("scheduler: digest error", "error", e)
	}
}
