// Package store wraps db.Querier and groups the write operations the digest
// pipeline performs against the preference table.
//
// Bulk and single-row reads (ListDigestRecipients, ListChildrenByUser, etc.)
// are called directly on db.Querier and are not proxied through this package.
//
// Dependency rule: store imports db only. It never imports api, worker,
// digest, or email.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/bump-digest/internal/db"
)

// ErrPreferenceNotFound is returned by MarkSent when no preference row has
// the given id (e.g. the account was deleted mid-run).
var ErrPreferenceNotFound = errors.New("store: notification preference not found")

// Store holds the db.Querier used for the pipeline's writes.
type Store struct {
	q db.Querier
}

// New creates a Store from a prepared Querier.
func New(q db.Querier) *Store {
	return &Store{q: q}
}

// MarkSent records that a digest went out for the preference row at sentAt.
//
// The write is a plain overwrite: calling it twice with the same instant
// leaves the row unchanged, and there is no transaction around the email
// that preceded it. If this call fails the email has already been delivered;
// the caller reports the failure and the subscriber may receive a duplicate
// on the next scheduled run.
func (s *Store) MarkSent(ctx context.Context, preferenceID uuid.UUID, sentAt time.Time) error {
	_, err := s.q.SetPreferenceLastEmailSent(ctx, db.SetPreferenceLastEmailSentParams{
		ID: preferenceID,
		LastEmailSentAt: sql.NullTime{
			Time:  sentAt.UTC(),
			Valid: true,
		},
	})
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPreferenceNotFound
	}
	if err != nil {
		return fmt.Errorf("MarkSent: %w", err)
	}
	return nil
}
