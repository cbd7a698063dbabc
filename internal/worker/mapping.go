package worker

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nyashahama/bump-digest/internal/db"
	"github.com/nyashahama/bump-digest/internal/digest"
)

// ─── ROW MAPPING ──────────────────────────────────────────────────────────────
// db rows → digest types, keeping digest/ free of the db package.

func recipientFromRow(r db.ListDigestRecipientsRow) digest.Recipient {
	return digest.Recipient{
		Subscriber: digest.Subscriber{
			ID:          r.UserID,
			Email:       r.Email,
			DisplayName: r.DisplayName,
		},
		Preference: digest.Preference{
			ID:              r.ID,
			SubscriberID:    r.UserID,
			EmailEnabled:    r.EmailEnabled,
			Frequency:       digest.Frequency(r.EmailFrequency),
			PreferredDay:    int(r.PreferredDay),
			PreferredHour:   int(r.PreferredHour),
			LastEmailSentAt: timePtr(r.LastEmailSentAt),
		},
	}
}

func childFromRow(c db.Child) digest.Child {
	return digest.Child{
		ID:          c.ID,
		Name:        c.Name,
		IsBorn:      c.IsBorn,
		DueDate:     timePtr(c.DueDate),
		DateOfBirth: timePtr(c.DateOfBirth),
	}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// ─── RESOURCE SOURCE ──────────────────────────────────────────────────────────

// querierResources adapts db.Querier to digest.ResourceSource.
type querierResources struct {
	q db.Querier
}

func (r querierResources) RecentResources(ctx context.Context, since time.Time, limit int) ([]digest.ResourceSummary, error) {
	rows, err := r.q.ListPublishedResourcesSince(ctx, db.ListPublishedResourcesSinceParams{
		CreatedAt: since.UTC(),
		Limit:     int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list published resources: %w", err)
	}

	out := make([]digest.ResourceSummary, len(rows))
	for i, row := range rows {
		out[i] = digest.ResourceSummary{
			Title:   row.Title,
			Slug:    row.Slug,
			Summary: row.Summary,
		}
	}
	return out, nil
}
