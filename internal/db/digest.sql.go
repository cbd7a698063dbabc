package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const getPreferenceByID = `-- name: GetPreferenceByID :one
SELECT id, user_id, email_enabled, email_frequency, preferred_day, preferred_hour,
       last_email_sent_at, created_at, updated_at
FROM notification_preferences
WHERE id = $1
`

func (q *Queries) GetPreferenceByID(ctx context.Context, id uuid.UUID) (NotificationPreference, error) {
	row := q.queryRow(ctx, q.getPreferenceByIDStmt, getPreferenceByID, id)
	var i NotificationPreference
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.EmailEnabled,
		&i.EmailFrequency,
		&i.PreferredDay,
		&i.PreferredHour,
		&i.LastEmailSentAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listChildrenByUser = `-- name: ListChildrenByUser :many
SELECT id, user_id, name, is_born, due_date, date_of_birth, created_at
FROM children
WHERE user_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListChildrenByUser(ctx context.Context, userID uuid.UUID) ([]Child, error) {
	rows, err := q.query(ctx, q.listChildrenByUserStmt, listChildrenByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Child
	for rows.Next() {
		var i Child
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Name,
			&i.IsBorn,
			&i.DueDate,
			&i.DateOfBirth,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listDigestRecipients = `-- name: ListDigestRecipients :many
SELECT np.id, np.user_id, np.email_enabled, np.email_frequency, np.preferred_day,
       np.preferred_hour, np.last_email_sent_at, u.email, u.display_name
FROM notification_preferences np
JOIN users u ON u.id = np.user_id
WHERE np.email_enabled = true
  AND np.email_frequency <> 'off'
ORDER BY np.created_at, np.id
`

type ListDigestRecipientsRow struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	EmailEnabled    bool           `json:"email_enabled"`
	EmailFrequency  EmailFrequency `json:"email_frequency"`
	PreferredDay    int16          `json:"preferred_day"`
	PreferredHour   int16          `json:"preferred_hour"`
	LastEmailSentAt sql.NullTime   `json:"last_email_sent_at"`
	Email           string         `json:"email"`
	DisplayName     string         `json:"display_name"`
}

func (q *Queries) ListDigestRecipients(ctx context.Context) ([]ListDigestRecipientsRow, error) {
	rows, err := q.query(ctx, q.listDigestRecipientsStmt, listDigestRecipients)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListDigestRecipientsRow
	for rows.Next() {
		var i ListDigestRecipientsRow
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.EmailEnabled,
			&i.EmailFrequency,
			&i.PreferredDay,
			&i.PreferredHour,
			&i.LastEmailSentAt,
			&i.Email,
			&i.DisplayName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listPublishedResourcesSince = `-- name: ListPublishedResourcesSince :many
SELECT id, title, slug, summary, created_at
FROM resources
WHERE is_published = true
  AND created_at > $1
ORDER BY created_at DESC
LIMIT $2
`

type ListPublishedResourcesSinceParams struct {
	CreatedAt time.Time `json:"created_at"`
	Limit     int32     `json:"limit"`
}

type ListPublishedResourcesSinceRow struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) ListPublishedResourcesSince(ctx context.Context, arg ListPublishedResourcesSinceParams) ([]ListPublishedResourcesSinceRow, error) {
	rows, err := q.query(ctx, q.listPublishedResourcesSinceStmt, listPublishedResourcesSince, arg.CreatedAt, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListPublishedResourcesSinceRow
	for rows.Next() {
		var i ListPublishedResourcesSinceRow
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Slug,
			&i.Summary,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setPreferenceLastEmailSent = `-- name: SetPreferenceLastEmailSent :one
UPDATE notification_preferences
SET last_email_sent_at = $2,
    updated_at = now()
WHERE id = $1
RETURNING id, user_id, email_enabled, email_frequency, preferred_day, preferred_hour,
          last_email_sent_at, created_at, updated_at
`

type SetPreferenceLastEmailSentParams struct {
	ID              uuid.UUID    `json:"id"`
	LastEmailSentAt sql.NullTime `json:"last_email_sent_at"`
}

func (q *Queries) SetPreferenceLastEmailSent(ctx context.Context, arg SetPreferenceLastEmailSentParams) (NotificationPreference, error) {
	row := q.queryRow(ctx, q.setPreferenceLastEmailSentStmt, setPreferenceLastEmailSent, arg.ID, arg.LastEmailSentAt)
	var i NotificationPreference
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.EmailEnabled,
		&i.EmailFrequency,
		&i.PreferredDay,
		&i.PreferredHour,
		&i.LastEmailSentAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
