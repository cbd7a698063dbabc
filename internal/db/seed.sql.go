package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const createChild = `-- name: CreateChild :one
INSERT INTO children (user_id, name, is_born, due_date, date_of_birth)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, name, is_born, due_date, date_of_birth, created_at
`

type CreateChildParams struct {
	UserID      uuid.UUID    `json:"user_id"`
	Name        string       `json:"name"`
	IsBorn      bool         `json:"is_born"`
	DueDate     sql.NullTime `json:"due_date"`
	DateOfBirth sql.NullTime `json:"date_of_birth"`
}

func (q *Queries) CreateChild(ctx context.Context, arg CreateChildParams) (Child, error) {
	row := q.queryRow(ctx, q.createChildStmt, createChild,
		arg.UserID,
		arg.Name,
		arg.IsBorn,
		arg.DueDate,
		arg.DateOfBirth,
	)
	var i Child
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.IsBorn,
		&i.DueDate,
		&i.DateOfBirth,
		&i.CreatedAt,
	)
	return i, err
}

const createPreference = `-- name: CreatePreference :one
INSERT INTO notification_preferences (user_id, email_enabled, email_frequency, preferred_day, preferred_hour)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, email_enabled, email_frequency, preferred_day, preferred_hour,
          last_email_sent_at, created_at, updated_at
`

type CreatePreferenceParams struct {
	UserID         uuid.UUID      `json:"user_id"`
	EmailEnabled   bool           `json:"email_enabled"`
	EmailFrequency EmailFrequency `json:"email_frequency"`
	PreferredDay   int16          `json:"preferred_day"`
	PreferredHour  int16          `json:"preferred_hour"`
}

func (q *Queries) CreatePreference(ctx context.Context, arg CreatePreferenceParams) (NotificationPreference, error) {
	row := q.queryRow(ctx, q.createPreferenceStmt, createPreference,
		arg.UserID,
		arg.EmailEnabled,
		arg.EmailFrequency,
		arg.PreferredDay,
		arg.PreferredHour,
	)
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

const createResource = `-- name: CreateResource :one
INSERT INTO resources (title, slug, summary, is_published, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, title, slug, summary, is_published, created_at
`

type CreateResourceParams struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func (q *Queries) CreateResource(ctx context.Context, arg CreateResourceParams) (Resource, error) {
	row := q.queryRow(ctx, q.createResourceStmt, createResource,
		arg.Title,
		arg.Slug,
		arg.Summary,
		arg.IsPublished,
		arg.CreatedAt,
	)
	var i Resource
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Summary,
		&i.IsPublished,
		&i.CreatedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (email, display_name)
VALUES ($1, $2)
RETURNING id, email, display_name, created_at
`

type CreateUserParams struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.queryRow(ctx, q.createUserStmt, createUser, arg.Email, arg.DisplayName)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.DisplayName,
		&i.CreatedAt,
	)
	return i, err
}
