// Package db holds the models and queries for the digest schema. The files
// follow sqlc's generated layout so sqlc.yaml can take them over unchanged.
package db

import (
	"context"
	"database/sql"
	"fmt"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func Prepare(ctx context.Context, db DBTX) (*Queries, error) {
	q := Queries{db: db}
	var err error
	if q.createChildStmt, err = db.PrepareContext(ctx, createChild); err != nil {
		return nil, fmt.Errorf("error preparing query CreateChild: %w", err)
	}
	if q.createPreferenceStmt, err = db.PrepareContext(ctx, createPreference); err != nil {
		return nil, fmt.Errorf("error preparing query CreatePreference: %w", err)
	}
	if q.createResourceStmt, err = db.PrepareContext(ctx, createResource); err != nil {
		return nil, fmt.Errorf("error preparing query CreateResource: %w", err)
	}
	if q.createUserStmt, err = db.PrepareContext(ctx, createUser); err != nil {
		return nil, fmt.Errorf("error preparing query CreateUser: %w", err)
	}
	if q.getPreferenceByIDStmt, err = db.PrepareContext(ctx, getPreferenceByID); err != nil {
		return nil, fmt.Errorf("error preparing query GetPreferenceByID: %w", err)
	}
	if q.listChildrenByUserStmt, err = db.PrepareContext(ctx, listChildrenByUser); err != nil {
		return nil, fmt.Errorf("error preparing query ListChildrenByUser: %w", err)
	}
	if q.listDigestRecipientsStmt, err = db.PrepareContext(ctx, listDigestRecipients); err != nil {
		return nil, fmt.Errorf("error preparing query ListDigestRecipients: %w", err)
	}
	if q.listPublishedResourcesSinceStmt, err = db.PrepareContext(ctx, listPublishedResourcesSince); err != nil {
		return nil, fmt.Errorf("error preparing query ListPublishedResourcesSince: %w", err)
	}
	if q.setPreferenceLastEmailSentStmt, err = db.PrepareContext(ctx, setPreferenceLastEmailSent); err != nil {
		return nil, fmt.Errorf("error preparing query SetPreferenceLastEmailSent: %w", err)
	}
	return &q, nil
}

func (q *Queries) Close() error {
	var err error
	if q.createChildStmt != nil {
		if cerr := q.createChildStmt.Close(); cerr != nil {
			err = fmt.Errorf("error closing createChildStmt: %w", cerr)
		}
	}
	if q.createPreferenceStmt != nil {
		if cerr := q.createPreferenceStmt.Close(); cerr != nil {
			err = fmt.Errorf("error closing createPreferenceStmt: %w", cerr)
		}
	}
	if q.createResourceStmt != nil {
		if cerr := q.createResourceStmt.Close(); cerr != nil {
			err = fmt.Errorf("error closing createResourceStmt: %w", cerr)
		}
	}
	if q.createUserStmt != nil {
		if cerr := q.createUserStmt.Close(); cerr != nil {
			err = fmt.Errorf("error closing createUserStmt: %w", cerr)
		}
	}
	if q.getPreferenceByIDStmt != nil {
		if cerr := q.getPreferenceByIDStmt.Close(); cerr != nil {
			err = fmt.Errorf("error closing getPreferenceByIDStmt: %w", cerr)
		}
	}
	if q.listChildrenByUserStmt != nil {
		if cerr := q.listChildrenByUserStmt.Close(); cerr != nil {
			err = fmt.Errorf("error closing listChildrenByUserStmt: %w", cerr)
		}
	}
	if q.listDigestRecipientsStmt != nil {
		if cerr := q.listDigestRecipientsStmt.Close(); cerr != nil {
			err = fmt.Errorf("error closing listDigestRecipientsStmt: %w", cerr)
		}
	}
	if q.listPublishedResourcesSinceStmt != nil {
		if cerr := q.listPublishedResourcesSinceStmt.Close(); cerr != nil {
			err = fmt.Errorf("error closing listPublishedResourcesSinceStmt: %w", cerr)
		}
	}
	if q.setPreferenceLastEmailSentStmt != nil {
		if cerr := q.setPreferenceLastEmailSentStmt.Close(); cerr != nil {
			err = fmt.Errorf("error closing setPreferenceLastEmailSentStmt: %w", cerr)
		}
	}
	return err
}

func (q *Queries) exec(ctx context.Context, stmt *sql.Stmt, query string, args ...interface{}) (sql.Result, error) {
	switch {
	case stmt != nil && q.tx != nil:
		return q.tx.StmtContext(ctx, stmt).ExecContext(ctx, args...)
	case stmt != nil:
		return stmt.ExecContext(ctx, args...)
	default:
		return q.db.ExecContext(ctx, query, args...)
	}
}

func (q *Queries) query(ctx context.Context, stmt *sql.Stmt, query string, args ...interface{}) (*sql.Rows, error) {
	switch {
	case stmt != nil && q.tx != nil:
		return q.tx.StmtContext(ctx, stmt).QueryContext(ctx, args...)
	case stmt != nil:
		return stmt.QueryContext(ctx, args...)
	default:
		return q.db.QueryContext(ctx, query, args...)
	}
}

func (q *Queries) queryRow(ctx context.Context, stmt *sql.Stmt, query string, args ...interface{}) *sql.Row {
	switch {
	case stmt != nil && q.tx != nil:
		return q.tx.StmtContext(ctx, stmt).QueryRowContext(ctx, args...)
	case stmt != nil:
		return stmt.QueryRowContext(ctx, args...)
	default:
		return q.db.QueryRowContext(ctx, query, args...)
	}
}

type Queries struct {
	db                              DBTX
	tx                              *sql.Tx
	createChildStmt                 *sql.Stmt
	createPreferenceStmt            *sql.Stmt
	createResourceStmt              *sql.Stmt
	createUserStmt                  *sql.Stmt
	getPreferenceByIDStmt           *sql.Stmt
	listChildrenByUserStmt          *sql.Stmt
	listDigestRecipientsStmt        *sql.Stmt
	listPublishedResourcesSinceStmt *sql.Stmt
	setPreferenceLastEmailSentStmt  *sql.Stmt
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{
		db:                              tx,
		tx:                              tx,
		createChildStmt:                 q.createChildStmt,
		createPreferenceStmt:            q.createPreferenceStmt,
		createResourceStmt:              q.createResourceStmt,
		createUserStmt:                  q.createUserStmt,
		getPreferenceByIDStmt:           q.getPreferenceByIDStmt,
		listChildrenByUserStmt:          q.listChildrenByUserStmt,
		listDigestRecipientsStmt:        q.listDigestRecipientsStmt,
		listPublishedResourcesSinceStmt: q.listPublishedResourcesSinceStmt,
		setPreferenceLastEmailSentStmt:  q.setPreferenceLastEmailSentStmt,
	}
}
