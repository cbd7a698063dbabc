package db

import (
	"context"

	"github.com/google/uuid"
)

type Querier interface {
	CreateChild(ctx context.Context, arg CreateChildParams) (Child, error)
	CreatePreference(ctx context.Context, arg CreatePreferenceParams) (NotificationPreference, error)
	CreateResource(ctx context.Context, arg CreateResourceParams) (Resource, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetPreferenceByID(ctx context.Context, id uuid.UUID) (NotificationPreference, error)
	ListChildrenByUser(ctx context.Context, userID uuid.UUID) ([]Child, error)
	ListDigestRecipients(ctx context.Context) ([]ListDigestRecipientsRow, error)
	ListPublishedResourcesSince(ctx context.Context, arg ListPublishedResourcesSinceParams) ([]ListPublishedResourcesSinceRow, error)
	SetPreferenceLastEmailSent(ctx context.Context, arg SetPreferenceLastEmailSentParams) (NotificationPreference, error)
}

var _ Querier = (*Queries)(nil)
