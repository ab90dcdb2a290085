package repository

import (
	"context"

	"webpush_demo/internal/model"
)

type SubscriptionRepository interface {
	UpsertSubscription(ctx context.Context, sub model.Subscription) (bool, error)
	RemoveSubscription(ctx context.Context, endpoint string) error
	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)
	CountSubscriptions(ctx context.Context) (int, error)
	PruneSubscriptions(ctx context.Context, subs []model.Subscription) (int, error)
}
