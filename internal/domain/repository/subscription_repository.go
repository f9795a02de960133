package repository

import (
	"context"

	"github.com/vitafit/payment-service/internal/domain/model"
)

// SubscriptionRepository persists the per-user subscription row
type SubscriptionRepository interface {
	// GetByUserID retrieves the subscription row for a user, nil if absent
	GetByUserID(ctx context.Context, userID string) (*model.Subscription, error)

	// Upsert inserts the row or, when one exists for the same user, replaces
	// its reconciliation fields in a single atomic statement
	Upsert(ctx context.Context, sub *model.Subscription) error
}
