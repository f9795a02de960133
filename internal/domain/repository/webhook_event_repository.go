package repository

import (
	"context"

	"github.com/vitafit/payment-service/internal/domain/model"
)

// WebhookEventRepository stores the audit trail of notification deliveries.
// All writes are best effort: callers log failures and carry on, the audit
// log must never decide a webhook response.
type WebhookEventRepository interface {
	// SaveEvent records a freshly received notification and returns its row id
	SaveEvent(ctx context.Context, eventType string, action, paymentID *string, payload model.JSONB) (int64, error)

	// MarkProcessed flags the event as fully reconciled
	MarkProcessed(ctx context.Context, id int64) error

	// MarkIgnored flags the event as an acknowledged non-payment kind
	MarkIgnored(ctx context.Context, id int64) error

	// MarkFailed flags the event and keeps the error text
	MarkFailed(ctx context.Context, id int64, cause error) error

	// GetRecent returns the latest events for the internal inspection endpoint
	GetRecent(ctx context.Context, limit int) ([]*model.WebhookEvent, error)
}
