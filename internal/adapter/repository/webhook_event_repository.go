package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vitafit/payment-service/internal/domain/model"
	domainRepo "github.com/vitafit/payment-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type webhookEventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWebhookEventRepository creates a new webhook event repository
func NewWebhookEventRepository(db *gorm.DB, logger *zap.Logger) domainRepo.WebhookEventRepository {
	return &webhookEventRepository{
		db:     db,
		logger: logger,
	}
}

// SaveEvent records a freshly received notification and returns its row id
func (r *webhookEventRepository) SaveEvent(ctx context.Context, eventType string, action, paymentID *string, payload model.JSONB) (int64, error) {
	event := &model.WebhookEvent{
		EventType: eventType,
		Action:    action,
		PaymentID: paymentID,
		Status:    model.WebhookStatusReceived,
		Payload:   payload,
	}

	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		r.logger.Error("Failed to save webhook event",
			zap.String("event_type", eventType),
			zap.Error(err))
		return 0, fmt.Errorf("failed to save webhook event: %w", err)
	}

	return event.ID, nil
}

// MarkProcessed flags the event as fully reconciled
func (r *webhookEventRepository) MarkProcessed(ctx context.Context, id int64) error {
	return r.setStatus(ctx, id, model.WebhookStatusProcessed, nil)
}

// MarkIgnored flags the event as an acknowledged non-payment kind
func (r *webhookEventRepository) MarkIgnored(ctx context.Context, id int64) error {
	return r.setStatus(ctx, id, model.WebhookStatusIgnored, nil)
}

// MarkFailed flags the event and keeps the error text
func (r *webhookEventRepository) MarkFailed(ctx context.Context, id int64, cause error) error {
	msg := cause.Error()
	return r.setStatus(ctx, id, model.WebhookStatusFailed, &msg)
}

func (r *webhookEventRepository) setStatus(ctx context.Context, id int64, status model.WebhookStatus, lastError *string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       status,
		"processed_at": &now,
		"updated_at":   now,
	}
	if lastError != nil {
		updates["last_error"] = lastError
	}

	err := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("id = ?", id).
		Updates(updates).Error

	if err != nil {
		r.logger.Error("Failed to update webhook event status",
			zap.Int64("event_id", id),
			zap.String("status", string(status)),
			zap.Error(err))
		return fmt.Errorf("failed to update webhook event: %w", err)
	}

	return nil
}

// GetRecent returns the latest events for the internal inspection endpoint
func (r *webhookEventRepository) GetRecent(ctx context.Context, limit int) ([]*model.WebhookEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var events []*model.WebhookEvent
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error

	if err != nil {
		r.logger.Error("Failed to list webhook events", zap.Error(err))
		return nil, fmt.Errorf("failed to list webhook events: %w", err)
	}

	return events, nil
}
