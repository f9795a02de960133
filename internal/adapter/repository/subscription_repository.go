package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitafit/payment-service/internal/domain/model"
	domainRepo "github.com/vitafit/payment-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type subscriptionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB, logger *zap.Logger) domainRepo.SubscriptionRepository {
	return &subscriptionRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUserID retrieves the subscription row for a user, nil if absent
func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	var sub model.Subscription

	err := r.db.WithContext(ctx).
		Where("id_usuario = ?", userID).
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get subscription by user ID",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return &sub, nil
}

// Upsert inserts or replaces the reconciliation fields for a user in a single
// statement. Two concurrent deliveries for the same user both land on the
// unique index on id_usuario instead of racing an existence check.
func (r *subscriptionRepository) Upsert(ctx context.Context, sub *model.Subscription) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id_usuario"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email",
				"assinatura_ativa",
				"plano",
				"data_inicio",
				"data_expiracao",
				"mercado_payment_id",
				"mercado_pago_status",
				"valor_pago",
				"atualizado_em",
			}),
		}).
		Create(sub).Error

	if err != nil {
		r.logger.Error("Failed to upsert subscription",
			zap.String("user_id", sub.UserID),
			zap.String("payment_id", sub.PaymentID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return nil
}
