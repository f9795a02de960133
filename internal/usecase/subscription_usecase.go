package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/vitafit/payment-service/internal/domain/errors"
	"github.com/vitafit/payment-service/internal/domain/model"
	"github.com/vitafit/payment-service/internal/domain/repository"
	"go.uber.org/zap"
)

type SubscriptionUsecase struct {
	subscriptionRepo repository.SubscriptionRepository
	logger           *zap.Logger
}

func NewSubscriptionUsecase(subscriptionRepo repository.SubscriptionRepository, logger *zap.Logger) *SubscriptionUsecase {
	return &SubscriptionUsecase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (u *SubscriptionUsecase) GetCurrentSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	subscription, err := u.subscriptionRepo.GetByUserID(ctx, userID)
	if err != nil {
		u.logger.Error("Failed to get subscription", zap.Error(err))
		return nil, err
	}
	if subscription == nil {
		return nil, domainErrors.ErrSubscriptionNotFound
	}

	return subscription, nil
}
