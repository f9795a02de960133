package usecase

import (
	"context"
	"time"

	"github.com/vitafit/payment-service/internal/domain/entity"
	domainErrors "github.com/vitafit/payment-service/internal/domain/errors"
	"github.com/vitafit/payment-service/internal/domain/model"
	"github.com/vitafit/payment-service/internal/domain/provider"
	"github.com/vitafit/payment-service/internal/domain/repository"
	"github.com/vitafit/payment-service/internal/notification"
	"go.uber.org/zap"
)

// ReconcileUsecase brings the local subscription row in line with the
// processor's authoritative payment status. Everything up to the upsert is
// fail-fast; the confirmation email afterwards is best effort.
type ReconcileUsecase struct {
	provider         provider.PaymentProvider
	subscriptionRepo repository.SubscriptionRepository
	identityRepo     repository.IdentityRepository
	sender           notification.Sender
	logger           *zap.Logger
}

// NewReconcileUsecase creates a new ReconcileUsecase
func NewReconcileUsecase(
	paymentProvider provider.PaymentProvider,
	subscriptionRepo repository.SubscriptionRepository,
	identityRepo repository.IdentityRepository,
	sender notification.Sender,
	logger *zap.Logger,
) *ReconcileUsecase {
	return &ReconcileUsecase{
		provider:         paymentProvider,
		subscriptionRepo: subscriptionRepo,
		identityRepo:     identityRepo,
		sender:           sender,
		logger:           logger,
	}
}

// Reconcile fetches the payment, resolves the payer to a platform user and
// upserts the subscription row. Returns the persisted row.
func (u *ReconcileUsecase) Reconcile(ctx context.Context, paymentID string) (*model.Subscription, error) {
	payment, err := u.provider.GetPayment(ctx, paymentID)
	if err != nil {
		u.logger.Error("Reconcile: Payment lookup failed",
			zap.String("payment_id", paymentID),
			zap.String("step", "fetch_payment"),
			zap.Error(err))
		return nil, err
	}

	active := payment.Approved()
	var startDate, expirationDate *time.Time
	if active {
		now := time.Now().UTC()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		expiration := start.AddDate(0, 1, 0)
		startDate = &start
		expirationDate = &expiration
	}

	userID, err := u.resolveUserID(ctx, payment)
	if err != nil {
		u.logger.Error("Reconcile: Could not resolve payer to a user",
			zap.String("payment_id", paymentID),
			zap.String("external_reference", payment.ExternalReference),
			zap.String("payer_email", payment.PayerEmail),
			zap.String("step", "resolve_user"),
			zap.Error(err))
		return nil, err
	}

	sub := &model.Subscription{
		UserID:         userID,
		Email:          payment.PayerEmail,
		Active:         active,
		Plan:           model.PlanMensal,
		StartDate:      startDate,
		ExpirationDate: expirationDate,
		PaymentID:      payment.ID,
		PaymentStatus:  payment.Status,
		AmountPaid:     payment.TransactionAmount,
		UpdatedAt:      time.Now(),
	}

	if err := u.subscriptionRepo.Upsert(ctx, sub); err != nil {
		u.logger.Error("Reconcile: Subscription upsert failed",
			zap.String("payment_id", paymentID),
			zap.String("user_id", userID),
			zap.String("step", "upsert_subscription"),
			zap.Error(err))
		return nil, err
	}

	u.logger.Info("Reconcile: Subscription reconciled",
		zap.String("payment_id", paymentID),
		zap.String("user_id", userID),
		zap.String("payment_status", payment.Status),
		zap.Bool("active", active),
		zap.String("step", "upsert_subscription"),
		zap.String("result", "success"))

	if active {
		u.sendConfirmation(ctx, userID, payment, sub)
	}

	return sub, nil
}

// resolveUserID applies the identity chain: external reference verbatim,
// then profiles by payer email, then user_subscriptions by payer email.
// First match wins, no merging.
func (u *ReconcileUsecase) resolveUserID(ctx context.Context, payment *entity.Payment) (string, error) {
	if payment.ExternalReference != "" {
		return payment.ExternalReference, nil
	}

	if payment.PayerEmail != "" {
		userID, err := u.identityRepo.FindUserIDByEmail(ctx, payment.PayerEmail)
		if err != nil {
			return "", err
		}
		if userID != "" {
			return userID, nil
		}

		userID, err = u.identityRepo.FindUserIDBySubscriptionEmail(ctx, payment.PayerEmail)
		if err != nil {
			return "", err
		}
		if userID != "" {
			return userID, nil
		}
	}

	return "", domainErrors.NewIdentityNotResolvedError(payment.ExternalReference, payment.PayerEmail)
}

// sendConfirmation dispatches the confirmation email. The subscription row is
// already committed, so nothing here may fail the reconciliation.
func (u *ReconcileUsecase) sendConfirmation(ctx context.Context, userID string, payment *entity.Payment, sub *model.Subscription) {
	name, err := u.identityRepo.GetDisplayName(ctx, userID)
	if err != nil {
		u.logger.Warn("Reconcile: Display name lookup failed, using fallback",
			zap.String("user_id", userID),
			zap.String("step", "send_confirmation"),
			zap.Error(err))
		name = ""
	}
	if name == "" {
		name = notification.DefaultDisplayName
	}

	confirmation := &notification.PaymentConfirmation{
		Email:      payment.PayerEmail,
		Name:       name,
		Plan:       sub.Plan,
		AmountPaid: payment.TransactionAmount,
		ExpiresAt:  *sub.ExpirationDate,
	}

	if err := u.sender.SendPaymentConfirmation(ctx, confirmation); err != nil {
		u.logger.Warn("Reconcile: Confirmation dispatch failed, subscription already committed",
			zap.String("user_id", userID),
			zap.String("email", payment.PayerEmail),
			zap.String("step", "send_confirmation"),
			zap.Error(err))
	}
}
