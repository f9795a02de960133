package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	domainErrors "github.com/vitafit/payment-service/internal/domain/errors"
	"github.com/vitafit/payment-service/internal/middleware/auth"
	"github.com/vitafit/payment-service/internal/usecase"
	"go.uber.org/zap"
)

// SubscriptionHandler serves the SPA's subscription status checks
type SubscriptionHandler struct {
	logger              *zap.Logger
	subscriptionUsecase *usecase.SubscriptionUsecase
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(logger *zap.Logger, subscriptionUsecase *usecase.SubscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{
		logger:              logger,
		subscriptionUsecase: subscriptionUsecase,
	}
}

// GetCurrentSubscription returns the authenticated user's subscription row
func (h *SubscriptionHandler) GetCurrentSubscription(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err // RequireAuth already wrote the JSON error response
	}

	h.logger.Info("Getting current subscription",
		zap.String("user_id", user.UserID))

	sub, err := h.subscriptionUsecase.GetCurrentSubscription(c.Request().Context(), user.UserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrSubscriptionNotFound) {
			return c.JSON(http.StatusOK, echo.Map{
				"subscription": nil,
				"has_active":   false,
			})
		}
		h.logger.Error("Failed to get current subscription",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to get subscription",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"subscription": sub,
		"has_active":   sub.Active,
	})
}
