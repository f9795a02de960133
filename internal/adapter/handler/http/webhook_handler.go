package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	domainErrors "github.com/vitafit/payment-service/internal/domain/errors"
	"github.com/vitafit/payment-service/internal/domain/model"
	"github.com/vitafit/payment-service/internal/domain/repository"
	"go.uber.org/zap"
)

// Reconciler is the slice of the reconciliation usecase the handler needs
type Reconciler interface {
	Reconcile(ctx context.Context, paymentID string) (*model.Subscription, error)
}

// WebhookHandler receives MercadoPago payment notifications and drives
// reconciliation. The notification body is only a trigger; payment state is
// always re-fetched from the processor inside the usecase.
type WebhookHandler struct {
	logger        *zap.Logger
	webhookSecret string
	reconciler    Reconciler
	eventRepo     repository.WebhookEventRepository
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(logger *zap.Logger, webhookSecret string, reconciler Reconciler, eventRepo repository.WebhookEventRepository) *WebhookHandler {
	return &WebhookHandler{
		logger:        logger,
		webhookSecret: webhookSecret,
		reconciler:    reconciler,
		eventRepo:     eventRepo,
	}
}

// flexibleID accepts the payment id as either a JSON string or a number,
// both of which MercadoPago sends depending on the notification flavor.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// webhookNotification is the trigger payload delivered by MercadoPago
type webhookNotification struct {
	Type   string     `json:"type"`
	Action string     `json:"action"`
	ID     flexibleID `json:"id"`
	Data   struct {
		ID flexibleID `json:"id"`
	} `json:"data"`
}

func (n *webhookNotification) isPaymentEvent() bool {
	return n.Type == "payment" ||
		n.Action == "payment.created" ||
		n.Action == "payment.updated"
}

// paymentReference returns the payment id, preferring the nested field
func (n *webhookNotification) paymentReference() string {
	if n.Data.ID != "" {
		return string(n.Data.ID)
	}
	return string(n.ID)
}

// GetWebhookData lists recent notification deliveries for debugging
func (h *WebhookHandler) GetWebhookData(c echo.Context) error {
	events, err := h.eventRepo.GetRecent(c.Request().Context(), 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list webhook events"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"events":      events,
		"event_count": len(events),
	})
}

// HandleWebhook processes a MercadoPago payment notification
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Webhook: Error reading request body",
			zap.String("step", "read_body"),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid JSON body"})
	}

	var notification webhookNotification
	if err := json.Unmarshal(body, &notification); err != nil {
		h.logger.Error("Webhook: Invalid JSON body",
			zap.String("step", "parse_body"),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid JSON body"})
	}

	signature := c.Request().Header.Get("x-signature")
	if signature != "" && h.webhookSecret != "" {
		if !verifySignature(body, signature, h.webhookSecret) {
			h.logger.Error("Webhook: Signature verification failed",
				zap.String("step", "verify_signature"),
				zap.String("signature", signature))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid webhook signature"})
		}
	} else {
		// Lenient mode: environments without a provisioned secret still
		// process notifications, but it must be visible in the logs.
		h.logger.Warn("Webhook: Proceeding without signature verification",
			zap.String("step", "verify_signature"),
			zap.Bool("signature_present", signature != ""),
			zap.Bool("secret_configured", h.webhookSecret != ""))
	}

	h.logger.Info("Webhook: Notification received",
		zap.String("type", notification.Type),
		zap.String("action", notification.Action),
		zap.String("step", "received"))

	eventID := h.auditReceived(ctx, body, &notification)

	if !notification.isPaymentEvent() {
		h.logger.Info("Webhook: Ignoring non-payment event",
			zap.String("type", notification.Type),
			zap.String("action", notification.Action),
			zap.String("step", "filter_event"))
		h.auditOutcome(ctx, eventID, model.WebhookStatusIgnored, nil)
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Evento ignorado"})
	}

	paymentID := notification.paymentReference()
	if paymentID == "" {
		// A 200 here would silently lose the payment forever; a 500 makes
		// the processor redeliver.
		h.logger.Error("Webhook: Payment notification carries no payment id",
			zap.String("type", notification.Type),
			zap.String("action", notification.Action),
			zap.String("step", "extract_reference"))
		h.auditOutcome(ctx, eventID, model.WebhookStatusFailed, domainErrors.ErrMissingPaymentReference)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Payment notification carries no payment id",
		})
	}

	if _, err := h.reconciler.Reconcile(ctx, paymentID); err != nil {
		h.logger.Error("Webhook: Reconciliation failed",
			zap.String("payment_id", paymentID),
			zap.String("step", "reconcile"),
			zap.Error(err))
		h.auditOutcome(ctx, eventID, model.WebhookStatusFailed, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	h.auditOutcome(ctx, eventID, model.WebhookStatusProcessed, nil)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Webhook processado com sucesso",
	})
}

// verifySignature checks the hex HMAC-SHA256 of the raw body in constant time
func verifySignature(body []byte, signature, secret string) bool {
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	return hmac.Equal(sig, mac.Sum(nil))
}

// auditReceived records the delivery. Audit storage is best effort and never
// decides the webhook response; 0 means the event could not be stored.
func (h *WebhookHandler) auditReceived(ctx context.Context, body []byte, n *webhookNotification) int64 {
	if h.eventRepo == nil {
		return 0
	}

	var payload model.JSONB
	if err := json.Unmarshal(body, &payload); err != nil {
		payload = model.JSONB{}
	}

	var action, paymentID *string
	if n.Action != "" {
		a := n.Action
		action = &a
	}
	if ref := n.paymentReference(); ref != "" {
		p := ref
		paymentID = &p
	}

	eventType := n.Type
	if eventType == "" {
		eventType = "unknown"
	}

	id, err := h.eventRepo.SaveEvent(ctx, eventType, action, paymentID, payload)
	if err != nil {
		h.logger.Warn("Webhook: Failed to store audit event",
			zap.String("event_type", eventType),
			zap.Error(err))
		return 0
	}
	return id
}

func (h *WebhookHandler) auditOutcome(ctx context.Context, eventID int64, status model.WebhookStatus, cause error) {
	if h.eventRepo == nil || eventID == 0 {
		return
	}

	var err error
	switch status {
	case model.WebhookStatusProcessed:
		err = h.eventRepo.MarkProcessed(ctx, eventID)
	case model.WebhookStatusIgnored:
		err = h.eventRepo.MarkIgnored(ctx, eventID)
	case model.WebhookStatusFailed:
		err = h.eventRepo.MarkFailed(ctx, eventID, cause)
	}
	if err != nil {
		h.logger.Warn("Webhook: Failed to update audit event",
			zap.Int64("event_id", eventID),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}
