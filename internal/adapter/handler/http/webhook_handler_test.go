package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/vitafit/payment-service/internal/domain/errors"
	"github.com/vitafit/payment-service/internal/domain/model"
	"go.uber.org/zap"
)

// MockReconciler is a mock implementation of Reconciler
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context, paymentID string) (*model.Subscription, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

// MockWebhookEventRepository is a mock implementation of repository.WebhookEventRepository
type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) SaveEvent(ctx context.Context, eventType string, action, paymentID *string, payload model.JSONB) (int64, error) {
	args := m.Called(ctx, eventType, action, paymentID, payload)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWebhookEventRepository) MarkProcessed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) MarkIgnored(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) MarkFailed(ctx context.Context, id int64, cause error) error {
	args := m.Called(ctx, id, cause)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) GetRecent(ctx context.Context, limit int) ([]*model.WebhookEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.WebhookEvent), args.Error(1)
}

func signBody(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, handler *WebhookHandler, body, signature string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("x-signature", signature)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.HandleWebhook(c))
	return rec
}

func TestHandleWebhook_InvalidJSON(t *testing.T) {
	reconciler := new(MockReconciler)
	handler := NewWebhookHandler(zap.NewNop(), "", reconciler, nil)

	rec := postWebhook(t, handler, `{not json`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON body")
	reconciler.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestHandleWebhook_TamperedSignature(t *testing.T) {
	reconciler := new(MockReconciler)
	eventRepo := new(MockWebhookEventRepository)
	handler := NewWebhookHandler(zap.NewNop(), "test-secret", reconciler, eventRepo)

	signature := signBody("test-secret", `{"type":"payment","data":{"id":"123"}}`)
	tamperedBody := `{"type":"payment","data":{"id":"456"}}`

	rec := postWebhook(t, handler, tamperedBody, signature)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid webhook signature")

	// Rejected before touching any store
	reconciler.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
	eventRepo.AssertNotCalled(t, "SaveEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_ValidSignature(t *testing.T) {
	reconciler := new(MockReconciler)
	handler := NewWebhookHandler(zap.NewNop(), "test-secret", reconciler, nil)

	body := `{"type":"payment","data":{"id":"123"}}`
	reconciler.On("Reconcile", mock.Anything, "123").Return(&model.Subscription{UserID: "user-42"}, nil)

	rec := postWebhook(t, handler, body, signBody("test-secret", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Webhook processado com sucesso")
	reconciler.AssertExpectations(t)
}

func TestHandleWebhook_LenientModeWithoutSecret(t *testing.T) {
	reconciler := new(MockReconciler)
	handler := NewWebhookHandler(zap.NewNop(), "", reconciler, nil)

	reconciler.On("Reconcile", mock.Anything, "123").Return(&model.Subscription{}, nil)

	rec := postWebhook(t, handler, `{"type":"payment","data":{"id":"123"}}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	reconciler.AssertExpectations(t)
}

func TestHandleWebhook_NonPaymentEventIgnored(t *testing.T) {
	reconciler := new(MockReconciler)
	handler := NewWebhookHandler(zap.NewNop(), "", reconciler, nil)

	rec := postWebhook(t, handler, `{"type":"plan","action":"plan.updated","data":{"id":"9"}}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Evento ignorado")
	reconciler.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestHandleWebhook_PaymentActionVariants(t *testing.T) {
	for _, action := range []string{"payment.created", "payment.updated"} {
		t.Run(action, func(t *testing.T) {
			reconciler := new(MockReconciler)
			handler := NewWebhookHandler(zap.NewNop(), "", reconciler, nil)

			reconciler.On("Reconcile", mock.Anything, "123").Return(&model.Subscription{}, nil)

			rec := postWebhook(t, handler, `{"action":"`+action+`","data":{"id":"123"}}`, "")

			assert.Equal(t, http.StatusOK, rec.Code)
			reconciler.AssertExpectations(t)
		})
	}
}

func TestHandleWebhook_TopLevelIDFallback(t *testing.T) {
	reconciler := new(MockReconciler)
	handler := NewWebhookHandler(zap.NewNop(), "", reconciler, nil)

	reconciler.On("Reconcile", mock.Anything, "777").Return(&model.Subscription{}, nil)

	rec := postWebhook(t, handler, `{"type":"payment","id":777}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	reconciler.AssertExpectations(t)
}

func TestHandleWebhook_MissingPaymentReference(t *testing.T) {
	reconciler := new(MockReconciler)
	handler := NewWebhookHandler(zap.NewNop(), "", reconciler, nil)

	rec := postWebhook(t, handler, `{"type":"payment"}`, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	reconciler.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestHandleWebhook_ReconcileFailure(t *testing.T) {
	reconciler := new(MockReconciler)
	handler := NewWebhookHandler(zap.NewNop(), "", reconciler, nil)

	reconciler.On("Reconcile", mock.Anything, "123").
		Return(nil, domainErrors.NewIdentityNotResolvedError("", "a@b.com"))

	rec := postWebhook(t, handler, `{"type":"payment","data":{"id":"123"}}`, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@b.com")
}

func TestHandleWebhook_AuditFailureDoesNotChangeResponse(t *testing.T) {
	reconciler := new(MockReconciler)
	eventRepo := new(MockWebhookEventRepository)
	handler := NewWebhookHandler(zap.NewNop(), "", reconciler, eventRepo)

	eventRepo.On("SaveEvent", mock.Anything, "payment", mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), errors.New("audit store down"))
	reconciler.On("Reconcile", mock.Anything, "123").Return(&model.Subscription{}, nil)

	rec := postWebhook(t, handler, `{"type":"payment","data":{"id":"123"}}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Webhook processado com sucesso")
}

func TestHandleWebhook_AuditLifecycle(t *testing.T) {
	reconciler := new(MockReconciler)
	eventRepo := new(MockWebhookEventRepository)
	handler := NewWebhookHandler(zap.NewNop(), "", reconciler, eventRepo)

	eventRepo.On("SaveEvent", mock.Anything, "payment", mock.Anything, mock.Anything, mock.Anything).
		Return(int64(7), nil)
	eventRepo.On("MarkProcessed", mock.Anything, int64(7)).Return(nil)
	reconciler.On("Reconcile", mock.Anything, "123").Return(&model.Subscription{}, nil)

	postWebhook(t, handler, `{"type":"payment","data":{"id":"123"}}`, "")

	eventRepo.AssertExpectations(t)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"payment"}`)
	secret := "test-secret"

	valid := signBody(secret, string(body))

	assert.True(t, verifySignature(body, valid, secret))
	assert.False(t, verifySignature(body, valid, "other-secret"))
	assert.False(t, verifySignature([]byte(`{"type":"payment" }`), valid, secret))
	assert.False(t, verifySignature(body, "not-hex!", secret))
}
