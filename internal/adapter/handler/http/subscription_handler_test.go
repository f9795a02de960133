package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vitafit/payment-service/internal/domain/model"
	"github.com/vitafit/payment-service/internal/middleware/auth"
	"github.com/vitafit/payment-service/internal/usecase"
	"go.uber.org/zap"
)

// MockSubscriptionRepo is a mock implementation of repository.SubscriptionRepository
type MockSubscriptionRepo struct {
	mock.Mock
}

func (m *MockSubscriptionRepo) GetByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepo) Upsert(ctx context.Context, sub *model.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

const testUserID = "550e8400-e29b-41d4-a716-446655440000"

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": "test@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return "Bearer " + signed
}

func getCurrentSubscription(t *testing.T, repo *MockSubscriptionRepo, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	logger := zap.NewNop()
	handler := NewSubscriptionHandler(logger, usecase.NewSubscriptionUsecase(repo, logger))
	middleware := auth.JWTMiddleware(auth.JWTConfig{Secret: "test-secret", Logger: logger})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/current", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, middleware(handler.GetCurrentSubscription)(c))
	return rec
}

func TestGetCurrentSubscription_Active(t *testing.T) {
	repo := new(MockSubscriptionRepo)
	repo.On("GetByUserID", mock.Anything, testUserID).Return(&model.Subscription{
		UserID: testUserID,
		Email:  "test@example.com",
		Active: true,
		Plan:   model.PlanMensal,
	}, nil)

	rec := getCurrentSubscription(t, repo, bearerToken(t, testUserID))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"has_active":true`)
	assert.Contains(t, rec.Body.String(), model.PlanMensal)
}

func TestGetCurrentSubscription_NoRow(t *testing.T) {
	repo := new(MockSubscriptionRepo)
	repo.On("GetByUserID", mock.Anything, testUserID).Return(nil, nil)

	rec := getCurrentSubscription(t, repo, bearerToken(t, testUserID))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"has_active":false`)
}

func TestGetCurrentSubscription_Unauthenticated(t *testing.T) {
	repo := new(MockSubscriptionRepo)

	rec := getCurrentSubscription(t, repo, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}
