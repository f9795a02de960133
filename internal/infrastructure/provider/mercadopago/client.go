package mercadopago

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitafit/payment-service/internal/domain/entity"
	domainErrors "github.com/vitafit/payment-service/internal/domain/errors"
	"github.com/vitafit/payment-service/internal/domain/provider"
	"go.uber.org/zap"
)

const defaultAPIBaseURL = "https://api.mercadopago.com"

// Client talks to the MercadoPago REST API with a merchant access token.
type Client struct {
	client      *http.Client
	baseURL     string
	accessToken string
	logger      *zap.Logger
}

// NewClient creates a new MercadoPago client. baseURL is overridable for tests;
// pass "" for the production endpoint.
func NewClient(baseURL, accessToken string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     baseURL,
		accessToken: accessToken,
		logger:      logger,
	}
}

// GetProviderName returns the provider name
func (c *Client) GetProviderName() string {
	return "mercadopago"
}

// paymentResponse mirrors the fields of GET /v1/payments/{id} this service consumes
type paymentResponse struct {
	ID                json.Number     `json:"id"`
	Status            string          `json:"status"`
	ExternalReference string          `json:"external_reference"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	Payer             struct {
		Email string `json:"email"`
	} `json:"payer"`
}

// GetPayment fetches the authoritative payment record by id.
// GET /v1/payments/{id}
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*entity.Payment, error) {
	if c.accessToken == "" {
		return nil, domainErrors.ErrMissingAccessToken
	}

	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID)

	c.logger.Info("MercadoPago: Fetching payment",
		zap.String("payment_id", paymentID),
		zap.String("step", "fetch_payment"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("MercadoPago: Payment lookup request failed",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		return nil, &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "MercadoPago API request failed",
			Details: err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "RESPONSE_ERROR",
			Message: "Failed to read response",
			Details: err.Error(),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		json.Unmarshal(respBody, &errResp)
		message, _ := errResp["message"].(string)
		if message == "" {
			message = "MercadoPago payment lookup failed"
		}

		c.logger.Error("MercadoPago: Payment lookup returned non-2xx status",
			zap.String("payment_id", paymentID),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response_body", respBody))

		return nil, &provider.ProviderError{
			Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message: message,
			Details: fmt.Sprintf("status %d", resp.StatusCode),
		}
	}

	var result paymentResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse payment response",
			Details: err.Error(),
		}
	}

	payment := &entity.Payment{
		ID:                result.ID.String(),
		Status:            result.Status,
		ExternalReference: result.ExternalReference,
		PayerEmail:        result.Payer.Email,
		TransactionAmount: result.TransactionAmount,
	}

	c.logger.Info("MercadoPago: Payment fetched",
		zap.String("payment_id", payment.ID),
		zap.String("status", payment.Status),
		zap.String("external_reference", payment.ExternalReference),
		zap.String("step", "fetch_payment"),
		zap.String("result", "success"))

	return payment, nil
}
