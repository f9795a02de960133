package provider

import (
	"context"

	"github.com/vitafit/payment-service/internal/domain/entity"
)

// PaymentProvider defines the read surface of the payment processor. The
// webhook handler only ever looks payments up; checkout and charging live in
// the MercadoPago-hosted flow the SPA redirects to.
type PaymentProvider interface {
	// GetPayment fetches the authoritative payment record by id
	GetPayment(ctx context.Context, paymentID string) (*entity.Payment, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// ProviderError carries the processor-side error detail for operator debugging
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}
