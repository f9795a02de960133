package entity

import "github.com/shopspring/decimal"

// PaymentStatusApproved is the only MercadoPago status that activates a
// subscription. Every other status string deactivates it.
const PaymentStatusApproved = "approved"

// Payment is the authoritative payment record fetched from MercadoPago.
// The webhook notification is only a trigger to fetch this; activation
// decisions are never made from the notification body itself.
type Payment struct {
	ID                string          `json:"id"`
	Status            string          `json:"status"`
	ExternalReference string          `json:"external_reference"`
	PayerEmail        string          `json:"payer_email"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
}

// Approved reports whether this payment should activate the subscription.
func (p *Payment) Approved() bool {
	return p.Status == PaymentStatusApproved
}
