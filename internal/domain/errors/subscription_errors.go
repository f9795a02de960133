package errors

import "errors"

var (
	// ErrSubscriptionNotFound indicates that no subscription row exists for the user
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrMissingPaymentReference indicates that a payment notification carried no payment id
	ErrMissingPaymentReference = errors.New("payment notification carries no payment id")

	// ErrMissingAccessToken indicates that the MercadoPago access token is not configured
	ErrMissingAccessToken = errors.New("mercadopago access token is not configured")
)
