package errors

import "fmt"

// IdentityNotResolvedError is returned when neither the payment's external
// reference nor the payer email resolves to a platform user. The values that
// were tried are kept so the operator can see them in the webhook response.
type IdentityNotResolvedError struct {
	ExternalReference string
	PayerEmail        string
}

func (e *IdentityNotResolvedError) Error() string {
	return fmt.Sprintf("could not resolve user: external_reference=%q payer_email=%q",
		e.ExternalReference, e.PayerEmail)
}

// NewIdentityNotResolvedError creates a new IdentityNotResolvedError
func NewIdentityNotResolvedError(externalReference, payerEmail string) *IdentityNotResolvedError {
	return &IdentityNotResolvedError{
		ExternalReference: externalReference,
		PayerEmail:        payerEmail,
	}
}
