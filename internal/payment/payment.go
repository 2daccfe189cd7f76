package payment

import (
	"context"
	"errors"
	"fmt"
)

// Gateway is the narrow capability surface the core needs from a payment
// provider: open a session for an exact amount, refund a charge, and check
// webhook authenticity. No provider wire format leaks past this package.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error)
	RefundCharge(ctx context.Context, chargeRef string, amountCents int64, reason string) (*RefundResult, error)
	VerifySignature(signature string, body []byte) error
}

type SessionRequest struct {
	ReferenceID string // tracking number, echoed back in webhooks
	Email       string
	Description string
	Currency    string
	AmountCents int64
}

type Session struct {
	ID         string
	PaymentURL string
}

type RefundResult struct {
	ProviderRefundID string
	Status           string
	AlreadyRefunded  bool
}

var (
	// ErrNotConfigured means the provider credential is missing. A
	// configuration problem, surfaced immediately and never retried.
	ErrNotConfigured = errors.New("payment provider not configured")

	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// ProviderError is a structured decline/error payload from the provider.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %s: %s", e.Code, e.Message)
}
