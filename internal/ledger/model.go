package ledger

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeCharge        Type = "charge"
	TypeRefund        Type = "refund"
	TypePartialRefund Type = "partial_refund"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Transaction is one append-only ledger row. Amounts are minor units
// (cents); the ledger is the source of truth for refundable balance.
type Transaction struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	Type          Type
	Provider      string
	ProviderTxnID string
	AmountCents   int64
	Status        Status
	ErrorCode     string
	ErrorMessage  string
	RefundReason  string
	ProcessedBy   string
	CreatedAt     time.Time
}

type RefundResult struct {
	RefundID         uuid.UUID
	ProviderRefundID string
	RefundedCents    int64
	AvailableCents   int64
}
