package ledger

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidAmount = errors.New("refund amount must be positive")

	// -- Invariants --
	ErrRefundExceedsBalance = errors.New("refund amount exceeds refundable balance")

	// -- Resource State --
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNoChargeReference   = errors.New("order has no settled charge to refund")
)
