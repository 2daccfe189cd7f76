package ledger

import (
	"context"
	"errors"
	"fmt"

	"snapstudio-be/internal/logger"
	"snapstudio-be/internal/order"
	"snapstudio-be/internal/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const ProviderStripe = "STRIPE"

type Service interface {
	// CreateRefund refunds part or all of an order's settled charge. The
	// refundable balance is recomputed from the ledger under a row lock on
	// every attempt, so retries and concurrent requests cannot over-refund.
	CreateRefund(ctx context.Context, orderID uuid.UUID, amountCents int64, reason, actingUserID string) (*RefundResult, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*Transaction, error)
}

type service struct {
	repo   Repository
	orders order.Repository
	gate   payment.Gateway
}

func NewService(repo Repository, orders order.Repository, gate payment.Gateway) Service {
	return &service{repo: repo, orders: orders, gate: gate}
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*Transaction, error) {
	return s.repo.ListByOrder(ctx, orderID)
}

func (s *service) CreateRefund(ctx context.Context, orderID uuid.UUID, amountCents int64, reason, actingUserID string) (*RefundResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", orderID.String()),
		zap.Int64("amount_cents", amountCents),
	)

	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	// 1. Load the order for the charge reference
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.ProviderPaymentRef == "" {
		return nil, ErrNoChargeReference
	}

	// 2. Lock the order and recompute the balance from the ledger
	rtx, err := s.repo.BeginRefund(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer rtx.Rollback()

	charged := rtx.ChargedCents()
	available := charged - rtx.RefundedCents()

	// 3. Reject over-refunds outright, never clamp
	if amountCents > available {
		log.Warn("refund rejected, exceeds balance",
			zap.Int64("available_cents", available))
		return nil, fmt.Errorf("%w: requested %d, available %d",
			ErrRefundExceedsBalance, amountCents, available)
	}

	newRefunded := rtx.RefundedCents() + amountCents
	txnType := TypePartialRefund
	refundStatus := order.RefundPartial
	if newRefunded >= charged {
		txnType = TypeRefund
		refundStatus = order.RefundFull
	}

	txn := &Transaction{
		OrderID:      orderID,
		Type:         txnType,
		Provider:     ProviderStripe,
		AmountCents:  amountCents,
		RefundReason: reason,
		ProcessedBy:  actingUserID,
	}

	// 4. Call the provider while the row lock serializes this section
	res, err := s.gate.RefundCharge(ctx, o.ProviderPaymentRef, amountCents, reason)
	if err != nil {
		// Release the lock first, then record the failed attempt for
		// audit. Refund totals stay untouched.
		_ = rtx.Rollback()

		txn.Status = StatusFailed
		var provErr *payment.ProviderError
		if errors.As(err, &provErr) {
			txn.ErrorCode = provErr.Code
			txn.ErrorMessage = provErr.Message
		} else {
			txn.ErrorMessage = err.Error()
		}

		if auditErr := s.repo.CreateTransaction(ctx, txn); auditErr != nil {
			log.Error("failed to record failed refund", zap.Error(auditErr))
		}

		log.Error("provider refund failed", zap.Error(err))
		return nil, fmt.Errorf("refund failed: %w", err)
	}

	// 5. Append the refund row and the denormalized totals atomically
	txn.Status = StatusSucceeded
	txn.ProviderTxnID = res.ProviderRefundID

	if err := rtx.Commit(txn, newRefunded, refundStatus); err != nil {
		return nil, err
	}

	log.Info("refund recorded",
		zap.String("refund_id", txn.ID.String()),
		zap.String("type", string(txnType)),
		zap.Bool("already_refunded", res.AlreadyRefunded),
	)

	return &RefundResult{
		RefundID:         txn.ID,
		ProviderRefundID: res.ProviderRefundID,
		RefundedCents:    newRefunded,
		AvailableCents:   charged - newRefunded,
	}, nil
}
