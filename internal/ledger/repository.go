package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"snapstudio-be/internal/order"

	"github.com/google/uuid"
)

type Repository interface {
	CreateTransaction(ctx context.Context, t *Transaction) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, errorCode, errorMessage string) error

	// SettlePayment flips a pending_payment order to its terminal payment
	// state and appends the charge row in one transaction. Returns false
	// without writing anything when the order already left pending_payment,
	// which makes webhook redelivery a no-op.
	SettlePayment(ctx context.Context, orderID uuid.UUID, to order.Status, paymentRef string, t *Transaction) (bool, error)

	// BeginRefund opens the refund critical section: it locks the order row
	// and recomputes the settled charge/refund sums inside the transaction,
	// so two concurrent refunds cannot both observe the same stale balance.
	BeginRefund(ctx context.Context, orderID uuid.UUID) (RefundTx, error)
}

// RefundTx holds the order row lock between the balance check and the
// ledger append. Commit writes the refund row and the order's denormalized
// refund totals together; Rollback releases the lock writing nothing.
type RefundTx interface {
	ChargedCents() int64
	RefundedCents() int64
	Commit(t *Transaction, refundedTotal int64, refundStatus order.RefundStatus) error
	Rollback() error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTransaction(ctx context.Context, t *Transaction) error {
	prepareTransaction(t)

	_, err := r.db.ExecContext(ctx, insertTransactionSQL, transactionArgs(t)...)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, type, provider, provider_txn_id, amount_cents,
		       status, error_code, error_message, refund_reason, processed_by, created_at
		FROM payment_transactions
		WHERE order_id = $1
		ORDER BY created_at ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []*Transaction
	for rows.Next() {
		var t Transaction
		err := rows.Scan(
			&t.ID, &t.OrderID, &t.Type, &t.Provider, &t.ProviderTxnID, &t.AmountCents,
			&t.Status, &t.ErrorCode, &t.ErrorMessage, &t.RefundReason, &t.ProcessedBy, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction rows: %w", err)
	}
	return txns, nil
}

// UpdateStatus resolves an outstanding pending row. Settled rows are
// immutable; the WHERE clause refuses to touch them.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, errorCode, errorMessage string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payment_transactions
		SET status = $2, error_code = $3, error_message = $4
		WHERE id = $1 AND status = 'pending'
	`, id, status, errorCode, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *repository) SettlePayment(ctx context.Context, orderID uuid.UUID, to order.Status, paymentRef string, t *Transaction) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin settlement: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $2,
		    provider_payment_ref = CASE WHEN $3 <> '' THEN $3 ELSE provider_payment_ref END
		WHERE id = $1 AND status = 'pending_payment'
	`, orderID, to, paymentRef)
	if err != nil {
		return false, fmt.Errorf("failed to settle order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		// Already settled by an earlier delivery of the same event.
		return false, nil
	}

	prepareTransaction(t)
	if _, err := tx.ExecContext(ctx, insertTransactionSQL, transactionArgs(t)...); err != nil {
		return false, fmt.Errorf("failed to insert charge transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return true, nil
}

func (r *repository) BeginRefund(ctx context.Context, orderID uuid.UUID) (RefundTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin refund: %w", err)
	}

	// Row lock serializes concurrent refunds against the same order.
	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		tx.Rollback()
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	var charged, refunded int64
	err = tx.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(amount_cents) FILTER (WHERE type = 'charge'), 0),
			COALESCE(SUM(amount_cents) FILTER (WHERE type IN ('refund', 'partial_refund')), 0)
		FROM payment_transactions
		WHERE order_id = $1 AND status = 'succeeded'
	`, orderID).Scan(&charged, &refunded)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to compute refundable balance: %w", err)
	}

	return &refundTx{tx: tx, ctx: ctx, orderID: orderID, charged: charged, refunded: refunded}, nil
}

type refundTx struct {
	tx       *sql.Tx
	ctx      context.Context
	orderID  uuid.UUID
	charged  int64
	refunded int64
}

func (r *refundTx) ChargedCents() int64  { return r.charged }
func (r *refundTx) RefundedCents() int64 { return r.refunded }

func (r *refundTx) Commit(t *Transaction, refundedTotal int64, refundStatus order.RefundStatus) error {
	prepareTransaction(t)

	if _, err := r.tx.ExecContext(r.ctx, insertTransactionSQL, transactionArgs(t)...); err != nil {
		return fmt.Errorf("failed to insert refund transaction: %w", err)
	}

	_, err := r.tx.ExecContext(r.ctx, `
		UPDATE orders SET refunded_cents = $2, refund_status = $3 WHERE id = $1
	`, r.orderID, refundedTotal, refundStatus)
	if err != nil {
		return fmt.Errorf("failed to update refund totals: %w", err)
	}

	if err := r.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit refund: %w", err)
	}
	return nil
}

func (r *refundTx) Rollback() error {
	err := r.tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

const insertTransactionSQL = `
	INSERT INTO payment_transactions (
		id, order_id, type, provider, provider_txn_id, amount_cents,
		status, error_code, error_message, refund_reason, processed_by, created_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`

func prepareTransaction(t *Transaction) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
}

func transactionArgs(t *Transaction) []interface{} {
	return []interface{}{
		t.ID, t.OrderID, t.Type, t.Provider, t.ProviderTxnID, t.AmountCents,
		t.Status, t.ErrorCode, t.ErrorMessage, t.RefundReason, t.ProcessedBy, t.CreatedAt,
	}
}
