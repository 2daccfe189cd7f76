package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"snapstudio-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*Order, error)
	GetByProviderSession(ctx context.Context, sessionRef string) (*Order, error)
	ListByEmail(ctx context.Context, email string) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, tracking_number, email, customer_name, phone, company,
	product_name, notes, package_type, cart, lifestyle_included,
	items_subtotal, bundle_discount, promo_discount, total,
	discount_code, status, provider_session_ref, provider_payment_ref,
	delivery_url, refunded_cents, refund_status, created_at`

func (r *repository) Create(ctx context.Context, o *Order) error {
	cartJSON, err := json.Marshal(o.Cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if o.RefundStatus == "" {
		o.RefundStatus = RefundNone
	}

	// Tracking numbers are random; retry on the unique constraint instead
	// of checking for collisions up front.
	for attempt := 0; attempt < 3; attempt++ {
		o.TrackingNumber = GenerateTrackingNumber()

		_, err = r.db.ExecContext(ctx, `
			INSERT INTO orders (
				id, tracking_number, email, customer_name, phone, company,
				product_name, notes, package_type, cart, lifestyle_included,
				items_subtotal, bundle_discount, promo_discount, total,
				discount_code, status, provider_session_ref, provider_payment_ref,
				delivery_url, refunded_cents, refund_status, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		`,
			o.ID, o.TrackingNumber, o.Email, o.CustomerName, o.Phone, o.Company,
			o.ProductName, o.Notes, o.PackageType, cartJSON, o.LifestyleIncluded,
			o.Totals.ItemsSubtotal, o.Totals.BundleDiscount, o.Totals.PromoDiscount, o.Totals.Total,
			o.DiscountCode, o.Status, o.ProviderSessionRef, o.ProviderPaymentRef,
			o.DeliveryURL, o.RefundedCents, o.RefundStatus, o.CreatedAt,
		)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation &&
			strings.Contains(pqErr.Constraint, "tracking") {
			logger.FromCtx(ctx).Warn("tracking number collision, regenerating",
				zap.String("tracking_number", o.TrackingNumber))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to insert order: %w", err)
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Order, error) {
	set := make([]string, 0, 4)
	args := []interface{}{id}

	add := func(col string, v interface{}) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.DeliveryURL != nil {
		add("delivery_url", *patch.DeliveryURL)
	}
	if patch.ProviderSessionRef != nil {
		add("provider_session_ref", *patch.ProviderSessionRef)
	}
	if patch.ProviderPaymentRef != nil {
		add("provider_payment_ref", *patch.ProviderPaymentRef)
	}

	if len(set) == 0 {
		return nil, ErrNothingToUpdate
	}

	query := fmt.Sprintf(`
		UPDATE orders SET %s
		WHERE id = $1
		RETURNING %s
	`, strings.Join(set, ", "), orderColumns)

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return o, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *repository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*Order, error) {
	return r.getOne(ctx, "tracking_number = $1", trackingNumber)
}

func (r *repository) GetByProviderSession(ctx context.Context, sessionRef string) (*Order, error) {
	return r.getOne(ctx, "provider_session_ref = $1", sessionRef)
}

func (r *repository) getOne(ctx context.Context, where string, arg interface{}) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s`, orderColumns, where)

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (r *repository) ListByEmail(ctx context.Context, email string) ([]*Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE lower(email) = lower($1)
		ORDER BY created_at DESC
	`, orderColumns)

	return r.list(ctx, query, email)
}

func (r *repository) ListAll(ctx context.Context) ([]*Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		ORDER BY created_at DESC
	`, orderColumns)

	return r.list(ctx, query)
}

func (r *repository) list(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order rows: %w", err)
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o        Order
		cartJSON []byte
	)

	err := row.Scan(
		&o.ID, &o.TrackingNumber, &o.Email, &o.CustomerName, &o.Phone, &o.Company,
		&o.ProductName, &o.Notes, &o.PackageType, &cartJSON, &o.LifestyleIncluded,
		&o.Totals.ItemsSubtotal, &o.Totals.BundleDiscount, &o.Totals.PromoDiscount, &o.Totals.Total,
		&o.DiscountCode, &o.Status, &o.ProviderSessionRef, &o.ProviderPaymentRef,
		&o.DeliveryURL, &o.RefundedCents, &o.RefundStatus, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(cartJSON) > 0 {
		if err := json.Unmarshal(cartJSON, &o.Cart); err != nil {
			return nil, fmt.Errorf("failed to decode cart: %w", err)
		}
	}
	return &o, nil
}
