package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderTestColumns = []string{
	"id", "tracking_number", "email", "customer_name", "phone", "company",
	"product_name", "notes", "package_type", "cart", "lifestyle_included",
	"items_subtotal", "bundle_discount", "promo_discount", "total",
	"discount_code", "status", "provider_session_ref", "provider_payment_ref",
	"delivery_url", "refunded_cents", "refund_status", "created_at",
}

func orderRow(id uuid.UUID, trackingNumber string, status Status) *sqlmock.Rows {
	return sqlmock.NewRows(orderTestColumns).AddRow(
		id.String(), trackingNumber, "jane@example.com", "Jane", "", "",
		"Ceramic mug", "", "fullpackage", []byte(`[{"style":"product","angles":["front","back"]}]`), false,
		50, 5, 0, 45,
		"", string(status), "cs_test_123", "pi_test_123",
		"", 0, "none", time.Now(),
	)
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	newOrder := func() *Order {
		return &Order{
			Email:       "jane@example.com",
			PackageType: PackageFullPackage,
			Cart:        []CartItem{{Style: "product", Angles: []string{"front", "back"}}},
			Totals:      Totals{ItemsSubtotal: 50, BundleDiscount: 5, Total: 45},
			Status:      StatusPendingPayment,
		}
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO orders`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		o := newOrder()
		err := repo.Create(ctx, o)

		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, o.ID)
		assert.NotEmpty(t, o.TrackingNumber)
		assert.False(t, o.CreatedAt.IsZero())
		assert.Equal(t, RefundNone, o.RefundStatus)
	})

	t.Run("RetriesOnTrackingCollision", func(t *testing.T) {
		collision := &pq.Error{Code: pq.ErrorCode(PgUniqueViolation), Constraint: "ux_orders_tracking_number"}
		mock.ExpectExec(`INSERT INTO orders`).WillReturnError(collision)
		mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Create(ctx, newOrder())
		assert.NoError(t, err)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO orders`).
			WillReturnError(errors.New("database error"))

		err := repo.Create(ctx, newOrder())
		assert.Error(t, err)
	})
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		status := StatusPaid
		mock.ExpectQuery(`UPDATE orders SET status = \$2 WHERE id = \$1`).
			WithArgs(id, status).
			WillReturnRows(orderRow(id, "SNAP-7KQ2M9XWPF", StatusPaid))

		o, err := repo.Update(ctx, id, Patch{Status: &status})
		assert.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, StatusPaid, o.Status)
		assert.Len(t, o.Cart, 1)
		assert.Equal(t, int64(45), o.Totals.Total)
	})

	t.Run("NotFound", func(t *testing.T) {
		status := StatusPaid
		mock.ExpectQuery(`UPDATE orders SET`).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(ctx, id, Patch{Status: &status})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("EmptyPatch", func(t *testing.T) {
		_, err := repo.Update(ctx, id, Patch{})
		assert.ErrorIs(t, err, ErrNothingToUpdate)
	})
}

func TestRepository_Getters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	id := uuid.New()

	t.Run("GetByTrackingNumber", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders WHERE tracking_number = \$1`).
			WithArgs("SNAP-7KQ2M9XWPF").
			WillReturnRows(orderRow(id, "SNAP-7KQ2M9XWPF", StatusPaid))

		o, err := repo.GetByTrackingNumber(ctx, "SNAP-7KQ2M9XWPF")
		assert.NoError(t, err)
		assert.Equal(t, id, o.ID)
	})

	t.Run("GetByProviderSession", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders WHERE provider_session_ref = \$1`).
			WithArgs("cs_test_123").
			WillReturnRows(orderRow(id, "SNAP-7KQ2M9XWPF", StatusPendingPayment))

		o, err := repo.GetByProviderSession(ctx, "cs_test_123")
		assert.NoError(t, err)
		assert.Equal(t, StatusPendingPayment, o.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("DBError is not NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
			WithArgs(id).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.GetByID(ctx, id)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_Lists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("ListByEmail", func(t *testing.T) {
		rows := orderRow(uuid.New(), "SNAP-AAAAAAAAAA", StatusPaid)
		mock.ExpectQuery(`SELECT .* FROM orders\s+WHERE lower\(email\) = lower\(\$1\)`).
			WithArgs("jane@example.com").
			WillReturnRows(rows)

		orders, err := repo.ListByEmail(ctx, "jane@example.com")
		assert.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("ListAll empty", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders`).
			WillReturnRows(sqlmock.NewRows(orderTestColumns))

		orders, err := repo.ListAll(ctx)
		assert.NoError(t, err)
		assert.Empty(t, orders)
	})
}
