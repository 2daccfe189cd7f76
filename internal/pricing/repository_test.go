package pricing

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSource_LoadConfig(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	source := NewConfigSource(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT currency, per_angle, lifestyle_flat, bundle_percent FROM pricing_config`).
			WillReturnRows(sqlmock.NewRows([]string{"currency", "per_angle", "lifestyle_flat", "bundle_percent"}).
				AddRow("usd", 25, 150, 10))
		mock.ExpectQuery(`SELECT style, per_angle FROM style_prices`).
			WillReturnRows(sqlmock.NewRows([]string{"style", "per_angle"}).
				AddRow("hero", 40).
				AddRow("ghost", 30))

		cfg, err := source.LoadConfig(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "usd", cfg.Currency)
		assert.Equal(t, int64(25), cfg.PerAngle)
		assert.Equal(t, int64(150), cfg.LifestyleFlat)
		assert.Equal(t, int64(10), cfg.BundlePercent)
		assert.Equal(t, int64(40), cfg.RateFor("hero"))
		assert.Equal(t, int64(25), cfg.RateFor("product"))
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT currency, per_angle, lifestyle_flat, bundle_percent FROM pricing_config`).
			WillReturnError(errors.New("connection refused"))

		_, err := source.LoadConfig(ctx)
		assert.Error(t, err)
	})
}

func TestConfigSource_FindPromo(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	source := NewConfigSource(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT code, type, value, active, min_subtotal FROM promo_codes`).
			WithArgs("SAVE20").
			WillReturnRows(sqlmock.NewRows([]string{"code", "type", "value", "active", "min_subtotal"}).
				AddRow("SAVE20", "percent", 20, true, 40))

		promo, err := source.FindPromo(ctx, "SAVE20")
		assert.NoError(t, err)
		require.NotNil(t, promo)
		assert.Equal(t, PromoPercent, promo.Type)
		assert.Equal(t, int64(20), promo.Value)
		assert.True(t, promo.Active)
	})

	t.Run("NotFound returns nil without error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT code, type, value, active, min_subtotal FROM promo_codes`).
			WithArgs("NOPE").
			WillReturnError(sql.ErrNoRows)

		promo, err := source.FindPromo(ctx, "NOPE")
		assert.NoError(t, err)
		assert.Nil(t, promo)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT code, type, value, active, min_subtotal FROM promo_codes`).
			WillReturnError(errors.New("db error"))

		_, err := source.FindPromo(ctx, "SAVE20")
		assert.Error(t, err)
	})
}
