package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ConfigSource reads current catalog pricing and promo codes. Callers load
// a fresh snapshot per request; nothing here is cached.
type ConfigSource interface {
	LoadConfig(ctx context.Context) (Config, error)
	FindPromo(ctx context.Context, code string) (*Promo, error)
}

type dbConfigSource struct {
	db *sql.DB
}

func NewConfigSource(db *sql.DB) ConfigSource {
	return &dbConfigSource{db: db}
}

func (s *dbConfigSource) LoadConfig(ctx context.Context) (Config, error) {
	var cfg Config

	err := s.db.QueryRowContext(ctx, `
		SELECT currency, per_angle, lifestyle_flat, bundle_percent
		FROM pricing_config
		ORDER BY updated_at DESC
		LIMIT 1
	`).Scan(&cfg.Currency, &cfg.PerAngle, &cfg.LifestyleFlat, &cfg.BundlePercent)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load pricing config: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT style, per_angle FROM style_prices
	`)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load style prices: %w", err)
	}
	defer rows.Close()

	cfg.StyleRates = make(map[string]int64)
	for rows.Next() {
		var style string
		var rate int64
		if err := rows.Scan(&style, &rate); err != nil {
			return Config{}, fmt.Errorf("failed to scan style price: %w", err)
		}
		cfg.StyleRates[style] = rate
	}
	if err := rows.Err(); err != nil {
		return Config{}, fmt.Errorf("failed to read style prices: %w", err)
	}

	return cfg, nil
}

// FindPromo returns nil without error for unknown codes; an unmatched promo
// is not a failure, it simply contributes no discount.
func (s *dbConfigSource) FindPromo(ctx context.Context, code string) (*Promo, error) {
	var p Promo

	err := s.db.QueryRowContext(ctx, `
		SELECT code, type, value, active, min_subtotal
		FROM promo_codes
		WHERE lower(code) = lower($1)
	`, code).Scan(&p.Code, &p.Type, &p.Value, &p.Active, &p.MinSubtotal)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load promo code: %w", err)
	}
	return &p, nil
}
