package pricing

import (
	"testing"

	"snapstudio-be/internal/order"

	"github.com/stretchr/testify/assert"
)

func baseConfig() Config {
	return Config{
		Currency:      "usd",
		PerAngle:      25,
		LifestyleFlat: 150,
		BundlePercent: 10,
		StyleRates:    map[string]int64{},
	}
}

func TestComputeOrderTotals(t *testing.T) {
	twoAngleCart := []order.CartItem{
		{Style: "product", Angles: []string{"front", "back"}},
	}

	t.Run("single package, two angles", func(t *testing.T) {
		totals := ComputeOrderTotals(baseConfig(), order.PackageEcommerce, twoAngleCart, false, nil)

		assert.Equal(t, int64(50), totals.ItemsSubtotal)
		assert.Equal(t, int64(0), totals.BundleDiscount)
		assert.Equal(t, int64(0), totals.PromoDiscount)
		assert.Equal(t, int64(50), totals.Total)
	})

	t.Run("fullpackage earns bundle discount", func(t *testing.T) {
		totals := ComputeOrderTotals(baseConfig(), order.PackageFullPackage, twoAngleCart, false, nil)

		assert.Equal(t, int64(50), totals.ItemsSubtotal)
		assert.Equal(t, int64(5), totals.BundleDiscount)
		assert.Equal(t, int64(45), totals.Total)
	})

	t.Run("percent promo on post-bundle subtotal", func(t *testing.T) {
		promo := &Promo{Code: "SAVE20", Type: PromoPercent, Value: 20, Active: true, MinSubtotal: 40}

		totals := ComputeOrderTotals(baseConfig(), order.PackageFullPackage, twoAngleCart, false, promo)

		assert.Equal(t, int64(5), totals.BundleDiscount)
		assert.Equal(t, int64(9), totals.PromoDiscount)
		assert.Equal(t, int64(36), totals.Total)
	})

	t.Run("empty cart without lifestyle is all zero", func(t *testing.T) {
		totals := ComputeOrderTotals(baseConfig(), order.PackageEcommerce, nil, false, nil)

		assert.Equal(t, order.Totals{}, totals)
	})

	t.Run("empty angles contribute nothing", func(t *testing.T) {
		cart := []order.CartItem{
			{Style: "product", Angles: nil},
			{Style: "ghost", Angles: []string{}},
		}

		totals := ComputeOrderTotals(baseConfig(), order.PackageEcommerce, cart, false, nil)
		assert.Equal(t, int64(0), totals.Total)
	})

	t.Run("lifestyle flat rate added once", func(t *testing.T) {
		totals := ComputeOrderTotals(baseConfig(), order.PackageLifestyle, twoAngleCart, true, nil)

		assert.Equal(t, int64(200), totals.ItemsSubtotal)
		assert.Equal(t, int64(0), totals.BundleDiscount)
		assert.Equal(t, int64(200), totals.Total)
	})

	t.Run("style override rate wins over default", func(t *testing.T) {
		cfg := baseConfig()
		cfg.StyleRates["hero"] = 40
		cart := []order.CartItem{
			{Style: "hero", Angles: []string{"front"}},
			{Style: "product", Angles: []string{"front"}},
		}

		totals := ComputeOrderTotals(cfg, order.PackageEcommerce, cart, false, nil)
		assert.Equal(t, int64(65), totals.ItemsSubtotal)
	})

	t.Run("no bundle discount outside fullpackage", func(t *testing.T) {
		for _, pkg := range []order.PackageType{order.PackageEcommerce, order.PackageLifestyle} {
			totals := ComputeOrderTotals(baseConfig(), pkg, twoAngleCart, true, nil)
			assert.Equal(t, int64(0), totals.BundleDiscount, "package %s", pkg)
		}
	})

	t.Run("no bundle discount for empty cart even on fullpackage", func(t *testing.T) {
		totals := ComputeOrderTotals(baseConfig(), order.PackageFullPackage, nil, true, nil)
		assert.Equal(t, int64(0), totals.BundleDiscount)
	})

	t.Run("inactive promo contributes nothing", func(t *testing.T) {
		promo := &Promo{Code: "OLD", Type: PromoPercent, Value: 50, Active: false}

		totals := ComputeOrderTotals(baseConfig(), order.PackageEcommerce, twoAngleCart, false, promo)
		assert.Equal(t, int64(0), totals.PromoDiscount)
		assert.Equal(t, int64(50), totals.Total)
	})

	t.Run("promo below minimum subtotal contributes nothing", func(t *testing.T) {
		promo := &Promo{Code: "BIG", Type: PromoPercent, Value: 20, Active: true, MinSubtotal: 100}

		totals := ComputeOrderTotals(baseConfig(), order.PackageEcommerce, twoAngleCart, false, promo)
		assert.Equal(t, int64(0), totals.PromoDiscount)
	})

	t.Run("fixed promo clamps to subtotal, total never negative", func(t *testing.T) {
		promo := &Promo{Code: "HUGE", Type: PromoFixed, Value: 500, Active: true}

		totals := ComputeOrderTotals(baseConfig(), order.PackageEcommerce, twoAngleCart, false, promo)
		assert.Equal(t, int64(50), totals.PromoDiscount)
		assert.Equal(t, int64(0), totals.Total)
	})

	t.Run("percent rounding is half-up", func(t *testing.T) {
		cfg := baseConfig()
		cfg.BundlePercent = 10
		cart := []order.CartItem{
			{Style: "product", Angles: []string{"a", "b", "c"}},
		}

		// subtotal 75, 10% = 7.5, rounds to 8
		totals := ComputeOrderTotals(cfg, order.PackageFullPackage, cart, false, nil)
		assert.Equal(t, int64(8), totals.BundleDiscount)
		assert.Equal(t, int64(67), totals.Total)
	})

	t.Run("breakdown always adds up", func(t *testing.T) {
		promo := &Promo{Code: "SAVE20", Type: PromoPercent, Value: 20, Active: true}

		totals := ComputeOrderTotals(baseConfig(), order.PackageFullPackage, twoAngleCart, true, promo)
		assert.Equal(t, totals.Total, totals.ItemsSubtotal-totals.BundleDiscount-totals.PromoDiscount)
	})
}
