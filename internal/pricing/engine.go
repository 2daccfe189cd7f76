package pricing

import "snapstudio-be/internal/order"

// ComputeOrderTotals prices a cart. Pure and total: malformed config or
// negative rates are a caller contract violation, not a runtime error.
//
// Every derived amount is rounded half-up to whole currency units before
// it feeds into the next step, so the breakdown the customer sees adds up
// exactly to the charged total.
func ComputeOrderTotals(
	cfg Config,
	packageType order.PackageType,
	cart []order.CartItem,
	lifestyleIncluded bool,
	promo *Promo,
) order.Totals {

	var itemsSubtotal int64
	for _, item := range cart {
		itemsSubtotal += int64(len(item.Angles)) * cfg.RateFor(item.Style)
	}
	if lifestyleIncluded {
		itemsSubtotal += cfg.LifestyleFlat
	}

	// Bundle pricing only exists on the full package tier.
	var bundleDiscount int64
	if packageType == order.PackageFullPackage && len(cart) > 0 {
		bundleDiscount = clamp(percentOf(itemsSubtotal, cfg.BundlePercent), itemsSubtotal)
	}

	base := itemsSubtotal - bundleDiscount

	var promoDiscount int64
	if promo != nil && promo.Active && base >= promo.MinSubtotal {
		switch promo.Type {
		case PromoPercent:
			promoDiscount = percentOf(base, promo.Value)
		case PromoFixed:
			promoDiscount = promo.Value
		}
		promoDiscount = clamp(promoDiscount, base)
	}

	total := base - promoDiscount
	if total < 0 {
		total = 0
	}

	return order.Totals{
		ItemsSubtotal:  itemsSubtotal,
		BundleDiscount: bundleDiscount,
		PromoDiscount:  promoDiscount,
		Total:          total,
	}
}

// percentOf rounds half-up. Inputs are non-negative per the engine contract.
func percentOf(amount, percent int64) int64 {
	return (amount*percent + 50) / 100
}

func clamp(v, max int64) int64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
