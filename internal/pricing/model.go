package pricing

// Config is a read-only snapshot of catalog pricing, loaded per request.
// All rates are whole currency units.
type Config struct {
	Currency      string
	PerAngle      int64
	LifestyleFlat int64
	BundlePercent int64
	StyleRates    map[string]int64
}

// RateFor returns the per-angle rate for a style, falling back to the
// default rate when no override exists.
func (c Config) RateFor(style string) int64 {
	if rate, ok := c.StyleRates[style]; ok {
		return rate
	}
	return c.PerAngle
}

type PromoType string

const (
	PromoPercent PromoType = "percent"
	PromoFixed   PromoType = "fixed"
)

type Promo struct {
	Code        string
	Type        PromoType
	Value       int64
	Active      bool
	MinSubtotal int64
}
