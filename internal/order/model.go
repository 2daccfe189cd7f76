package order

import (
	"time"

	"github.com/google/uuid"
)

type PackageType string

const (
	PackageEcommerce   PackageType = "ecommerce"
	PackageLifestyle   PackageType = "lifestyle"
	PackageFullPackage PackageType = "fullpackage"
)

func (p PackageType) Valid() bool {
	switch p {
	case PackageEcommerce, PackageLifestyle, PackageFullPackage:
		return true
	}
	return false
}

// CartItem is one style selection with the angles the customer wants shot.
type CartItem struct {
	Style  string   `json:"style"`
	Angles []string `json:"angles"`
}

// Totals is the priced breakdown of an order, in whole currency units.
// It is computed once at checkout and never recomputed afterwards.
type Totals struct {
	ItemsSubtotal  int64 `json:"items_subtotal"`
	BundleDiscount int64 `json:"bundle_discount"`
	PromoDiscount  int64 `json:"promo_discount"`
	Total          int64 `json:"total"`
}

type RefundStatus string

const (
	RefundNone    RefundStatus = "none"
	RefundPartial RefundStatus = "partial"
	RefundFull    RefundStatus = "full"
)

type Order struct {
	ID                 uuid.UUID
	TrackingNumber     string
	Email              string
	CustomerName       string
	Phone              string
	Company            string
	ProductName        string
	Notes              string
	PackageType        PackageType
	Cart               []CartItem
	LifestyleIncluded  bool
	Totals             Totals
	DiscountCode       string
	Status             Status
	ProviderSessionRef string
	ProviderPaymentRef string
	DeliveryURL        string
	RefundedCents      int64
	RefundStatus       RefundStatus
	CreatedAt          time.Time
}

// Patch is the set of fields that may change after creation. Totals, cart
// and tracking number are immutable once the order row exists.
type Patch struct {
	Status             *Status
	DeliveryURL        *string
	ProviderSessionRef *string
	ProviderPaymentRef *string
}
