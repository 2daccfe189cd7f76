package handlers

import (
	"errors"
	"net/http"
	"time"

	"snapstudio-be/internal/checkout"
	"snapstudio-be/internal/ledger"
	"snapstudio-be/internal/order"
	"snapstudio-be/internal/payment"

	"github.com/gin-gonic/gin"
)

type orderResponse struct {
	TrackingNumber    string           `json:"tracking_number"`
	Email             string           `json:"email"`
	CustomerName      string           `json:"customer_name,omitempty"`
	ProductName       string           `json:"product_name,omitempty"`
	PackageType       string           `json:"package_type"`
	Cart              []order.CartItem `json:"cart"`
	LifestyleIncluded bool             `json:"lifestyle_included"`
	Totals            order.Totals     `json:"totals"`
	DiscountCode      string           `json:"discount_code,omitempty"`
	Status            string           `json:"status"`
	DeliveryURL       string           `json:"delivery_url,omitempty"`
	RefundedCents     int64            `json:"refunded_cents"`
	RefundStatus      string           `json:"refund_status"`
	CreatedAt         time.Time        `json:"created_at"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		TrackingNumber:    o.TrackingNumber,
		Email:             o.Email,
		CustomerName:      o.CustomerName,
		ProductName:       o.ProductName,
		PackageType:       string(o.PackageType),
		Cart:              o.Cart,
		LifestyleIncluded: o.LifestyleIncluded,
		Totals:            o.Totals,
		DiscountCode:      o.DiscountCode,
		Status:            string(o.Status),
		DeliveryURL:       o.DeliveryURL,
		RefundedCents:     o.RefundedCents,
		RefundStatus:      string(o.RefundStatus),
		CreatedAt:         o.CreatedAt,
	}
}

// respondError maps domain errors onto HTTP statuses. Configuration and
// provider failures get distinct statuses so clients can tell "service
// unavailable" apart from a declined card or a bad request.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmailRequired),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidPackage),
		errors.Is(err, checkout.ErrInvalidCart),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, order.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, ledger.ErrRefundExceedsBalance),
		errors.Is(err, ledger.ErrNoChargeReference):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrDeliveryAlreadySet),
		errors.Is(err, checkout.ErrNotAwaitingPayment):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, payment.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment service unavailable"})

	case errors.Is(err, checkout.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider error"})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
