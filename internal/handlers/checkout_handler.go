package handlers

import (
	"net/http"

	"snapstudio-be/internal/checkout"
	"snapstudio-be/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	checkoutSvc checkout.Service
}

func NewCheckoutHandler(checkoutSvc checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutSvc: checkoutSvc}
}

type checkoutRequest struct {
	Email             string           `json:"email"`
	CustomerName      string           `json:"customer_name"`
	Phone             string           `json:"phone"`
	Company           string           `json:"company"`
	ProductName       string           `json:"product_name"`
	Notes             string           `json:"notes"`
	PackageType       string           `json:"package_type"`
	Cart              []order.CartItem `json:"cart"`
	LifestyleIncluded bool             `json:"lifestyle_included"`
	DiscountCode      string           `json:"discount_code"`
}

func (h *CheckoutHandler) StartCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.checkoutSvc.StartCheckout(c.Request.Context(), checkout.CheckoutInput{
		Email:             req.Email,
		CustomerName:      req.CustomerName,
		Phone:             req.Phone,
		Company:           req.Company,
		ProductName:       req.ProductName,
		Notes:             req.Notes,
		PackageType:       order.PackageType(req.PackageType),
		Cart:              req.Cart,
		LifestyleIncluded: req.LifestyleIncluded,
		DiscountCode:      req.DiscountCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id":        result.OrderID,
		"tracking_number": result.TrackingNumber,
		"session_ref":     result.SessionRef,
		"payment_url":     result.PaymentURL,
		"totals":          result.Totals,
	})
}

func (h *CheckoutHandler) RetrySession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	result, err := h.checkoutSvc.RetrySession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":        result.OrderID,
		"tracking_number": result.TrackingNumber,
		"session_ref":     result.SessionRef,
		"payment_url":     result.PaymentURL,
	})
}
