package handlers

import (
	"net/http"

	"snapstudio-be/internal/ledger"
	"snapstudio-be/internal/middleware"
	"snapstudio-be/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderSvc  order.Service
	ledgerSvc ledger.Service
}

func NewOrderHandler(orderSvc order.Service, ledgerSvc ledger.Service) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc, ledgerSvc: ledgerSvc}
}

// GetByTrackingNumber is the public order-status lookup.
func (h *OrderHandler) GetByTrackingNumber(c *gin.Context) {
	o, err := h.orderSvc.GetByTrackingNumber(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) ListByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	orders, err := h.orderSvc.ListByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	res := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		res = append(res, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": res})
}

// ----------------- Admin -----------------

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.orderSvc.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	res := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		res = append(res, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": res})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	o, err := h.orderSvc.ChangeStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) AssignDelivery(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req struct {
		DeliveryURL string `json:"delivery_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.DeliveryURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_url is required"})
		return
	}

	o, err := h.orderSvc.AssignDelivery(c.Request.Context(), id, req.DeliveryURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) CreateRefund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req struct {
		AmountCents int64  `json:"amount_cents"`
		Reason      string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.ledgerSvc.CreateRefund(
		c.Request.Context(), id, req.AmountCents, req.Reason, middleware.AdminIDFrom(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refund_id":          result.RefundID,
		"provider_refund_id": result.ProviderRefundID,
		"refunded_cents":     result.RefundedCents,
		"available_cents":    result.AvailableCents,
	})
}

func (h *OrderHandler) ListTransactions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	txns, err := h.ledgerSvc.ListByOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	type txnResponse struct {
		ID            uuid.UUID `json:"id"`
		Type          string    `json:"type"`
		Provider      string    `json:"provider"`
		ProviderTxnID string    `json:"provider_txn_id,omitempty"`
		AmountCents   int64     `json:"amount_cents"`
		Status        string    `json:"status"`
		ErrorCode     string    `json:"error_code,omitempty"`
		ErrorMessage  string    `json:"error_message,omitempty"`
		RefundReason  string    `json:"refund_reason,omitempty"`
		ProcessedBy   string    `json:"processed_by,omitempty"`
	}

	res := make([]txnResponse, 0, len(txns))
	for _, t := range txns {
		res = append(res, txnResponse{
			ID:            t.ID,
			Type:          string(t.Type),
			Provider:      t.Provider,
			ProviderTxnID: t.ProviderTxnID,
			AmountCents:   t.AmountCents,
			Status:        string(t.Status),
			ErrorCode:     t.ErrorCode,
			ErrorMessage:  t.ErrorMessage,
			RefundReason:  t.RefundReason,
			ProcessedBy:   t.ProcessedBy,
		})
	}
	c.JSON(http.StatusOK, gin.H{"transactions": res})
}
