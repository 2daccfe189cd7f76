package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"snapstudio-be/internal/checkout"
	"snapstudio-be/internal/logger"
	"snapstudio-be/internal/order"
	"snapstudio-be/internal/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// webhookEvent is the JSON the payment provider sends on session settlement.
type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		SessionID     string `json:"session_id"`
		PaymentIntent string `json:"payment_intent"`
		ErrorCode     string `json:"error_code"`
		ErrorMessage  string `json:"error_message"`
	} `json:"data"`
}

type WebhookHandler struct {
	checkoutSvc checkout.Service
	gateway     payment.Gateway
}

func NewWebhookHandler(checkoutSvc checkout.Service, gateway payment.Gateway) *WebhookHandler {
	return &WebhookHandler{checkoutSvc: checkoutSvc, gateway: gateway}
}

func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	log := logger.FromCtx(c.Request.Context())

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	if err := h.gateway.VerifySignature(c.GetHeader("Webhook-Signature"), body); err != nil {
		log.Warn("webhook signature rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	log = log.With(
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("session_id", event.Data.SessionID),
	)

	var outcome checkout.Outcome
	switch event.Type {
	case "checkout.session.completed":
		outcome = checkout.Outcome{
			Succeeded:         true,
			ProviderPaymentID: event.Data.PaymentIntent,
		}
	case "checkout.session.expired", "checkout.session.failed":
		outcome = checkout.Outcome{
			ProviderPaymentID: event.Data.PaymentIntent,
			ErrorCode:         event.Data.ErrorCode,
			ErrorMessage:      event.Data.ErrorMessage,
		}
	default:
		// Not a settlement event, acknowledge and move on.
		log.Debug("ignoring webhook event")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	o, err := h.checkoutSvc.ConfirmCheckout(c.Request.Context(), event.Data.SessionID, outcome)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			log.Warn("webhook for unknown session")
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
			return
		}
		log.Error("failed to reconcile webhook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}

	log.Info("webhook reconciled", zap.String("order_status", string(o.Status)))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
