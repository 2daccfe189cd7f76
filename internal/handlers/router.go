package handlers

import (
	"snapstudio-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(
	checkoutHandler *CheckoutHandler,
	orderHandler *OrderHandler,
	webhookHandler *WebhookHandler,
	adminJWTSecret string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.RateLimit())

	api := r.Group("/api")
	{
		api.POST("/checkout", checkoutHandler.StartCheckout)
		api.GET("/orders/:trackingNumber", orderHandler.GetByTrackingNumber)
		api.GET("/orders", orderHandler.ListByEmail)
	}

	r.POST("/webhook/payment", webhookHandler.HandlePaymentWebhook)

	admin := r.Group("/admin", middleware.AdminAuth(adminJWTSecret))
	{
		admin.GET("/orders", orderHandler.ListAll)
		admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
		admin.POST("/orders/:id/delivery", orderHandler.AssignDelivery)
		admin.POST("/orders/:id/refund", orderHandler.CreateRefund)
		admin.GET("/orders/:id/transactions", orderHandler.ListTransactions)
		admin.POST("/orders/:id/retry-session", checkoutHandler.RetrySession)
	}

	return r
}
