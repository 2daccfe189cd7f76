package main

import (
	"log"

	"snapstudio-be/internal/checkout"
	"snapstudio-be/internal/config"
	"snapstudio-be/internal/db"
	"snapstudio-be/internal/handlers"
	"snapstudio-be/internal/ledger"
	"snapstudio-be/internal/logger"
	"snapstudio-be/internal/order"
	"snapstudio-be/internal/payment"
	"snapstudio-be/internal/pricing"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	gateway := payment.NewStripeGateway(
		cfg.StripeSecretKey,
		cfg.StripeWebhookSecret,
		cfg.CheckoutSuccessURL,
		cfg.CheckoutCancelURL,
	)

	priceSource := pricing.NewConfigSource(database)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	ledgerRepo := ledger.NewRepository(database)
	ledgerSvc := ledger.NewService(ledgerRepo, orderRepo, gateway)

	checkoutSvc := checkout.NewService(orderRepo, ledgerRepo, gateway, priceSource)

	router := handlers.NewRouter(
		handlers.NewCheckoutHandler(checkoutSvc),
		handlers.NewOrderHandler(orderSvc, ledgerSvc),
		handlers.NewWebhookHandler(checkoutSvc, gateway),
		cfg.AdminJWTSecret,
	)

	log.Printf("🚀 server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(router.Run(":" + cfg.AppPort))
}
