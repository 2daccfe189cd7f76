package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"snapstudio-be/internal/ledger"
	"snapstudio-be/internal/logger"
	"snapstudio-be/internal/order"
	"snapstudio-be/internal/payment"
	"snapstudio-be/internal/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	StartCheckout(ctx context.Context, input CheckoutInput) (*StartResult, error)
	// RetrySession re-initiates provider session creation for an order that
	// is still awaiting payment, instead of creating a duplicate order.
	RetrySession(ctx context.Context, orderID uuid.UUID) (*StartResult, error)
	// ConfirmCheckout reconciles a provider callback. Safe to invoke more
	// than once per session: a settled order is a no-op success.
	ConfirmCheckout(ctx context.Context, sessionRef string, outcome Outcome) (*order.Order, error)
}

type CheckoutInput struct {
	Email             string
	CustomerName      string
	Phone             string
	Company           string
	ProductName       string
	Notes             string
	PackageType       order.PackageType
	Cart              []order.CartItem
	LifestyleIncluded bool
	DiscountCode      string
}

type StartResult struct {
	OrderID        uuid.UUID
	TrackingNumber string
	SessionRef     string
	PaymentURL     string
	Totals         order.Totals
}

// Outcome is the provider's verdict on a checkout session, as delivered
// through the webhook.
type Outcome struct {
	Succeeded         bool
	ProviderPaymentID string
	ErrorCode         string
	ErrorMessage      string
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type service struct {
	orders     order.Repository
	ledgerRepo ledger.Repository
	gate       payment.Gateway
	prices     pricing.ConfigSource
}

func NewService(orders order.Repository, ledgerRepo ledger.Repository, gate payment.Gateway, prices pricing.ConfigSource) Service {
	return &service{
		orders:     orders,
		ledgerRepo: ledgerRepo,
		gate:       gate,
		prices:     prices,
	}
}

func (s *service) StartCheckout(ctx context.Context, input CheckoutInput) (*StartResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("package_type", string(input.PackageType)),
		zap.Int("item_count", len(input.Cart)),
	)

	// 1. Validate at the boundary so pricing can assume well-formed input
	if err := validateInput(input); err != nil {
		log.Warn("checkout rejected", zap.Error(err))
		return nil, err
	}

	// 2. Fresh pricing snapshot per request, never cached
	cfg, err := s.prices.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	var promo *pricing.Promo
	if input.DiscountCode != "" {
		promo, err = s.prices.FindPromo(ctx, input.DiscountCode)
		if err != nil {
			return nil, err
		}
	}

	// 3. Compute totals once; they are frozen onto the order
	totals := pricing.ComputeOrderTotals(cfg, input.PackageType, input.Cart, input.LifestyleIncluded, promo)

	o := &order.Order{
		Email:             input.Email,
		CustomerName:      input.CustomerName,
		Phone:             input.Phone,
		Company:           input.Company,
		ProductName:       input.ProductName,
		Notes:             input.Notes,
		PackageType:       input.PackageType,
		Cart:              input.Cart,
		LifestyleIncluded: input.LifestyleIncluded,
		Totals:            totals,
		DiscountCode:      input.DiscountCode,
		Status:            order.StatusPendingPayment,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	log = log.With(
		zap.String("tracking_number", o.TrackingNumber),
		zap.Int64("total", totals.Total),
	)
	log.Info("order created, initiating payment session")

	return s.initiateSession(ctx, log, o, cfg.Currency)
}

func (s *service) RetrySession(ctx context.Context, orderID uuid.UUID) (*StartResult, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusPendingPayment {
		return nil, ErrNotAwaitingPayment
	}

	log := logger.FromCtx(ctx).With(zap.String("tracking_number", o.TrackingNumber))
	log.Info("retrying payment session creation")

	cfg, err := s.prices.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s.initiateSession(ctx, log, o, cfg.Currency)
}

// initiateSession opens the provider session for exactly the frozen total
// and persists the session reference onto the order row before returning.
// The order row, not the HTTP response, is the source of truth if we crash
// in between.
func (s *service) initiateSession(ctx context.Context, log *zap.Logger, o *order.Order, currency string) (*StartResult, error) {
	sess, err := s.gate.CreateCheckoutSession(ctx, payment.SessionRequest{
		ReferenceID: o.TrackingNumber,
		Email:       o.Email,
		Description: sessionDescription(o),
		Currency:    currency,
		AmountCents: o.Totals.Total * 100,
	})
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			return nil, err
		}
		// The order stays in pending_payment with no session ref, so the
		// caller retries session creation instead of re-ordering.
		log.Error("payment session creation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if _, err := s.orders.Update(ctx, o.ID, order.Patch{ProviderSessionRef: &sess.ID}); err != nil {
		log.Error("failed to persist session ref",
			zap.String("session_ref", sess.ID), zap.Error(err))
		return nil, err
	}

	return &StartResult{
		OrderID:        o.ID,
		TrackingNumber: o.TrackingNumber,
		SessionRef:     sess.ID,
		PaymentURL:     sess.PaymentURL,
		Totals:         o.Totals,
	}, nil
}

func (s *service) ConfirmCheckout(ctx context.Context, sessionRef string, outcome Outcome) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("session_ref", sessionRef),
		zap.Bool("succeeded", outcome.Succeeded),
	)

	o, err := s.orders.GetByProviderSession(ctx, sessionRef)
	if err != nil {
		return nil, err
	}

	// Redelivered webhook for an already settled order: no-op success,
	// never a duplicate ledger row.
	if o.Status != order.StatusPendingPayment {
		log.Info("session already settled, skipping",
			zap.String("status", string(o.Status)))
		return o, nil
	}

	txn := &ledger.Transaction{
		OrderID:       o.ID,
		Type:          ledger.TypeCharge,
		Provider:      ledger.ProviderStripe,
		ProviderTxnID: outcome.ProviderPaymentID,
		AmountCents:   o.Totals.Total * 100,
	}

	to := order.StatusPaid
	paymentRef := outcome.ProviderPaymentID
	if outcome.Succeeded {
		txn.Status = ledger.StatusSucceeded
	} else {
		txn.Status = ledger.StatusFailed
		txn.ErrorCode = outcome.ErrorCode
		txn.ErrorMessage = outcome.ErrorMessage
		to = order.StatusPaymentFailed
		paymentRef = ""
	}

	settled, err := s.ledgerRepo.SettlePayment(ctx, o.ID, to, paymentRef, txn)
	if err != nil {
		return nil, err
	}
	if !settled {
		// Lost the race against a concurrent delivery of the same event.
		log.Info("order settled concurrently, skipping")
	} else {
		log.Info("payment settled", zap.String("status", string(to)))
	}

	return s.orders.GetByID(ctx, o.ID)
}

func validateInput(input CheckoutInput) error {
	if !emailRe.MatchString(input.Email) {
		return ErrEmailRequired
	}
	if len(input.Cart) == 0 {
		return ErrEmptyCart
	}
	if !input.PackageType.Valid() {
		return ErrInvalidPackage
	}
	for _, item := range input.Cart {
		if item.Style == "" {
			return ErrInvalidCart
		}
	}
	return nil
}

func sessionDescription(o *order.Order) string {
	if o.ProductName != "" {
		return fmt.Sprintf("Product photography: %s (%s)", o.ProductName, o.PackageType)
	}
	return fmt.Sprintf("Product photography (%s)", o.PackageType)
}
