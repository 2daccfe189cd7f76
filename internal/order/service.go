package order

import (
	"context"
	"fmt"

	"snapstudio-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*Order, error)
	ListByEmail(ctx context.Context, email string) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, next Status) (*Order, error)
	AssignDelivery(ctx context.Context, id uuid.UUID, deliveryURL string) (*Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*Order, error) {
	return s.repo.GetByTrackingNumber(ctx, trackingNumber)
}

func (s *service) ListByEmail(ctx context.Context, email string) ([]*Order, error) {
	return s.repo.ListByEmail(ctx, email)
}

func (s *service) ListAll(ctx context.Context) ([]*Order, error) {
	return s.repo.ListAll(ctx)
}

// ChangeStatus applies an admin-driven fulfillment transition. Payment
// transitions (pending_payment to paid/payment_failed) belong to the
// checkout flow, never to this path.
func (s *service) ChangeStatus(ctx context.Context, id uuid.UUID, next Status) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	if next == StatusPaid || next == StatusPaymentFailed {
		return nil, fmt.Errorf("%w: %s is reserved for payment reconciliation", ErrInvalidTransition, next)
	}

	updated, err := s.repo.Update(ctx, id, Patch{Status: &next})
	if err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("tracking_number", updated.TrackingNumber),
		zap.String("status", string(updated.Status)),
	)
	log.Info("order status updated")

	// The updated row is the observable fact an external notifier keys the
	// delivery email off; nothing is sent from here.
	if updated.Status.IsFulfilled() && updated.DeliveryURL != "" {
		log.Info("order fulfilled with delivery url",
			zap.String("delivery_url", updated.DeliveryURL))
	}

	return updated, nil
}

// AssignDelivery sets the deliverables link once. Re-pointing a delivered
// order at a new gallery requires manual intervention, not an API call.
func (s *service) AssignDelivery(ctx context.Context, id uuid.UUID, deliveryURL string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.DeliveryURL != "" {
		return nil, ErrDeliveryAlreadySet
	}

	return s.repo.Update(ctx, id, Patch{DeliveryURL: &deliveryURL})
}
