package order

import "fmt"

type Status string

const (
	StatusPending        Status = "pending"
	StatusPendingPayment Status = "pending_payment"
	StatusPaid           Status = "paid"
	StatusProcessing     Status = "processing"
	StatusCompleted      Status = "completed"
	StatusShipped        Status = "shipped"
	StatusPaymentFailed  Status = "payment_failed"
)

// transitions is the single source of truth for the order state machine.
// completed and shipped have no exits; refund bookkeeping never changes
// the order status by itself.
var transitions = map[Status][]Status{
	StatusPending:        {StatusPendingPayment, StatusProcessing},
	StatusPendingPayment: {StatusPaid, StatusPaymentFailed},
	StatusPaid:           {StatusProcessing},
	StatusProcessing:     {StatusCompleted, StatusShipped},
	StatusCompleted:      {},
	StatusShipped:        {},
	StatusPaymentFailed:  {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsFulfilled reports whether deliverables are done. Transitioning into a
// fulfilled state with a delivery URL set is what the external notifier
// keys the delivery email off.
func (s Status) IsFulfilled() bool {
	return s == StatusCompleted || s == StatusShipped
}

// IsRefundable reports whether the order has reached a state where a
// succeeded charge can exist.
func (s Status) IsRefundable() bool {
	switch s {
	case StatusPaid, StatusProcessing, StatusCompleted, StatusShipped:
		return true
	}
	return false
}
