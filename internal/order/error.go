package order

import "errors"

var (
	// -- Resource State --
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrDeliveryAlreadySet = errors.New("delivery url already set")

	// -- Validation & Input --
	ErrNothingToUpdate = errors.New("nothing to update")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
