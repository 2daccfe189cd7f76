package checkout

import "errors"

var (
	// -- Validation & Input --
	ErrEmailRequired  = errors.New("valid email is required")
	ErrEmptyCart      = errors.New("cart must contain at least one item")
	ErrInvalidPackage = errors.New("unknown package type")
	ErrInvalidCart    = errors.New("cart item is missing a style")

	// -- Provider --
	ErrProviderUnavailable = errors.New("payment provider unavailable")

	// -- Resource State --
	ErrNotAwaitingPayment = errors.New("order is not awaiting payment")
)
