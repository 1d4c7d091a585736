package commerce

import "errors"

// Every failure the engine reports to callers wraps one of these.
var (
	ErrValidation          = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("authentication required")
	ErrForbidden           = errors.New("not allowed")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrOutOfStock          = errors.New("product is out of stock")
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrMissingShippingInfo = errors.New("shipping information is missing")
	ErrPaymentFailed       = errors.New("payment failed")
	ErrDuplicatePayment    = errors.New("payment session already used by another order")
	ErrCartChanged         = errors.New("cart changed during checkout")
)

// IsConflict reports whether err should be surfaced as a conflict with the
// current state rather than as bad input.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicatePayment) ||
		errors.Is(err, ErrCartChanged) ||
		errors.Is(err, ErrAlreadyExists)
}
