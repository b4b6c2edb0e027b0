package checkout

import (
	"errors"

	"go-shop-server/internal/pricing"
)

// Request-shape problems. Detected before the transaction opens.
var (
	ErrUserRequired       = errors.New("user ID is required")
	ErrEmptyCart          = errors.New("cart items are required and cannot be empty")
	ErrInvalidCartItem    = errors.New("product ID and a valid quantity are required")
	ErrInvalidPaymentMode = errors.New("invalid payment mode. Must be one of: Credit Card, COD, GCash")
	ErrAddressRequired    = errors.New("either existing address ID or new address information is required")
)

// Domain conflicts. Detected inside the transaction, always before any
// write is visible - the whole transaction rolls back.
var (
	ErrInvalidAddress    = errors.New("invalid address for this user")
	ErrInvalidCurrency   = errors.New("invalid currency code")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is not available")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// IsValidation reports whether err is a malformed-request error (a 400).
func IsValidation(err error) bool {
	for _, e := range []error{
		ErrUserRequired, ErrEmptyCart, ErrInvalidCartItem,
		ErrInvalidPaymentMode, ErrAddressRequired,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// IsDomainConflict reports whether err is a business-rule rejection (a 409).
// These are surfaced verbatim to the caller and never retried.
func IsDomainConflict(err error) bool {
	for _, e := range []error{
		ErrInvalidAddress, ErrInvalidCurrency, ErrProductNotFound,
		ErrProductInactive, ErrInsufficientStock, pricing.ErrCurrencyNotFound,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
