package cart

import "github.com/pkg/errors"

var (
	// ErrInvalidQuantity is returned by UpdateQuantity for quantities below one.
	// The cart is left untouched.
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")

	// ErrCorruptSnapshot marks a persisted slot that could not be decoded.
	// Hydrate treats it as an empty cart.
	ErrCorruptSnapshot = errors.New("cart: corrupt snapshot")
)
