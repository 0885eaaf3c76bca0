package service

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotFound    = errors.New("cart item not found")

	// ErrTooMuchContention surfaces when an operation loses the
	// optimistic-concurrency race more times than we are willing to
	// retry. Callers see it as a conflict, not a corruption.
	ErrTooMuchContention = errors.New("cart is being modified concurrently, try again")
)
