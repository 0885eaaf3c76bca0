package repository

import (
	"context"
	"errors"

	"github.com/siddharth-200231/ADProject/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrCartExists   = errors.New("cart already exists for owner")
	ErrStaleCart    = errors.New("cart was modified concurrently")
)

// CartRepository is the persistence contract for the cart aggregate.
// Consumers define this interface, not the MongoDB implementation.
//
// Insert fails with ErrCartExists when a cart already exists for the
// same owner; Save and Delete are version-checked and fail with
// ErrStaleCart when the aggregate changed underneath the caller.
type CartRepository interface {
	FindByOwner(ctx context.Context, owner domain.Owner) (*domain.Cart, error)
	FindByItemID(ctx context.Context, itemID string) (*domain.Cart, error)
	Insert(ctx context.Context, cart *domain.Cart) error
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, cart *domain.Cart) error
	// Transfer persists dest and deletes source as one transaction.
	Transfer(ctx context.Context, source, dest *domain.Cart) error
}
