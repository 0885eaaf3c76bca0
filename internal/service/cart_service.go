package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/siddharth-200231/ADProject/internal/account"
	"github.com/siddharth-200231/ADProject/internal/cache"
	"github.com/siddharth-200231/ADProject/internal/catalog"
	"github.com/siddharth-200231/ADProject/internal/domain"
	"github.com/siddharth-200231/ADProject/internal/events"
	"github.com/siddharth-200231/ADProject/internal/repository"
)

// maxAttempts bounds the optimistic-concurrency retry loop. Contention
// is per cart aggregate, so losing this many times in a row means the
// caller should back off.
const maxAttempts = 5

type CartService struct {
	repo      repository.CartRepository
	cache     cache.CartCache
	catalog   catalog.Store
	accounts  account.Store
	publisher events.Publisher
	sfg       singleflight.Group // prevents cache stampede on reads
}

func NewCartService(
	repo repository.CartRepository,
	cache cache.CartCache,
	catalog catalog.Store,
	accounts account.Store,
	publisher events.Publisher,
) *CartService {
	return &CartService{
		repo:      repo,
		cache:     cache,
		catalog:   catalog,
		accounts:  accounts,
		publisher: publisher,
	}
}

// CreateSession mints an opaque session token. The cart itself is
// created lazily on first access.
func (s *CartService) CreateSession() string {
	return uuid.NewString()
}

// GetCart resolves the owner's cart, creating an empty one if absent.
// Reads are served through the cache; concurrent misses for the same
// owner collapse into one repository round trip.
func (s *CartService) GetCart(ctx context.Context, owner domain.Owner) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(owner.Key(), func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, owner)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // degrade to repository
		}

		cart, err = s.getOrCreateCart(ctx, owner)
		if err != nil {
			return nil, err
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(ctx, owner, cart); err != nil {
				log.Printf("cache set error: %v", err)
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// AddItem adds quantity units of a product to the owner's cart. An
// existing item for the product is incremented; otherwise a new item
// is created. Returns the resulting item with its final quantity.
func (s *CartService) AddItem(ctx context.Context, owner domain.Owner, productID int64, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.catalog.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		cart, err := s.getOrCreateCart(ctx, owner)
		if err != nil {
			return nil, err
		}

		item := cart.UpsertItem(productID, quantity)

		if err := s.repo.Save(ctx, cart); err != nil {
			if errors.Is(err, repository.ErrStaleCart) {
				continue
			}
			return nil, err
		}

		result := *item
		s.invalidate(owner)
		s.publish(events.Event{
			Type:      events.TypeItemAdded,
			OwnerKey:  cart.OwnerKey,
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  result.Quantity,
		})
		return &result, nil
	}
	return nil, ErrTooMuchContention
}

// UpdateItemQuantity sets an item's quantity by item id. A quantity of
// zero or less removes the item and returns a nil item.
func (s *CartService) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*domain.CartItem, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		cart, err := s.findCartByItem(ctx, itemID)
		if err != nil {
			return nil, err
		}

		var result *domain.CartItem
		eventType := events.TypeQuantityUpdated
		if quantity < 1 {
			cart.RemoveItem(itemID)
			eventType = events.TypeItemRemoved
		} else {
			item := cart.FindItem(itemID)
			item.Quantity = quantity
			copied := *item
			result = &copied
		}

		if err := s.repo.Save(ctx, cart); err != nil {
			if errors.Is(err, repository.ErrStaleCart) {
				continue
			}
			return nil, err
		}

		s.invalidate(cart.Owner())
		event := events.Event{
			Type:     eventType,
			OwnerKey: cart.OwnerKey,
			CartID:   cart.ID,
			Quantity: quantity,
		}
		if result != nil {
			event.ProductID = result.ProductID
			event.Quantity = result.Quantity
		}
		s.publish(event)
		return result, nil
	}
	return nil, ErrTooMuchContention
}

// RemoveItem deletes an item by id. A second removal of the same id
// fails with ErrItemNotFound; remove means remove, not ensure-absent.
func (s *CartService) RemoveItem(ctx context.Context, itemID string) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		cart, err := s.findCartByItem(ctx, itemID)
		if err != nil {
			return err
		}

		if !cart.RemoveItem(itemID) {
			return ErrItemNotFound
		}

		if err := s.repo.Save(ctx, cart); err != nil {
			if errors.Is(err, repository.ErrStaleCart) {
				continue
			}
			return err
		}

		s.invalidate(cart.Owner())
		s.publish(events.Event{
			Type:     events.TypeItemRemoved,
			OwnerKey: cart.OwnerKey,
			CartID:   cart.ID,
		})
		return nil
	}
	return ErrTooMuchContention
}

// ClearCart removes every item from the owner's cart. The cart record
// itself survives. Clearing an empty (or absent) cart is not an error.
func (s *CartService) ClearCart(ctx context.Context, owner domain.Owner) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		cart, err := s.getOrCreateCart(ctx, owner)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}

		cart.Clear()
		if err := s.repo.Save(ctx, cart); err != nil {
			if errors.Is(err, repository.ErrStaleCart) {
				continue
			}
			return err
		}

		s.invalidate(owner)
		s.publish(events.Event{
			Type:     events.TypeCartCleared,
			OwnerKey: cart.OwnerKey,
			CartID:   cart.ID,
		})
		return nil
	}
	return ErrTooMuchContention
}

// Merge moves every item from a session cart into a user cart.
// Quantities are summed per product, never overwritten. The session
// cart is deleted in the same transaction that persists the union, so
// no observer sees the items in both carts. A missing session cart is
// treated as empty.
func (s *CartService) Merge(ctx context.Context, sessionID string, userID int64) error {
	sessionOwner := domain.SessionOwner(sessionID)
	userOwner := domain.AccountOwner(userID)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		src, err := s.repo.FindByOwner(ctx, sessionOwner)
		if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
			return err
		}

		dst, err := s.getOrCreateCart(ctx, userOwner)
		if err != nil {
			return err
		}

		if src == nil || len(src.Items) == 0 {
			// Nothing to move; drop the empty session cart if one exists.
			if src != nil {
				if err := s.repo.Delete(ctx, src); err != nil {
					if errors.Is(err, repository.ErrStaleCart) {
						continue
					}
					return err
				}
				s.invalidate(sessionOwner)
			}
			return nil
		}

		dst.MergeFrom(src)

		if err := s.repo.Transfer(ctx, src, dst); err != nil {
			if errors.Is(err, repository.ErrStaleCart) {
				continue
			}
			return err
		}

		s.invalidate(sessionOwner)
		s.invalidate(userOwner)
		s.publish(events.Event{
			Type:     events.TypeCartMerged,
			OwnerKey: dst.OwnerKey,
			CartID:   dst.ID,
		})
		return nil
	}
	return ErrTooMuchContention
}

// getOrCreateCart resolves the unique cart for an owner, creating an
// empty one when absent. The loser of a concurrent first-access race
// detects ErrCartExists and retries as a lookup.
func (s *CartService) getOrCreateCart(ctx context.Context, owner domain.Owner) (*domain.Cart, error) {
	cart, err := s.repo.FindByOwner(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, err
	}

	// A user cart needs a backing account; a session cart does not.
	if owner.IsAccount() {
		if _, err := s.accounts.FindByID(ctx, owner.UserID); err != nil {
			return nil, err
		}
	}

	cart = domain.NewCart(owner)
	err = s.repo.Insert(ctx, cart)
	if errors.Is(err, repository.ErrCartExists) {
		return s.repo.FindByOwner(ctx, owner)
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) findCartByItem(ctx context.Context, itemID string) (*domain.Cart, error) {
	cart, err := s.repo.FindByItemID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return cart, nil
}

func (s *CartService) invalidate(owner domain.Owner) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, owner); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

func (s *CartService) publish(event events.Event) {
	event.OccurredAt = time.Now()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("event publish error (%s): %v", event.Type, err)
		}
	}()
}
