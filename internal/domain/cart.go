package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	OwnerKey  string     `bson:"owner_key" json:"-"`
	UserCart  bool       `bson:"user_cart" json:"userCart"`
	UserID    int64      `bson:"user_id,omitempty" json:"userId,omitempty"`
	SessionID string     `bson:"session_id,omitempty" json:"sessionId,omitempty"`
	Items     []CartItem `bson:"items" json:"items"`
	Version   int64      `bson:"version" json:"-"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
}

type CartItem struct {
	ID        string    `bson:"id" json:"id"`
	ProductID int64     `bson:"product_id" json:"productId"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
}

func NewCart(owner Owner) *Cart {
	now := time.Now()
	c := &Cart{
		OwnerKey:  owner.Key(),
		UserCart:  owner.IsAccount(),
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if owner.IsAccount() {
		c.UserID = owner.UserID
	} else {
		c.SessionID = owner.SessionID
	}
	return c
}

func (c *Cart) Owner() Owner {
	if c.UserCart {
		return AccountOwner(c.UserID)
	}
	return SessionOwner(c.SessionID)
}

func (c *Cart) FindItemByProduct(productID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) FindItem(itemID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// UpsertItem adds quantity units of a product. An existing item for
// the product is incremented, never overwritten; otherwise a new item
// is attached. Returns the resulting item.
func (c *Cart) UpsertItem(productID int64, quantity int) *CartItem {
	if item := c.FindItemByProduct(productID); item != nil {
		item.Quantity += quantity
		return item
	}
	c.Items = append(c.Items, CartItem{
		ID:        uuid.NewString(),
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	})
	return &c.Items[len(c.Items)-1]
}

// RemoveItem detaches an item by id. Reports whether the item was
// present.
func (c *Cart) RemoveItem(itemID string) bool {
	for i, item := range c.Items {
		if item.ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// MergeFrom folds another cart's items into this one: quantities are
// summed per product, unseen products become new items with fresh ids.
// The source cart is left untouched; discarding it is the caller's
// responsibility.
func (c *Cart) MergeFrom(src *Cart) {
	for _, item := range src.Items {
		c.UpsertItem(item.ProductID, item.Quantity)
	}
}
