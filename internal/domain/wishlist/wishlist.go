package wishlist

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Item is a product saved to a wishlist
type Item struct {
	ProductID uuid.UUID
	CreatedAt time.Time
}

// Wishlist is a customer's list of saved products; one per customer
type Wishlist struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID
	Items      []Item
}

// NewWishlist creates an empty wishlist for a customer
func NewWishlist(customerID uuid.UUID) *Wishlist {
	return &Wishlist{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
	}
}

// Add saves a product. Adding a product already on the list is a no-op
// and returns false.
func (w *Wishlist) Add(productID uuid.UUID, at time.Time) bool {
	if w.Contains(productID) {
		return false
	}
	w.Items = append(w.Items, Item{ProductID: productID, CreatedAt: at})
	w.Touch()
	w.IncrementVersion()
	return true
}

// Remove deletes a product from the list
func (w *Wishlist) Remove(productID uuid.UUID) error {
	idx := slices.IndexFunc(w.Items, func(i Item) bool { return i.ProductID == productID })
	if idx < 0 {
		return shared.NotFound("WishlistItem", productID)
	}
	w.Items = slices.Delete(w.Items, idx, idx+1)
	w.Touch()
	w.IncrementVersion()
	return nil
}

// Contains reports whether the product is on the list
func (w *Wishlist) Contains(productID uuid.UUID) bool {
	return slices.ContainsFunc(w.Items, func(i Item) bool { return i.ProductID == productID })
}

// ProductIDs returns the saved product ids, most recent first
func (w *Wishlist) ProductIDs() []uuid.UUID {
	items := slices.Clone(w.Items)
	slices.SortStableFunc(items, func(a, b Item) int { return b.CreatedAt.Compare(a.CreatedAt) })
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return ids
}
