package wishlist

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for wishlists
type Repository interface {
	// FindByCustomer returns shared.ErrNotFound when the customer has no wishlist yet
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*Wishlist, error)
	Save(ctx context.Context, wishlist *Wishlist) error
}
