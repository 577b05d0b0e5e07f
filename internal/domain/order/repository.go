package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// OrderRepository defines persistence for seller orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*Order, error)
	FindByOrderSet(ctx context.Context, orderSetID uuid.UUID) ([]Order, error)
	// FindByOrderSets loads the orders of many sets in one query
	FindByOrderSets(ctx context.Context, orderSetIDs []uuid.UUID) ([]Order, error)
	// FindAll supports filters: seller_id, customer_id, status, payment_status, fulfillment_status
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	// FindCompletedWithoutPayout returns completed orders completed before the
	// cutoff that have no payout recorded
	FindCompletedWithoutPayout(ctx context.Context, completedBefore time.Time, limit int) ([]Order, error)
	// FindBySellerBetween returns the seller's orders created in [from, to)
	FindBySellerBetween(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]Order, error)
	NextDisplayID(ctx context.Context) (int64, error)
	Save(ctx context.Context, order *Order) error
}

// OrderSetRepository defines persistence for order sets
type OrderSetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderSet, error)
	FindByIdempotencyKey(ctx context.Context, customerID uuid.UUID, key string) (*OrderSet, error)
	// FindAll supports filters: customer_id
	FindAll(ctx context.Context, filter shared.Filter) ([]OrderSet, int64, error)
	NextDisplayID(ctx context.Context) (int64, error)
	Save(ctx context.Context, set *OrderSet) error
}
