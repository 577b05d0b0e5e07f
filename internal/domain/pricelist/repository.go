package pricelist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// PriceListRepository defines persistence for price lists and their prices
type PriceListRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PriceList, error)
	// FindAll supports filters: seller_id, status, type
	FindAll(ctx context.Context, filter shared.Filter) ([]PriceList, int64, error)
	// FindEffectiveForProducts loads active lists within their window at now
	// that contain a price for any of the products
	FindEffectiveForProducts(ctx context.Context, productIDs []uuid.UUID, now time.Time) ([]PriceList, error)
	Save(ctx context.Context, list *PriceList) error
	Delete(ctx context.Context, id uuid.UUID) error
}
