package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ProductRepository defines persistence for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDs loads many products in one query; missing ids are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*Product, error)
	// FindAll supports filters: seller_id, status, type_id, category_id, published_only
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductTypeRepository defines persistence for product types
type ProductTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductType, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductType, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductType, int64, error)
	Save(ctx context.Context, productType *ProductType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines persistence for product categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductCategory, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductCategory, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductCategory, int64, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, category *ProductCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}
