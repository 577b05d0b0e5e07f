package shipping

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ProfileRepository defines persistence for shipping profiles
type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ShippingProfile, error)
	// FindAll supports filters: seller_id, type
	FindAll(ctx context.Context, filter shared.Filter) ([]ShippingProfile, int64, error)
	ExistsByName(ctx context.Context, sellerID uuid.UUID, name string) (bool, error)
	Save(ctx context.Context, profile *ShippingProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OptionRepository defines persistence for shipping options
type OptionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ShippingOption, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ShippingOption, error)
	// FindAll supports filters: seller_id, shipping_profile_id, currency_code
	FindAll(ctx context.Context, filter shared.Filter) ([]ShippingOption, int64, error)
	CountByProfile(ctx context.Context, profileID uuid.UUID) (int64, error)
	CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)
	Save(ctx context.Context, option *ShippingOption) error
	Delete(ctx context.Context, id uuid.UUID) error
}
