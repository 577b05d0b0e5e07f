package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/wishlist"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWishlistRepository implements wishlist.Repository using GORM
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new GormWishlistRepository
func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// FindByCustomer finds the wishlist of a customer with items newest first
func (r *GormWishlistRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*wishlist.Wishlist, error) {
	var model models.WishlistModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&model, "customer_id = ?", customerID).Error
	if err != nil {
		return nil, notFound(err, "Wishlist", customerID)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a wishlist and replaces its items
func (r *GormWishlistRepository) Save(ctx context.Context, w *wishlist.Wishlist) error {
	model := models.WishlistModelFromDomain(w)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persist(tx, model, w.ID, w.Version); err != nil {
			return err
		}
		return replaceChildren(tx, "wishlist_id", w.ID, model.Items)
	})
}
