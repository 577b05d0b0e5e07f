package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/wishlist"
)

// WishlistModel is the persistence model for customer wishlists
type WishlistModel struct {
	AggregateModel
	CustomerID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex"`
	Items      []WishlistItemModel `gorm:"foreignKey:WishlistID;references:ID"`
}

// TableName returns the table name for GORM
func (WishlistModel) TableName() string {
	return "wishlists"
}

// ToDomain converts the persistence model to a domain Wishlist
func (m *WishlistModel) ToDomain() *wishlist.Wishlist {
	w := &wishlist.Wishlist{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CustomerID:        m.CustomerID,
	}
	for _, item := range m.Items {
		w.Items = append(w.Items, wishlist.Item{ProductID: item.ProductID, CreatedAt: item.CreatedAt})
	}
	return w
}

// WishlistModelFromDomain creates a persistence model from a domain Wishlist
func WishlistModelFromDomain(w *wishlist.Wishlist) *WishlistModel {
	m := &WishlistModel{
		CustomerID: w.CustomerID,
		Items:      make([]WishlistItemModel, len(w.Items)),
	}
	m.FromDomainAggregateRoot(w.BaseAggregateRoot)
	for i, item := range w.Items {
		m.Items[i] = WishlistItemModel{WishlistID: w.ID, ProductID: item.ProductID, CreatedAt: item.CreatedAt}
	}
	return m
}

// WishlistItemModel is a product saved to a wishlist
type WishlistItemModel struct {
	WishlistID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WishlistItemModel) TableName() string {
	return "wishlist_items"
}
