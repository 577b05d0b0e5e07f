package catalog

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeProduct  = "Product"
	AggregateTypeCategory = "ProductCategory"
)

// Catalog domain event types
const (
	EventTypeProductCreated       = "product.created"
	EventTypeProductStatusChanged = "product.status_changed"
	EventTypeCategoryCreated      = "product_category.created"
)

// ProductCreatedEvent is published when a seller creates a product
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SellerID  uuid.UUID `json:"seller_id"`
	Title     string    `json:"title"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SellerID:        p.SellerID,
		Title:           p.Title,
	}
}

// ProductStatusChangedEvent is published on review workflow transitions
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID     `json:"product_id"`
	SellerID       uuid.UUID     `json:"seller_id"`
	PreviousStatus ProductStatus `json:"previous_status"`
	Status         ProductStatus `json:"status"`
}

// NewProductStatusChangedEvent creates a new ProductStatusChangedEvent
func NewProductStatusChangedEvent(p *Product, previous ProductStatus) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStatusChanged, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SellerID:        p.SellerID,
		PreviousStatus:  previous,
		Status:          p.Status,
	}
}

// CategoryCreatedEvent is published when a category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID  `json:"category_id"`
	Name       string     `json:"name"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(c *ProductCategory) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, AggregateTypeCategory, c.ID),
		CategoryID:      c.ID,
		Name:            c.Name,
		ParentID:        c.ParentID,
	}
}
