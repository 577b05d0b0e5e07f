package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Product DTOs
// =============================================================================

// CreateProductRequest creates a product for the authenticated seller
type CreateProductRequest struct {
	Title             string          `json:"title" binding:"required,min=1,max=200"`
	Description       string          `json:"description"`
	Status            string          `json:"status" binding:"omitempty,oneof=draft proposed"`
	TypeID            *uuid.UUID      `json:"type_id"`
	CategoryID        *uuid.UUID      `json:"category_id"`
	Thumbnail         string          `json:"thumbnail" binding:"max=1000"`
	CurrencyCode      string          `json:"currency_code" binding:"required,len=3"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int             `json:"inventory_quantity" binding:"min=0"`
}

// UpdateProductRequest is a partial product update. Vendors may only move a
// product between draft and proposed.
type UpdateProductRequest struct {
	Title             *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description       *string          `json:"description"`
	Status            *string          `json:"status" binding:"omitempty,oneof=draft proposed"`
	TypeID            *uuid.UUID       `json:"type_id"`
	CategoryID        *uuid.UUID       `json:"category_id"`
	Thumbnail         *string          `json:"thumbnail" binding:"omitempty,max=1000"`
	CurrencyCode      *string          `json:"currency_code" binding:"omitempty,len=3"`
	Price             *decimal.Decimal `json:"price"`
	InventoryQuantity *int             `json:"inventory_quantity" binding:"omitempty,min=0"`
}

// ReviewProductRequest is the admin decision on a proposed product
type ReviewProductRequest struct {
	Status string `json:"status" binding:"required,oneof=published rejected draft"`
	Reason string `json:"reason" binding:"max=500"`
}

// ProductListFilter filters product lists
type ProductListFilter struct {
	SellerID   string `form:"seller_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=draft proposed published rejected"`
	TypeID     string `form:"type_id" binding:"omitempty,uuid"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
}

// ProductResponse is the API view of a product
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	SellerID          uuid.UUID       `json:"seller_id"`
	Title             string          `json:"title"`
	Handle            string          `json:"handle"`
	Description       string          `json:"description"`
	Status            string          `json:"status"`
	TypeID            *uuid.UUID      `json:"type_id"`
	CategoryID        *uuid.UUID      `json:"category_id"`
	Thumbnail         string          `json:"thumbnail"`
	CurrencyCode      string          `json:"currency_code"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int             `json:"inventory_quantity"`
	RejectionReason   string          `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		SellerID:          p.SellerID,
		Title:             p.Title,
		Handle:            p.Handle,
		Description:       p.Description,
		Status:            p.Status.String(),
		TypeID:            p.TypeID,
		CategoryID:        p.CategoryID,
		Thumbnail:         p.Thumbnail,
		CurrencyCode:      p.CurrencyCode,
		Price:             p.Price,
		InventoryQuantity: p.InventoryQuantity,
		RejectionReason:   p.RejectionReason,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// =============================================================================
// Product type and category DTOs
// =============================================================================

// ProductTypeRequest creates or renames a product type
type ProductTypeRequest struct {
	Value string `json:"value" binding:"required,min=1,max=100"`
}

// ProductTypeResponse is the API view of a product type
type ProductTypeResponse struct {
	ID        uuid.UUID `json:"id"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToProductTypeResponse converts a domain product type
func ToProductTypeResponse(t *catalog.ProductType) ProductTypeResponse {
	return ProductTypeResponse{ID: t.ID, Value: t.Value, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

// CreateCategoryRequest creates a product category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Handle      string     `json:"handle" binding:"max=100"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Rank        int        `json:"rank"`
	IsActive    *bool      `json:"is_active"`
}

// UpdateCategoryRequest is a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Rank        *int    `json:"rank"`
	IsActive    *bool   `json:"is_active"`
}

// CategoryListFilter filters the category list
type CategoryListFilter struct {
	ParentID string `form:"parent_id"` // a category id, or "null" for root categories
	IsActive *bool  `form:"is_active"`
}

// CategoryResponse is the API view of a product category
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Handle      string     `json:"handle"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Level       int        `json:"level"`
	Rank        int        `json:"rank"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *catalog.ProductCategory) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Handle:      c.Handle,
		Description: c.Description,
		ParentID:    c.ParentID,
		Level:       c.Level,
		Rank:        c.Rank,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
