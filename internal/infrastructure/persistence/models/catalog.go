package models

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	SellerAggregateModel
	Title             string                `gorm:"type:varchar(255);not null"`
	Handle            string                `gorm:"type:varchar(255);not null;uniqueIndex:idx_product_handle,where:deleted_at IS NULL"`
	Description       string                `gorm:"type:text"`
	Status            catalog.ProductStatus `gorm:"type:varchar(20);not null;index"`
	TypeID            *uuid.UUID            `gorm:"type:uuid;index"`
	CategoryID        *uuid.UUID            `gorm:"type:uuid;index"`
	Thumbnail         string                `gorm:"type:varchar(500)"`
	CurrencyCode      string                `gorm:"type:varchar(3);not null"`
	Price             decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	InventoryQuantity int                   `gorm:"not null;default:0"`
	RejectionReason   string                `gorm:"type:text"`
	DeletedAt         gorm.DeletedAt        `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		SellerAggregateRoot: m.ToSellerAggregateRoot(),
		Title:               m.Title,
		Handle:              m.Handle,
		Description:         m.Description,
		Status:              m.Status,
		TypeID:              m.TypeID,
		CategoryID:          m.CategoryID,
		Thumbnail:           m.Thumbnail,
		CurrencyCode:        m.CurrencyCode,
		Price:               m.Price,
		InventoryQuantity:   m.InventoryQuantity,
		RejectionReason:     m.RejectionReason,
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Title:             p.Title,
		Handle:            p.Handle,
		Description:       p.Description,
		Status:            p.Status,
		TypeID:            p.TypeID,
		CategoryID:        p.CategoryID,
		Thumbnail:         p.Thumbnail,
		CurrencyCode:      p.CurrencyCode,
		Price:             p.Price,
		InventoryQuantity: p.InventoryQuantity,
		RejectionReason:   p.RejectionReason,
	}
	m.FromDomainSellerAggregateRoot(p.SellerAggregateRoot)
	return m
}

// ProductTypeModel is the persistence model for product types
type ProductTypeModel struct {
	AggregateModel
	Value     string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_type_value,where:deleted_at IS NULL"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProductTypeModel) TableName() string {
	return "product_types"
}

// ToDomain converts the persistence model to a domain ProductType
func (m *ProductTypeModel) ToDomain() *catalog.ProductType {
	return &catalog.ProductType{BaseAggregateRoot: m.ToAggregateRoot(), Value: m.Value}
}

// ProductTypeModelFromDomain creates a persistence model from a domain ProductType
func ProductTypeModelFromDomain(t *catalog.ProductType) *ProductTypeModel {
	m := &ProductTypeModel{Value: t.Value}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m
}

// ProductCategoryModel is the persistence model for product categories
type ProductCategoryModel struct {
	AggregateModel
	Name        string         `gorm:"type:varchar(200);not null"`
	Handle      string         `gorm:"type:varchar(200);not null;uniqueIndex:idx_product_category_handle,where:deleted_at IS NULL"`
	Description string         `gorm:"type:text"`
	ParentID    *uuid.UUID     `gorm:"type:uuid;index"`
	Path        string         `gorm:"type:varchar(1000);index"`
	Level       int            `gorm:"not null;default:0"`
	Rank        int            `gorm:"not null;default:0"`
	IsActive    bool           `gorm:"not null"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProductCategoryModel) TableName() string {
	return "product_categories"
}

// ToDomain converts the persistence model to a domain ProductCategory
func (m *ProductCategoryModel) ToDomain() *catalog.ProductCategory {
	return &catalog.ProductCategory{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Handle:            m.Handle,
		Description:       m.Description,
		ParentID:          m.ParentID,
		Path:              m.Path,
		Level:             m.Level,
		Rank:              m.Rank,
		IsActive:          m.IsActive,
	}
}

// ProductCategoryModelFromDomain creates a persistence model from a domain ProductCategory
func ProductCategoryModelFromDomain(c *catalog.ProductCategory) *ProductCategoryModel {
	m := &ProductCategoryModel{
		Name:        c.Name,
		Handle:      c.Handle,
		Description: c.Description,
		ParentID:    c.ParentID,
		Path:        c.Path,
		Level:       c.Level,
		Rank:        c.Rank,
		IsActive:    c.IsActive,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
