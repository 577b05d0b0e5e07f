package models

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShippingProfileModel is the persistence model for seller shipping profiles
type ShippingProfileModel struct {
	SellerAggregateModel
	Name      string               `gorm:"type:varchar(200);not null"`
	Type      shipping.ProfileType `gorm:"type:varchar(20);not null"`
	DeletedAt gorm.DeletedAt       `gorm:"index"`
}

// TableName returns the table name for GORM
func (ShippingProfileModel) TableName() string {
	return "shipping_profiles"
}

// ToDomain converts the persistence model to a domain ShippingProfile
func (m *ShippingProfileModel) ToDomain() *shipping.ShippingProfile {
	return &shipping.ShippingProfile{
		SellerAggregateRoot: m.ToSellerAggregateRoot(),
		Name:                m.Name,
		Type:                m.Type,
	}
}

// ShippingProfileModelFromDomain creates a persistence model from a domain ShippingProfile
func ShippingProfileModelFromDomain(p *shipping.ShippingProfile) *ShippingProfileModel {
	m := &ShippingProfileModel{Name: p.Name, Type: p.Type}
	m.FromDomainSellerAggregateRoot(p.SellerAggregateRoot)
	return m
}

// ShippingOptionModel is the persistence model for seller shipping options
type ShippingOptionModel struct {
	SellerAggregateModel
	ShippingProfileID uuid.UUID          `gorm:"type:uuid;not null;index"`
	Name              string             `gorm:"type:varchar(200);not null"`
	PriceType         shipping.PriceType `gorm:"type:varchar(20);not null"`
	Amount            decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	CurrencyCode      string             `gorm:"type:varchar(3);not null"`
	DeletedAt         gorm.DeletedAt     `gorm:"index"`
}

// TableName returns the table name for GORM
func (ShippingOptionModel) TableName() string {
	return "shipping_options"
}

// ToDomain converts the persistence model to a domain ShippingOption
func (m *ShippingOptionModel) ToDomain() *shipping.ShippingOption {
	return &shipping.ShippingOption{
		SellerAggregateRoot: m.ToSellerAggregateRoot(),
		ShippingProfileID:   m.ShippingProfileID,
		Name:                m.Name,
		PriceType:           m.PriceType,
		Amount:              m.Amount,
		CurrencyCode:        m.CurrencyCode,
	}
}

// ShippingOptionModelFromDomain creates a persistence model from a domain ShippingOption
func ShippingOptionModelFromDomain(o *shipping.ShippingOption) *ShippingOptionModel {
	m := &ShippingOptionModel{
		ShippingProfileID: o.ShippingProfileID,
		Name:              o.Name,
		PriceType:         o.PriceType,
		Amount:            o.Amount,
		CurrencyCode:      o.CurrencyCode,
	}
	m.FromDomainSellerAggregateRoot(o.SellerAggregateRoot)
	return m
}
