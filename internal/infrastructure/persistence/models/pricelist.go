package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/pricelist"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceListModel is the persistence model for seller price lists
type PriceListModel struct {
	SellerAggregateModel
	Title       string           `gorm:"type:varchar(255);not null"`
	Description string           `gorm:"type:text"`
	Status      pricelist.Status `gorm:"type:varchar(20);not null;index"`
	Type        pricelist.Type   `gorm:"type:varchar(20);not null"`
	StartsAt    *time.Time       `gorm:"index"`
	EndsAt      *time.Time       `gorm:"index"`
	Prices      []PriceModel     `gorm:"foreignKey:PriceListID;references:ID"`
	DeletedAt   gorm.DeletedAt   `gorm:"index"`
}

// TableName returns the table name for GORM
func (PriceListModel) TableName() string {
	return "price_lists"
}

// ToDomain converts the persistence model to a domain PriceList
func (m *PriceListModel) ToDomain() *pricelist.PriceList {
	pl := &pricelist.PriceList{
		SellerAggregateRoot: m.ToSellerAggregateRoot(),
		Title:               m.Title,
		Description:         m.Description,
		Status:              m.Status,
		Type:                m.Type,
		StartsAt:            m.StartsAt,
		EndsAt:              m.EndsAt,
		Prices:              make([]pricelist.Price, len(m.Prices)),
	}
	for i, p := range m.Prices {
		pl.Prices[i] = p.ToDomain()
	}
	return pl
}

// PriceListModelFromDomain creates a persistence model from a domain PriceList
func PriceListModelFromDomain(pl *pricelist.PriceList) *PriceListModel {
	m := &PriceListModel{
		Title:       pl.Title,
		Description: pl.Description,
		Status:      pl.Status,
		Type:        pl.Type,
		StartsAt:    pl.StartsAt,
		EndsAt:      pl.EndsAt,
		Prices:      make([]PriceModel, len(pl.Prices)),
	}
	m.FromDomainSellerAggregateRoot(pl.SellerAggregateRoot)
	for i, p := range pl.Prices {
		m.Prices[i] = PriceModel{
			ID:           p.ID,
			PriceListID:  pl.ID,
			ProductID:    p.ProductID,
			CurrencyCode: p.CurrencyCode,
			Amount:       p.Amount,
			MinQuantity:  p.MinQuantity,
			MaxQuantity:  p.MaxQuantity,
		}
	}
	return m
}

// PriceModel is one product price inside a price list
type PriceModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PriceListID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrencyCode string          `gorm:"type:varchar(3);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinQuantity  *int
	MaxQuantity  *int
}

// TableName returns the table name for GORM
func (PriceModel) TableName() string {
	return "price_list_prices"
}

// ToDomain converts the persistence model to a domain Price
func (m PriceModel) ToDomain() pricelist.Price {
	return pricelist.Price{
		ID:           m.ID,
		ProductID:    m.ProductID,
		CurrencyCode: m.CurrencyCode,
		Amount:       m.Amount,
		MinQuantity:  m.MinQuantity,
		MaxQuantity:  m.MaxQuantity,
	}
}
