package pricelist

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/pricelist"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Price list DTOs
// =============================================================================

// CreatePriceListRequest creates a price list for the authenticated seller
type CreatePriceListRequest struct {
	Title       string         `json:"title" binding:"required,min=1,max=200"`
	Description string         `json:"description"`
	Type        string         `json:"type" binding:"required,oneof=sale override"`
	Status      string         `json:"status" binding:"omitempty,oneof=draft active"`
	StartsAt    *time.Time     `json:"starts_at"`
	EndsAt      *time.Time     `json:"ends_at"`
	Prices      []PriceRequest `json:"prices" binding:"omitempty,dive"`
}

// UpdatePriceListRequest is a partial price list update
type UpdatePriceListRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	Type        *string    `json:"type" binding:"omitempty,oneof=sale override"`
	Status      *string    `json:"status" binding:"omitempty,oneof=draft active"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// PriceRequest adds one price row to a price list
type PriceRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	CurrencyCode string          `json:"currency_code" binding:"required,len=3"`
	Amount       decimal.Decimal `json:"amount"`
	MinQuantity  *int            `json:"min_quantity" binding:"omitempty,min=1"`
	MaxQuantity  *int            `json:"max_quantity" binding:"omitempty,min=1"`
}

// PriceListFilter filters price list lists
type PriceListFilter struct {
	SellerID string `form:"seller_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=draft active"`
	Type     string `form:"type" binding:"omitempty,oneof=sale override"`
}

// PriceResponse is the API view of a price row
type PriceResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	CurrencyCode string          `json:"currency_code"`
	Amount       decimal.Decimal `json:"amount"`
	MinQuantity  *int            `json:"min_quantity"`
	MaxQuantity  *int            `json:"max_quantity"`
}

// PriceListResponse is the API view of a price list
type PriceListResponse struct {
	ID          uuid.UUID       `json:"id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Type        string          `json:"type"`
	StartsAt    *time.Time      `json:"starts_at"`
	EndsAt      *time.Time      `json:"ends_at"`
	Prices      []PriceResponse `json:"prices"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToPriceListResponse converts a domain price list
func ToPriceListResponse(l *pricelist.PriceList) PriceListResponse {
	prices := make([]PriceResponse, len(l.Prices))
	for i, p := range l.Prices {
		prices[i] = PriceResponse{
			ID:           p.ID,
			ProductID:    p.ProductID,
			CurrencyCode: p.CurrencyCode,
			Amount:       p.Amount,
			MinQuantity:  p.MinQuantity,
			MaxQuantity:  p.MaxQuantity,
		}
	}
	return PriceListResponse{
		ID:          l.ID,
		SellerID:    l.SellerID,
		Title:       l.Title,
		Description: l.Description,
		Status:      string(l.Status),
		Type:        string(l.Type),
		StartsAt:    l.StartsAt,
		EndsAt:      l.EndsAt,
		Prices:      prices,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
