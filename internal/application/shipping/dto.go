package shipping

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Shipping profile DTOs
// =============================================================================

// ShippingProfileRequest creates or renames a shipping profile
type ShippingProfileRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// ShippingProfileFilter filters shipping profile lists
type ShippingProfileFilter struct {
	SellerID string `form:"seller_id" binding:"omitempty,uuid"`
	Type     string `form:"type" binding:"omitempty,oneof=default custom"`
}

// ShippingProfileResponse is the API view of a shipping profile
type ShippingProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	SellerID  uuid.UUID `json:"seller_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToShippingProfileResponse converts a domain shipping profile
func ToShippingProfileResponse(p *shipping.ShippingProfile) ShippingProfileResponse {
	return ShippingProfileResponse{
		ID:        p.ID,
		SellerID:  p.SellerID,
		Name:      p.Name,
		Type:      string(p.Type),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// =============================================================================
// Shipping option DTOs
// =============================================================================

// CreateShippingOptionRequest creates a flat rate shipping option
type CreateShippingOptionRequest struct {
	ShippingProfileID uuid.UUID       `json:"shipping_profile_id" binding:"required"`
	Name              string          `json:"name" binding:"required,min=1,max=100"`
	CurrencyCode      string          `json:"currency_code" binding:"required,len=3"`
	Amount            decimal.Decimal `json:"amount"`
}

// UpdateShippingOptionRequest is a partial shipping option update
type UpdateShippingOptionRequest struct {
	Name   *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Amount *decimal.Decimal `json:"amount"`
}

// ShippingOptionFilter filters shipping option lists
type ShippingOptionFilter struct {
	SellerID          string `form:"seller_id" binding:"omitempty,uuid"`
	ShippingProfileID string `form:"shipping_profile_id" binding:"omitempty,uuid"`
	CurrencyCode      string `form:"currency_code" binding:"omitempty,len=3"`
}

// ShippingOptionResponse is the API view of a shipping option
type ShippingOptionResponse struct {
	ID                uuid.UUID       `json:"id"`
	SellerID          uuid.UUID       `json:"seller_id"`
	ShippingProfileID uuid.UUID       `json:"shipping_profile_id"`
	Name              string          `json:"name"`
	PriceType         string          `json:"price_type"`
	Amount            decimal.Decimal `json:"amount"`
	CurrencyCode      string          `json:"currency_code"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToShippingOptionResponse converts a domain shipping option
func ToShippingOptionResponse(o *shipping.ShippingOption) ShippingOptionResponse {
	return ShippingOptionResponse{
		ID:                o.ID,
		SellerID:          o.SellerID,
		ShippingProfileID: o.ShippingProfileID,
		Name:              o.Name,
		PriceType:         string(o.PriceType),
		Amount:            o.Amount,
		CurrencyCode:      o.CurrencyCode,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}
