package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest saves a product to the wishlist
type AddItemRequest struct {
	ReferenceID uuid.UUID `json:"reference_id" binding:"required"`
}

// SellerSummary is the seller shown next to a wishlist product
type SellerSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Handle string    `json:"handle"`
}

// ItemResponse is a saved product with its storefront details
type ItemResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Title        string          `json:"title"`
	Handle       string          `json:"handle"`
	Thumbnail    string          `json:"thumbnail"`
	CurrencyCode string          `json:"currency_code"`
	Price        decimal.Decimal `json:"price"`
	Available    bool            `json:"available"`
	Seller       *SellerSummary  `json:"seller"`
	CreatedAt    time.Time       `json:"created_at"`
}

// WishlistResponse is the API view of a customer's wishlist
type WishlistResponse struct {
	ID         uuid.UUID      `json:"id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	Items      []ItemResponse `json:"products"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
