package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the review status of a product
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusProposed  ProductStatus = "proposed"  // Waiting for marketplace review
	ProductStatusPublished ProductStatus = "published" // Visible in the storefront
	ProductStatusRejected  ProductStatus = "rejected"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusProposed, ProductStatusPublished, ProductStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ProductStatus) CanTransitionTo(target ProductStatus) bool {
	switch s {
	case ProductStatusDraft:
		return target == ProductStatusProposed
	case ProductStatusProposed:
		return target == ProductStatusPublished || target == ProductStatusRejected || target == ProductStatusDraft
	case ProductStatusPublished:
		return target == ProductStatusDraft
	case ProductStatusRejected:
		return target == ProductStatusDraft || target == ProductStatusProposed
	}
	return false
}

// Product is an item offered by a seller
type Product struct {
	shared.SellerAggregateRoot
	Title             string
	Handle            string
	Description       string
	Status            ProductStatus
	TypeID            *uuid.UUID
	CategoryID        *uuid.UUID
	Thumbnail         string
	CurrencyCode      string
	Price             decimal.Decimal
	InventoryQuantity int
	RejectionReason   string
}

// NewProduct creates a draft product for a seller
func NewProduct(sellerID uuid.UUID, title, currencyCode string, price decimal.Decimal) (*Product, error) {
	if sellerID == uuid.Nil {
		return nil, shared.InvalidArgument("Seller ID is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.InvalidArgument("Product title is required")
	}
	if len(title) > 200 {
		return nil, shared.InvalidArgument("Product title cannot exceed 200 characters")
	}
	if err := validatePrice(currencyCode, price); err != nil {
		return nil, err
	}

	p := &Product{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		Title:               title,
		Status:              ProductStatusDraft,
		CurrencyCode:        strings.ToLower(currencyCode),
		Price:               price,
	}
	p.Handle = productHandle(title, sellerID)
	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// Handles are global in the storefront, so they embed a short seller prefix
func productHandle(title string, sellerID uuid.UUID) string {
	return fmt.Sprintf("%s-%s", shared.Slugify(title), sellerID.String()[:8])
}

// RenumberHandle suffixes the handle with n, for a seller listing two
// products under the same title
func (p *Product) RenumberHandle(n int) {
	p.Handle = fmt.Sprintf("%s-%d", productHandle(p.Title, p.SellerID), n)
	p.Touch()
}

// ProductUpdate carries optional product changes
type ProductUpdate struct {
	Title             *string
	Description       *string
	TypeID            *uuid.UUID
	CategoryID        *uuid.UUID
	Thumbnail         *string
	CurrencyCode      *string
	Price             *decimal.Decimal
	InventoryQuantity *int
}

// Update applies a partial update to the product
func (p *Product) Update(u ProductUpdate) error {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return shared.InvalidArgument("Product title cannot be empty")
		}
		p.Title = title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.TypeID != nil {
		p.TypeID = u.TypeID
	}
	if u.CategoryID != nil {
		p.CategoryID = u.CategoryID
	}
	if u.Thumbnail != nil {
		p.Thumbnail = *u.Thumbnail
	}
	if u.CurrencyCode != nil || u.Price != nil {
		currency, price := p.CurrencyCode, p.Price
		if u.CurrencyCode != nil {
			currency = strings.ToLower(*u.CurrencyCode)
		}
		if u.Price != nil {
			price = *u.Price
		}
		if err := validatePrice(currency, price); err != nil {
			return err
		}
		p.CurrencyCode, p.Price = currency, price
	}
	if u.InventoryQuantity != nil {
		if *u.InventoryQuantity < 0 {
			return shared.InvalidArgument("Inventory quantity cannot be negative")
		}
		p.InventoryQuantity = *u.InventoryQuantity
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// ChangeStatus moves the product through the review workflow
func (p *Product) ChangeStatus(target ProductStatus, reason string) error {
	if !target.IsValid() {
		return shared.InvalidArgument("Invalid product status: %s", target)
	}
	if !p.Status.CanTransitionTo(target) {
		return shared.NotAllowed("Cannot change product status from %s to %s", p.Status, target)
	}
	previous := p.Status
	p.Status = target
	if target == ProductStatusRejected {
		p.RejectionReason = reason
	} else {
		p.RejectionReason = ""
	}
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductStatusChangedEvent(p, previous))
	return nil
}

// ReserveStock decrements inventory for a purchase
func (p *Product) ReserveStock(quantity int) error {
	if quantity <= 0 {
		return shared.InvalidArgument("Quantity must be positive")
	}
	if p.InventoryQuantity < quantity {
		return shared.NotAllowed("Insufficient inventory for product %s: requested %d, available %d",
			p.Title, quantity, p.InventoryQuantity)
	}
	p.InventoryQuantity -= quantity
	p.Touch()
	p.IncrementVersion()
	return nil
}

// RestoreStock returns inventory after a refund or cancellation
func (p *Product) RestoreStock(quantity int) {
	if quantity <= 0 {
		return
	}
	p.InventoryQuantity += quantity
	p.Touch()
	p.IncrementVersion()
}

// IsPublished returns true when the product is visible in the storefront
func (p *Product) IsPublished() bool {
	return p.Status == ProductStatusPublished
}

func validatePrice(currencyCode string, price decimal.Decimal) error {
	if len(currencyCode) != 3 {
		return shared.InvalidArgument("Currency code must be a 3-letter ISO 4217 code")
	}
	if price.IsNegative() {
		return shared.InvalidArgument("Price cannot be negative")
	}
	return nil
}
