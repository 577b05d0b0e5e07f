package pricelist

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status of a price list
type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusActive
}

// Type of a price list
type Type string

const (
	// TypeSale prices only apply when they are lower than the base price
	TypeSale Type = "sale"
	// TypeOverride prices replace the base price unconditionally
	TypeOverride Type = "override"
)

// IsValid checks if the type is known
func (t Type) IsValid() bool {
	return t == TypeSale || t == TypeOverride
}

// Price is one price row of a price list
type Price struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	CurrencyCode string
	Amount       decimal.Decimal
	MinQuantity  *int
	MaxQuantity  *int
}

// Matches reports whether the row applies to the currency and quantity
func (p Price) Matches(productID uuid.UUID, currency string, quantity int) bool {
	if p.ProductID != productID || p.CurrencyCode != valueobject.NormalizeCurrency(currency) {
		return false
	}
	if p.MinQuantity != nil && quantity < *p.MinQuantity {
		return false
	}
	if p.MaxQuantity != nil && quantity > *p.MaxQuantity {
		return false
	}
	return true
}

// PriceList is a seller-owned set of price overrides or sale prices
type PriceList struct {
	shared.SellerAggregateRoot
	Title       string
	Description string
	Status      Status
	Type        Type
	StartsAt    *time.Time
	EndsAt      *time.Time
	Prices      []Price
}

// NewPriceList creates a draft price list for a seller
func NewPriceList(sellerID uuid.UUID, title string, listType Type) (*PriceList, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.InvalidArgument("Price list title is required")
	}
	if !listType.IsValid() {
		return nil, shared.InvalidArgument("Invalid price list type: %s", listType)
	}
	return &PriceList{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		Title:               title,
		Status:              StatusDraft,
		Type:                listType,
	}, nil
}

// PriceListUpdate carries optional price list changes
type PriceListUpdate struct {
	Title       *string
	Description *string
	Status      *Status
	Type        *Type
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// Update applies a partial update and validates the resulting window
func (l *PriceList) Update(u PriceListUpdate) error {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return shared.InvalidArgument("Price list title cannot be empty")
		}
		l.Title = title
	}
	if u.Description != nil {
		l.Description = *u.Description
	}
	if u.Status != nil {
		if !u.Status.IsValid() {
			return shared.InvalidArgument("Invalid price list status: %s", *u.Status)
		}
		l.Status = *u.Status
	}
	if u.Type != nil {
		if !u.Type.IsValid() {
			return shared.InvalidArgument("Invalid price list type: %s", *u.Type)
		}
		l.Type = *u.Type
	}
	if u.StartsAt != nil {
		l.StartsAt = u.StartsAt
	}
	if u.EndsAt != nil {
		l.EndsAt = u.EndsAt
	}
	if l.StartsAt != nil && l.EndsAt != nil && !l.EndsAt.After(*l.StartsAt) {
		return shared.InvalidArgument("Price list ends_at must be after starts_at")
	}
	l.Touch()
	l.IncrementVersion()
	return nil
}

// AddPrice adds a price row. Callers check the product belongs to the seller.
func (l *PriceList) AddPrice(productID uuid.UUID, currency string, amount decimal.Decimal, minQty, maxQty *int) (*Price, error) {
	currency = valueobject.NormalizeCurrency(currency)
	if len(currency) != 3 {
		return nil, shared.InvalidArgument("Currency code must be a 3-letter ISO 4217 code")
	}
	if amount.IsNegative() {
		return nil, shared.InvalidArgument("Price amount cannot be negative")
	}
	if minQty != nil && *minQty < 1 {
		return nil, shared.InvalidArgument("min_quantity must be at least 1")
	}
	if minQty != nil && maxQty != nil && *maxQty < *minQty {
		return nil, shared.InvalidArgument("max_quantity cannot be less than min_quantity")
	}
	p := Price{
		ID:           uuid.New(),
		ProductID:    productID,
		CurrencyCode: currency,
		Amount:       valueobject.RoundAmount(amount),
		MinQuantity:  minQty,
		MaxQuantity:  maxQty,
	}
	l.Prices = append(l.Prices, p)
	l.Touch()
	l.IncrementVersion()
	return &p, nil
}

// RemovePrice deletes a price row by id
func (l *PriceList) RemovePrice(priceID uuid.UUID) error {
	idx := slices.IndexFunc(l.Prices, func(p Price) bool { return p.ID == priceID })
	if idx < 0 {
		return shared.NotFound("Price", priceID)
	}
	l.Prices = slices.Delete(l.Prices, idx, idx+1)
	l.Touch()
	l.IncrementVersion()
	return nil
}

// IsEffective reports whether the list is active and its window contains now
func (l *PriceList) IsEffective(now time.Time) bool {
	if l.Status != StatusActive {
		return false
	}
	if l.StartsAt != nil && now.Before(*l.StartsAt) {
		return false
	}
	if l.EndsAt != nil && !now.Before(*l.EndsAt) {
		return false
	}
	return true
}

// PriceSource tells where an effective price came from
type PriceSource string

const (
	PriceSourceBase     PriceSource = "base"
	PriceSourceSale     PriceSource = "sale"
	PriceSourceOverride PriceSource = "override"
)

// EffectivePrice is the resolved unit price for a product
type EffectivePrice struct {
	Amount      decimal.Decimal
	Source      PriceSource
	PriceListID *uuid.UUID
}

// ResolvePrice picks the unit price for a product from its base price and the
// seller's price lists. Override prices win (lowest among overrides); otherwise
// the lowest sale price is used when it is below the base price. A base price
// in another currency than the requested one does not compete with sales.
func ResolvePrice(productID uuid.UUID, basePrice decimal.Decimal, baseCurrency, currency string, quantity int, lists []PriceList, now time.Time) EffectivePrice {
	currency = valueobject.NormalizeCurrency(currency)
	var override, sale *EffectivePrice
	for i := range lists {
		l := &lists[i]
		if !l.IsEffective(now) {
			continue
		}
		for _, p := range l.Prices {
			if !p.Matches(productID, currency, quantity) {
				continue
			}
			candidate := EffectivePrice{Amount: p.Amount, PriceListID: &l.ID}
			switch l.Type {
			case TypeOverride:
				if override == nil || p.Amount.LessThan(override.Amount) {
					candidate.Source = PriceSourceOverride
					override = &candidate
				}
			case TypeSale:
				if sale == nil || p.Amount.LessThan(sale.Amount) {
					candidate.Source = PriceSourceSale
					sale = &candidate
				}
			}
		}
	}

	if override != nil {
		return *override
	}
	if sale != nil && (valueobject.NormalizeCurrency(baseCurrency) != currency || sale.Amount.LessThan(basePrice)) {
		return *sale
	}
	return EffectivePrice{Amount: basePrice, Source: PriceSourceBase}
}
