package shipping

import (
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProfileType distinguishes the seller's default profile from custom ones
type ProfileType string

const (
	ProfileTypeDefault ProfileType = "default"
	ProfileTypeCustom  ProfileType = "custom"
)

// DefaultProfileName is the name of the profile created with every seller
const DefaultProfileName = "Default Shipping Profile"

// ShippingProfile groups the shipping options a seller offers
type ShippingProfile struct {
	shared.SellerAggregateRoot
	Name string
	Type ProfileType
}

// NewShippingProfile creates a custom shipping profile
func NewShippingProfile(sellerID uuid.UUID, name string) (*ShippingProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidArgument("Shipping profile name is required")
	}
	return &ShippingProfile{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		Name:                name,
		Type:                ProfileTypeCustom,
	}, nil
}

// NewDefaultShippingProfile creates the default profile of a new seller
func NewDefaultShippingProfile(sellerID uuid.UUID) *ShippingProfile {
	return &ShippingProfile{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		Name:                DefaultProfileName,
		Type:                ProfileTypeDefault,
	}
}

// Rename changes the profile name
func (p *ShippingProfile) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.InvalidArgument("Shipping profile name cannot be empty")
	}
	p.Name = name
	p.Touch()
	p.IncrementVersion()
	return nil
}

// EnsureDeletable checks the profile can be removed given its option count
func (p *ShippingProfile) EnsureDeletable(optionCount int64) error {
	if p.Type == ProfileTypeDefault {
		return shared.NotAllowed("The default shipping profile cannot be deleted")
	}
	if optionCount > 0 {
		return shared.NotAllowed("Shipping profile %s still has %d shipping options", p.Name, optionCount)
	}
	return nil
}

// PriceType of a shipping option. Only flat rates are supported.
type PriceType string

const PriceTypeFlat PriceType = "flat"

// ShippingOption is a priced delivery method offered by a seller
type ShippingOption struct {
	shared.SellerAggregateRoot
	ShippingProfileID uuid.UUID
	Name              string
	PriceType         PriceType
	Amount            decimal.Decimal
	CurrencyCode      string
}

// NewShippingOption creates a flat-rate shipping option within a profile
func NewShippingOption(profile *ShippingProfile, name, currency string, amount decimal.Decimal) (*ShippingOption, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidArgument("Shipping option name is required")
	}
	money, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return nil, shared.InvalidArgument("Invalid shipping option price: %v", err)
	}
	if amount.IsNegative() {
		return nil, shared.InvalidArgument("Shipping option amount cannot be negative")
	}
	return &ShippingOption{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(profile.SellerID),
		ShippingProfileID:   profile.ID,
		Name:                name,
		PriceType:           PriceTypeFlat,
		Amount:              money.Round().Amount(),
		CurrencyCode:        money.Currency(),
	}, nil
}

// ShippingOptionUpdate carries optional option changes
type ShippingOptionUpdate struct {
	Name   *string
	Amount *decimal.Decimal
}

// Update applies a partial update to the option
func (o *ShippingOption) Update(u ShippingOptionUpdate) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return shared.InvalidArgument("Shipping option name cannot be empty")
		}
		o.Name = name
	}
	if u.Amount != nil {
		if u.Amount.IsNegative() {
			return shared.InvalidArgument("Shipping option amount cannot be negative")
		}
		o.Amount = valueobject.RoundAmount(*u.Amount)
	}
	o.Touch()
	o.IncrementVersion()
	return nil
}
