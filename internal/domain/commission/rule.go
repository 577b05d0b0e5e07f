package commission

import (
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReferenceType is what a commission rule is attached to
type ReferenceType string

const (
	ReferenceSite                  ReferenceType = "site"
	ReferenceSeller                ReferenceType = "seller"
	ReferenceProductType           ReferenceType = "product_type"
	ReferenceProductCategory       ReferenceType = "product_category"
	ReferenceSellerProductType     ReferenceType = "seller+product_type"
	ReferenceSellerProductCategory ReferenceType = "seller+product_category"
)

// Precedence lists reference types from most to least specific
var Precedence = []ReferenceType{
	ReferenceSellerProductCategory,
	ReferenceSellerProductType,
	ReferenceSeller,
	ReferenceProductCategory,
	ReferenceProductType,
	ReferenceSite,
}

// IsValid checks if the reference type is known
func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferenceSite, ReferenceSeller, ReferenceProductType, ReferenceProductCategory,
		ReferenceSellerProductType, ReferenceSellerProductCategory:
		return true
	}
	return false
}

// IsCombined reports whether the reference id holds a seller and a second id
func (r ReferenceType) IsCombined() bool {
	return r == ReferenceSellerProductType || r == ReferenceSellerProductCategory
}

// ComposeReferenceID builds the reference id of a combined rule
func ComposeReferenceID(sellerID, otherID uuid.UUID) string {
	return sellerID.String() + ":" + otherID.String()
}

// ParsedReference is a reference id split into its parts
type ParsedReference struct {
	SellerID   *uuid.UUID
	TypeID     *uuid.UUID
	CategoryID *uuid.UUID
}

// ParseReference validates the reference id for the type and splits it
func ParseReference(ref ReferenceType, referenceID string) (ParsedReference, error) {
	var parsed ParsedReference
	referenceID = strings.TrimSpace(referenceID)

	parseOne := func(raw string) (*uuid.UUID, error) {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, shared.InvalidArgument("Invalid reference_id %q for reference %s", referenceID, ref)
		}
		return &id, nil
	}

	switch ref {
	case ReferenceSite:
		if referenceID != "" {
			return parsed, shared.InvalidArgument("Site commission rules cannot have a reference_id")
		}
		return parsed, nil
	case ReferenceSeller, ReferenceProductType, ReferenceProductCategory:
		id, err := parseOne(referenceID)
		if err != nil {
			return parsed, err
		}
		switch ref {
		case ReferenceSeller:
			parsed.SellerID = id
		case ReferenceProductType:
			parsed.TypeID = id
		default:
			parsed.CategoryID = id
		}
		return parsed, nil
	case ReferenceSellerProductType, ReferenceSellerProductCategory:
		sellerRaw, otherRaw, ok := strings.Cut(referenceID, ":")
		if !ok {
			return parsed, shared.InvalidArgument("Reference %s requires reference_id in the form <seller_id>:<id>", ref)
		}
		sellerID, err := parseOne(sellerRaw)
		if err != nil {
			return parsed, err
		}
		otherID, err := parseOne(otherRaw)
		if err != nil {
			return parsed, err
		}
		parsed.SellerID = sellerID
		if ref == ReferenceSellerProductType {
			parsed.TypeID = otherID
		} else {
			parsed.CategoryID = otherID
		}
		return parsed, nil
	}
	return parsed, shared.InvalidArgument("Invalid commission reference: %s", ref)
}

// RateType is how a commission amount is computed
type RateType string

const (
	RateTypeFlat       RateType = "flat"
	RateTypePercentage RateType = "percentage"
)

// Rate describes how much commission a rule takes
type Rate struct {
	Type            RateType
	PercentageRate  decimal.Decimal
	IncludeTax      bool
	IncludeShipping bool
	FlatAmounts     valueobject.CurrencyAmounts
	MinAmounts      valueobject.CurrencyAmounts
	MaxAmounts      valueobject.CurrencyAmounts
}

// Validate checks the rate is internally consistent
func (r Rate) Validate() error {
	switch r.Type {
	case RateTypePercentage:
		if r.PercentageRate.IsNegative() || r.PercentageRate.GreaterThan(decimal.NewFromInt(100)) {
			return shared.InvalidArgument("percentage_rate must be between 0 and 100")
		}
	case RateTypeFlat:
		if len(r.FlatAmounts) == 0 {
			return shared.InvalidArgument("Flat commission rates require at least one amount")
		}
	default:
		return shared.InvalidArgument("Invalid commission rate type: %s", r.Type)
	}
	for name, amounts := range map[string]valueobject.CurrencyAmounts{
		"flat_amounts": r.FlatAmounts, "min_amounts": r.MinAmounts, "max_amounts": r.MaxAmounts,
	} {
		if err := amounts.Validate(); err != nil {
			return shared.InvalidArgument("Invalid %s: %v", name, err)
		}
	}
	for _, lower := range r.MinAmounts {
		if upper, ok := r.MaxAmounts.For(lower.CurrencyCode); ok && upper.LessThan(lower.Amount) {
			return shared.InvalidArgument("Maximum commission for %s is below the minimum", lower.CurrencyCode)
		}
	}
	return nil
}

// Rule assigns a commission rate to a reference
type Rule struct {
	shared.BaseAggregateRoot
	Name        string
	Reference   ReferenceType
	ReferenceID string
	IsActive    bool
	Rate        Rate
}

// NewRule creates an active commission rule
func NewRule(name string, ref ReferenceType, referenceID string, rate Rate) (*Rule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidArgument("Commission rule name is required")
	}
	if !ref.IsValid() {
		return nil, shared.InvalidArgument("Invalid commission reference: %s", ref)
	}
	if _, err := ParseReference(ref, referenceID); err != nil {
		return nil, err
	}
	if err := rate.Validate(); err != nil {
		return nil, err
	}
	r := &Rule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Reference:         ref,
		ReferenceID:       strings.TrimSpace(referenceID),
		IsActive:          true,
		Rate:              rate,
	}
	return r, nil
}

// RuleUpdate carries optional rule changes. The reference cannot change.
type RuleUpdate struct {
	Name     *string
	IsActive *bool
	Rate     *Rate
}

// Update applies a partial update to the rule
func (r *Rule) Update(u RuleUpdate) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return shared.InvalidArgument("Commission rule name cannot be empty")
		}
		r.Name = name
	}
	if u.Rate != nil {
		if err := u.Rate.Validate(); err != nil {
			return err
		}
		r.Rate = *u.Rate
	}
	if u.IsActive != nil {
		r.IsActive = *u.IsActive
	}
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Code is the short identifier stored on commission lines
func (r *Rule) Code() string {
	if code := shared.Slugify(r.Name); code != "" {
		return code
	}
	return string(r.Reference)
}
