package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ShippingLineID is the item_line_id of the commission line on shipping
const ShippingLineID = "shipping"

// Line is the commission taken on one order line or on shipping
type Line struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	SellerID     uuid.UUID
	ItemLineID   string
	RuleID       uuid.UUID
	Code         string
	CurrencyCode string
	Value        decimal.Decimal
	CreatedAt    time.Time
}

// RuleSet indexes active rules by reference for line-by-line selection
type RuleSet struct {
	byKey map[string]*Rule
}

func ruleKey(ref ReferenceType, referenceID string) string {
	return string(ref) + "|" + referenceID
}

// NewRuleSet builds a rule set from the active rules in rules
func NewRuleSet(rules []Rule) RuleSet {
	rs := RuleSet{byKey: make(map[string]*Rule, len(rules))}
	for i := range rules {
		if rules[i].IsActive {
			rs.byKey[ruleKey(rules[i].Reference, rules[i].ReferenceID)] = &rules[i]
		}
	}
	return rs
}

// Select returns the most specific rule for a seller's product, or nil.
// Order: seller+category, seller+type, seller, category, type, site.
func (rs RuleSet) Select(sellerID uuid.UUID, typeID, categoryID *uuid.UUID) *Rule {
	for _, ref := range Precedence {
		var referenceID string
		switch ref {
		case ReferenceSellerProductCategory:
			if categoryID == nil {
				continue
			}
			referenceID = ComposeReferenceID(sellerID, *categoryID)
		case ReferenceSellerProductType:
			if typeID == nil {
				continue
			}
			referenceID = ComposeReferenceID(sellerID, *typeID)
		case ReferenceSeller:
			referenceID = sellerID.String()
		case ReferenceProductCategory:
			if categoryID == nil {
				continue
			}
			referenceID = categoryID.String()
		case ReferenceProductType:
			if typeID == nil {
				continue
			}
			referenceID = typeID.String()
		}
		if rule, ok := rs.byKey[ruleKey(ref, referenceID)]; ok {
			return rule
		}
	}
	return nil
}

// ItemInput is an order line as seen by the commission calculator
type ItemInput struct {
	LineItemID    uuid.UUID
	ProductTypeID *uuid.UUID
	CategoryID    *uuid.UUID
	Quantity      int
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
}

// OrderInput is an order as seen by the commission calculator
type OrderInput struct {
	OrderID          uuid.UUID
	SellerID         uuid.UUID
	CurrencyCode     string
	Items            []ItemInput
	ShippingTotal    decimal.Decimal
	ShippingTaxTotal decimal.Decimal
}

// Calculate computes commission lines for an order. Items without an
// applicable rule and zero-valued commissions produce no line. Shipping is
// charged only when the seller or site rule includes shipping; a flat rule
// charges its amount once on shipping.
func Calculate(in OrderInput, rules RuleSet, now time.Time) []Line {
	currency := valueobject.NormalizeCurrency(in.CurrencyCode)
	lines := make([]Line, 0, len(in.Items)+1)

	for _, item := range in.Items {
		rule := rules.Select(in.SellerID, item.ProductTypeID, item.CategoryID)
		if rule == nil {
			continue
		}
		base := item.Subtotal
		if rule.Rate.IncludeTax {
			base = base.Add(item.TaxTotal)
		}
		value := lineValue(rule.Rate, currency, base, item.Quantity)
		if value.IsPositive() {
			lines = append(lines, newLine(in, rule, item.LineItemID.String(), currency, value, now))
		}
	}

	if in.ShippingTotal.IsPositive() {
		if rule := rules.Select(in.SellerID, nil, nil); rule != nil && rule.Rate.IncludeShipping {
			base := in.ShippingTotal
			if rule.Rate.IncludeTax {
				base = base.Add(in.ShippingTaxTotal)
			}
			value := lineValue(rule.Rate, currency, base, 1)
			if value.IsPositive() {
				lines = append(lines, newLine(in, rule, ShippingLineID, currency, value, now))
			}
		}
	}
	return lines
}

func lineValue(rate Rate, currency string, base decimal.Decimal, quantity int) decimal.Decimal {
	var value valueobject.Money
	switch rate.Type {
	case RateTypePercentage:
		value = valueobject.Zero(currency)
		if m, err := valueobject.NewMoney(base, currency); err == nil {
			value = m.Percentage(rate.PercentageRate)
		}
	case RateTypeFlat:
		flat, ok := rate.FlatAmounts.For(currency)
		if !ok {
			return decimal.Zero
		}
		value = valueobject.Zero(currency)
		if m, err := valueobject.NewMoney(flat, currency); err == nil {
			value = m.MultiplyByInt(int64(quantity))
		}
	default:
		return decimal.Zero
	}

	var lower, upper *decimal.Decimal
	if v, ok := rate.MinAmounts.For(currency); ok {
		lower = &v
	}
	if v, ok := rate.MaxAmounts.For(currency); ok {
		upper = &v
	}
	return value.Clamp(lower, upper).Round().Amount()
}

func newLine(in OrderInput, rule *Rule, itemLineID, currency string, value decimal.Decimal, now time.Time) Line {
	return Line{
		ID:           uuid.New(),
		OrderID:      in.OrderID,
		SellerID:     in.SellerID,
		ItemLineID:   itemLineID,
		RuleID:       rule.ID,
		Code:         rule.Code(),
		CurrencyCode: currency,
		Value:        value,
		CreatedAt:    now,
	}
}

// Sum adds the values of lines
func Sum(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Value)
	}
	return total
}
