package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/commission"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Rule DTOs
// =============================================================================

// CurrencyAmountRequest is an amount in one currency
type CurrencyAmountRequest struct {
	CurrencyCode string          `json:"currency_code" binding:"required,len=3"`
	Amount       decimal.Decimal `json:"amount"`
}

// RateRequest describes a commission rate
type RateRequest struct {
	Type            string                  `json:"type" binding:"required,oneof=flat percentage"`
	PercentageRate  decimal.Decimal         `json:"percentage_rate"`
	IncludeTax      bool                    `json:"include_tax"`
	IncludeShipping bool                    `json:"include_shipping"`
	FlatAmounts     []CurrencyAmountRequest `json:"flat_amounts" binding:"omitempty,dive"`
	MinAmounts      []CurrencyAmountRequest `json:"min_amounts" binding:"omitempty,dive"`
	MaxAmounts      []CurrencyAmountRequest `json:"max_amounts" binding:"omitempty,dive"`
}

func (r RateRequest) toDomain() commission.Rate {
	return commission.Rate{
		Type:            commission.RateType(r.Type),
		PercentageRate:  r.PercentageRate,
		IncludeTax:      r.IncludeTax,
		IncludeShipping: r.IncludeShipping,
		FlatAmounts:     toCurrencyAmounts(r.FlatAmounts),
		MinAmounts:      toCurrencyAmounts(r.MinAmounts),
		MaxAmounts:      toCurrencyAmounts(r.MaxAmounts),
	}
}

func toCurrencyAmounts(in []CurrencyAmountRequest) valueobject.CurrencyAmounts {
	out := make(valueobject.CurrencyAmounts, len(in))
	for i, a := range in {
		out[i] = valueobject.CurrencyAmount{CurrencyCode: valueobject.NormalizeCurrency(a.CurrencyCode), Amount: a.Amount}
	}
	return out
}

// CreateRuleRequest creates a commission rule
type CreateRuleRequest struct {
	Name        string      `json:"name" binding:"required,min=1,max=200"`
	Reference   string      `json:"reference" binding:"required,oneof=site seller product_type product_category seller+product_type seller+product_category"`
	ReferenceID string      `json:"reference_id" binding:"max=100"`
	IsActive    *bool       `json:"is_active"`
	Rate        RateRequest `json:"rate" binding:"required"`
}

// UpdateRuleRequest is a partial rule update; the reference is fixed
type UpdateRuleRequest struct {
	Name     *string      `json:"name" binding:"omitempty,min=1,max=200"`
	IsActive *bool        `json:"is_active"`
	Rate     *RateRequest `json:"rate"`
}

// RuleListFilter filters rule lists
type RuleListFilter struct {
	Reference string `form:"reference"`
	IsActive  *bool  `form:"is_active"`
}

// RateResponse is the API view of a commission rate
type RateResponse struct {
	Type            string                      `json:"type"`
	PercentageRate  decimal.Decimal             `json:"percentage_rate"`
	IncludeTax      bool                        `json:"include_tax"`
	IncludeShipping bool                        `json:"include_shipping"`
	FlatAmounts     valueobject.CurrencyAmounts `json:"flat_amounts"`
	MinAmounts      valueobject.CurrencyAmounts `json:"min_amounts"`
	MaxAmounts      valueobject.CurrencyAmounts `json:"max_amounts"`
}

// RuleResponse is the API view of a commission rule
type RuleResponse struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	Reference        string       `json:"reference"`
	ReferenceID      string       `json:"reference_id"`
	ReferenceDisplay string       `json:"reference_display"`
	IsActive         bool         `json:"is_active"`
	Rate             RateResponse `json:"rate"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// ToRuleResponse converts a domain rule with its resolved reference label
func ToRuleResponse(r *commission.Rule, display string) RuleResponse {
	return RuleResponse{
		ID:               r.ID,
		Name:             r.Name,
		Reference:        string(r.Reference),
		ReferenceID:      r.ReferenceID,
		ReferenceDisplay: display,
		IsActive:         r.IsActive,
		Rate: RateResponse{
			Type:            string(r.Rate.Type),
			PercentageRate:  r.Rate.PercentageRate,
			IncludeTax:      r.Rate.IncludeTax,
			IncludeShipping: r.Rate.IncludeShipping,
			FlatAmounts:     nonNil(r.Rate.FlatAmounts),
			MinAmounts:      nonNil(r.Rate.MinAmounts),
			MaxAmounts:      nonNil(r.Rate.MaxAmounts),
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func nonNil(a valueobject.CurrencyAmounts) valueobject.CurrencyAmounts {
	if a == nil {
		return valueobject.CurrencyAmounts{}
	}
	return a
}

// =============================================================================
// Line DTOs
// =============================================================================

// LineListFilter filters commission line lists. Dates accept RFC 3339 or
// YYYY-MM-DD.
type LineListFilter struct {
	SellerID  string `form:"seller_id" binding:"omitempty,uuid"`
	OrderID   string `form:"order_id" binding:"omitempty,uuid"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// LineResponse is the API view of a commission line
type LineResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"order_id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	ItemLineID   string          `json:"item_line_id"`
	RuleID       uuid.UUID       `json:"rule_id"`
	Code         string          `json:"code"`
	CurrencyCode string          `json:"currency_code"`
	Value        decimal.Decimal `json:"value"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToLineResponse converts a domain commission line
func ToLineResponse(l *commission.Line) LineResponse {
	return LineResponse{
		ID:           l.ID,
		OrderID:      l.OrderID,
		SellerID:     l.SellerID,
		ItemLineID:   l.ItemLineID,
		RuleID:       l.RuleID,
		Code:         l.Code,
		CurrencyCode: l.CurrencyCode,
		Value:        l.Value,
		CreatedAt:    l.CreatedAt,
	}
}

// CurrencyTotalResponse is the sum of line values in one currency
type CurrencyTotalResponse struct {
	CurrencyCode string          `json:"currency_code"`
	Total        decimal.Decimal `json:"total"`
}

// LineListResult is a page of commission lines with the aggregate total of
// every line matching the filter
type LineListResult struct {
	shared.ListResult[LineResponse]
	Totals []CurrencyTotalResponse
}
