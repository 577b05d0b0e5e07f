package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/commission"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionRuleModel is the persistence model for commission rules. The
// rate is stored inline on the rule row.
type CommissionRuleModel struct {
	AggregateModel
	Name            string                      `gorm:"type:varchar(200);not null"`
	Reference       commission.ReferenceType    `gorm:"type:varchar(40);not null;index:idx_commission_rule_reference,priority:1"`
	ReferenceID     string                      `gorm:"type:varchar(100);not null;index:idx_commission_rule_reference,priority:2"`
	IsActive        bool                        `gorm:"not null;index"`
	RateType        commission.RateType         `gorm:"type:varchar(20);not null"`
	PercentageRate  decimal.Decimal             `gorm:"type:decimal(9,4);not null;default:0"`
	IncludeTax      bool                        `gorm:"not null;default:false"`
	IncludeShipping bool                        `gorm:"not null;default:false"`
	FlatAmounts     valueobject.CurrencyAmounts `gorm:"type:jsonb;serializer:json"`
	MinAmounts      valueobject.CurrencyAmounts `gorm:"type:jsonb;serializer:json"`
	MaxAmounts      valueobject.CurrencyAmounts `gorm:"type:jsonb;serializer:json"`
	DeletedAt       gorm.DeletedAt              `gorm:"index"`
}

// TableName returns the table name for GORM
func (CommissionRuleModel) TableName() string {
	return "commission_rules"
}

// ToDomain converts the persistence model to a domain Rule
func (m *CommissionRuleModel) ToDomain() *commission.Rule {
	return &commission.Rule{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Reference:         m.Reference,
		ReferenceID:       m.ReferenceID,
		IsActive:          m.IsActive,
		Rate: commission.Rate{
			Type:            m.RateType,
			PercentageRate:  m.PercentageRate,
			IncludeTax:      m.IncludeTax,
			IncludeShipping: m.IncludeShipping,
			FlatAmounts:     m.FlatAmounts,
			MinAmounts:      m.MinAmounts,
			MaxAmounts:      m.MaxAmounts,
		},
	}
}

// CommissionRuleModelFromDomain creates a persistence model from a domain Rule
func CommissionRuleModelFromDomain(r *commission.Rule) *CommissionRuleModel {
	m := &CommissionRuleModel{
		Name:            r.Name,
		Reference:       r.Reference,
		ReferenceID:     r.ReferenceID,
		IsActive:        r.IsActive,
		RateType:        r.Rate.Type,
		PercentageRate:  r.Rate.PercentageRate,
		IncludeTax:      r.Rate.IncludeTax,
		IncludeShipping: r.Rate.IncludeShipping,
		FlatAmounts:     r.Rate.FlatAmounts,
		MinAmounts:      r.Rate.MinAmounts,
		MaxAmounts:      r.Rate.MaxAmounts,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}

// CommissionLineModel is one computed commission for an order line or
// the order shipping
type CommissionLineModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_commission_line_item,priority:1"`
	SellerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemLineID   string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_commission_line_item,priority:2"`
	RuleID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code         string          `gorm:"type:varchar(100);not null"`
	CurrencyCode string          `gorm:"type:varchar(3);not null"`
	Value        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CommissionLineModel) TableName() string {
	return "commission_lines"
}

// ToDomain converts the persistence model to a domain Line
func (m *CommissionLineModel) ToDomain() *commission.Line {
	return &commission.Line{
		ID:           m.ID,
		OrderID:      m.OrderID,
		SellerID:     m.SellerID,
		ItemLineID:   m.ItemLineID,
		RuleID:       m.RuleID,
		Code:         m.Code,
		CurrencyCode: m.CurrencyCode,
		Value:        m.Value,
		CreatedAt:    m.CreatedAt,
	}
}

// CommissionLineModelFromDomain creates a persistence model from a domain Line
func CommissionLineModelFromDomain(l *commission.Line) *CommissionLineModel {
	return &CommissionLineModel{
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
