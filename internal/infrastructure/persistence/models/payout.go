package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/shopspring/decimal"
)

// PayoutAccountModel is the persistence model for seller payout accounts
type PayoutAccountModel struct {
	AggregateModel
	SellerID    uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex"`
	Status      payout.AccountStatus `gorm:"type:varchar(20);not null;index"`
	ReferenceID string               `gorm:"type:varchar(100);index"`
	Data        map[string]any       `gorm:"type:jsonb;serializer:json"`
	Context     map[string]any       `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (PayoutAccountModel) TableName() string {
	return "payout_accounts"
}

// ToDomain converts the persistence model to a domain PayoutAccount
func (m *PayoutAccountModel) ToDomain() *payout.PayoutAccount {
	a := &payout.PayoutAccount{
		Status:      m.Status,
		ReferenceID: m.ReferenceID,
		Data:        m.Data,
		Context:     m.Context,
	}
	a.BaseAggregateRoot = m.ToAggregateRoot()
	a.SellerID = m.SellerID
	return a
}

// PayoutAccountModelFromDomain creates a persistence model from a domain PayoutAccount
func PayoutAccountModelFromDomain(a *payout.PayoutAccount) *PayoutAccountModel {
	m := &PayoutAccountModel{
		SellerID:    a.SellerID,
		Status:      a.Status,
		ReferenceID: a.ReferenceID,
		Data:        a.Data,
		Context:     a.Context,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}

// PayoutOnboardingModel stores a provider onboarding link for an account
type PayoutOnboardingModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayoutAccountID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL             string    `gorm:"type:varchar(1000);not null"`
	ExpiresAt       time.Time `gorm:"not null"`
	CreatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PayoutOnboardingModel) TableName() string {
	return "payout_onboardings"
}

// ToDomain converts the persistence model to a domain Onboarding
func (m *PayoutOnboardingModel) ToDomain() *payout.Onboarding {
	return &payout.Onboarding{
		ID:              m.ID,
		PayoutAccountID: m.PayoutAccountID,
		URL:             m.URL,
		ExpiresAt:       m.ExpiresAt,
		CreatedAt:       m.CreatedAt,
	}
}

// PayoutOnboardingModelFromDomain creates a persistence model from a domain Onboarding
func PayoutOnboardingModelFromDomain(o *payout.Onboarding) *PayoutOnboardingModel {
	return &PayoutOnboardingModel{
		ID:              o.ID,
		PayoutAccountID: o.PayoutAccountID,
		URL:             o.URL,
		ExpiresAt:       o.ExpiresAt,
		CreatedAt:       o.CreatedAt,
	}
}

// PayoutModel is the persistence model for the Payout aggregate
type PayoutModel struct {
	SellerAggregateModel
	PayoutAccountID uuid.UUID             `gorm:"type:uuid;not null;index"`
	OrderID         uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex"`
	Amount          decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	CurrencyCode    string                `gorm:"type:varchar(3);not null"`
	Status          payout.Status         `gorm:"type:varchar(30);not null;index"`
	ReferenceID     string                `gorm:"type:varchar(100)"`
	FailureReason   string                `gorm:"type:text"`
	Attempts        int                   `gorm:"not null;default:0"`
	PaidAt          *time.Time            `gorm:"index"`
	Reversals       []PayoutReversalModel `gorm:"foreignKey:PayoutID;references:ID"`
}

// TableName returns the table name for GORM
func (PayoutModel) TableName() string {
	return "payouts"
}

// ToDomain converts the persistence model to a domain Payout
func (m *PayoutModel) ToDomain() *payout.Payout {
	p := &payout.Payout{
		SellerAggregateRoot: m.ToSellerAggregateRoot(),
		PayoutAccountID:     m.PayoutAccountID,
		OrderID:             m.OrderID,
		Amount:              m.Amount,
		CurrencyCode:        m.CurrencyCode,
		Status:              m.Status,
		ReferenceID:         m.ReferenceID,
		FailureReason:       m.FailureReason,
		Attempts:            m.Attempts,
		PaidAt:              m.PaidAt,
	}
	for _, r := range m.Reversals {
		p.Reversals = append(p.Reversals, r.ToDomain())
	}
	return p
}

// PayoutModelFromDomain creates a persistence model from a domain Payout
func PayoutModelFromDomain(p *payout.Payout) *PayoutModel {
	m := &PayoutModel{
		PayoutAccountID: p.PayoutAccountID,
		OrderID:         p.OrderID,
		Amount:          p.Amount,
		CurrencyCode:    p.CurrencyCode,
		Status:          p.Status,
		ReferenceID:     p.ReferenceID,
		FailureReason:   p.FailureReason,
		Attempts:        p.Attempts,
		PaidAt:          p.PaidAt,
		Reversals:       make([]PayoutReversalModel, len(p.Reversals)),
	}
	m.FromDomainSellerAggregateRoot(p.SellerAggregateRoot)
	for i, r := range p.Reversals {
		m.Reversals[i] = PayoutReversalModel{
			ID:           r.ID,
			PayoutID:     p.ID,
			Amount:       r.Amount,
			CurrencyCode: r.CurrencyCode,
			ReferenceID:  r.ReferenceID,
			CreatedAt:    r.CreatedAt,
		}
	}
	return m
}

// PayoutReversalModel is a (partial) reversal of a paid payout
type PayoutReversalModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PayoutID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrencyCode string          `gorm:"type:varchar(3);not null"`
	ReferenceID  string          `gorm:"type:varchar(100)"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PayoutReversalModel) TableName() string {
	return "payout_reversals"
}

// ToDomain converts the persistence model to a domain Reversal
func (m PayoutReversalModel) ToDomain() payout.Reversal {
	return payout.Reversal{
		ID:           m.ID,
		PayoutID:     m.PayoutID,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		ReferenceID:  m.ReferenceID,
		CreatedAt:    m.CreatedAt,
	}
}
