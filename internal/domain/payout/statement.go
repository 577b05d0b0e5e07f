package payout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Statement summarizes a seller's earnings over a period
type Statement struct {
	SellerID     uuid.UUID
	SellerName   string
	From         time.Time
	To           time.Time
	CurrencyCode string
	Lines        []StatementLine
	GeneratedAt  time.Time
}

// StatementLine is one completed order in a statement
type StatementLine struct {
	OrderDisplayID int64
	OrderID        uuid.UUID
	CompletedAt    time.Time
	OrderTotal     decimal.Decimal
	Commission     decimal.Decimal
	PayoutAmount   decimal.Decimal
	Reversed       decimal.Decimal
	PayoutStatus   string
}

// Totals sums the statement columns
func (s *Statement) Totals() StatementLine {
	var t StatementLine
	for _, l := range s.Lines {
		t.OrderTotal = t.OrderTotal.Add(l.OrderTotal)
		t.Commission = t.Commission.Add(l.Commission)
		t.PayoutAmount = t.PayoutAmount.Add(l.PayoutAmount)
		t.Reversed = t.Reversed.Add(l.Reversed)
	}
	return t
}

// Net is what the seller kept over the period
func (s *Statement) Net() decimal.Decimal {
	t := s.Totals()
	return t.PayoutAmount.Sub(t.Reversed)
}

// StatementRenderer turns a statement into a PDF document
type StatementRenderer interface {
	Render(ctx context.Context, statement *Statement) ([]byte, error)
}
