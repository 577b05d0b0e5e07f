package payout

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status of a payout
type Status string

const (
	StatusPending           Status = "pending"
	StatusPaid              Status = "paid"
	StatusFailed            Status = "failed"
	StatusReversed          Status = "reversed"
	StatusPartiallyReversed Status = "partially_reversed"
	StatusCanceled          Status = "canceled"
)

// IdempotencyKey is the provider idempotency key of the transfer for an order
func IdempotencyKey(orderID uuid.UUID) string {
	return "payout-" + orderID.String()
}

// Amount is what the seller receives for an order: its total minus the
// marketplace commission, rounded.
func Amount(orderTotal, commission decimal.Decimal) decimal.Decimal {
	return valueobject.RoundAmount(orderTotal.Sub(commission))
}

// Payout is a transfer of an order's earnings to the seller
type Payout struct {
	shared.SellerAggregateRoot
	PayoutAccountID uuid.UUID
	OrderID         uuid.UUID
	Amount          decimal.Decimal
	CurrencyCode    string
	Status          Status
	ReferenceID     string
	FailureReason   string
	Attempts        int
	PaidAt          *time.Time
	Reversals       []Reversal
}

// NewPayout creates a pending payout for an order. Non-positive amounts are rejected.
func NewPayout(account *PayoutAccount, orderID uuid.UUID, amount decimal.Decimal, currency string) (*Payout, error) {
	if !amount.IsPositive() {
		return nil, shared.InvalidArgument("Payout amount must be positive")
	}
	money, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return nil, shared.InvalidArgument("Invalid payout currency: %v", err)
	}
	return &Payout{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(account.SellerID),
		PayoutAccountID:     account.ID,
		OrderID:             orderID,
		Amount:              money.Round().Amount(),
		CurrencyCode:        money.Currency(),
		Status:              StatusPending,
	}, nil
}

// MarkPaid records a successful transfer
func (p *Payout) MarkPaid(transferID string, at time.Time) error {
	if p.Status != StatusPending && p.Status != StatusFailed {
		return shared.NotAllowed("Cannot mark payout in %s status as paid", p.Status)
	}
	p.Status = StatusPaid
	p.ReferenceID = transferID
	p.FailureReason = ""
	p.Attempts++
	p.PaidAt = &at
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPayoutPaidEvent(p))
	return nil
}

// MarkFailed records a failed transfer attempt; failed payouts are retried
func (p *Payout) MarkFailed(reason string) error {
	if p.Status != StatusPending && p.Status != StatusFailed {
		return shared.NotAllowed("Cannot mark payout in %s status as failed", p.Status)
	}
	p.Status = StatusFailed
	p.FailureReason = reason
	p.Attempts++
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPayoutFailedEvent(p))
	return nil
}

// Reprice sets the amount of a payout that has not been transferred yet to
// what the order currently earns. A payout with nothing left to earn is
// canceled and never transferred.
func (p *Payout) Reprice(amount decimal.Decimal) error {
	if p.Status != StatusPending && p.Status != StatusFailed {
		return shared.NotAllowed("Cannot reprice payout in %s status", p.Status)
	}
	amount = valueobject.RoundAmount(amount)
	if amount.Equal(p.Amount) {
		return nil
	}
	if amount.IsPositive() {
		p.Amount = amount
	} else {
		p.Amount = decimal.Zero
		p.Status = StatusCanceled
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// ReversedAmount is the sum of all reversals
func (p *Payout) ReversedAmount() decimal.Decimal {
	total := decimal.Zero
	for _, r := range p.Reversals {
		total = total.Add(r.Amount)
	}
	return total
}

// ReversibleAmount is what can still be pulled back from the seller
func (p *Payout) ReversibleAmount() decimal.Decimal {
	return p.Amount.Sub(p.ReversedAmount())
}

// PlanReversal caps a requested reversal to the reversible amount.
// A zero result means nothing can be reversed.
func (p *Payout) PlanReversal(requested decimal.Decimal) (decimal.Decimal, error) {
	if p.Status != StatusPaid && p.Status != StatusPartiallyReversed {
		return decimal.Zero, shared.NotAllowed("Cannot reverse payout in %s status", p.Status)
	}
	if !requested.IsPositive() {
		return decimal.Zero, shared.InvalidArgument("Reversal amount must be positive")
	}
	amount := decimal.Min(valueobject.RoundAmount(requested), p.ReversibleAmount())
	if !amount.IsPositive() {
		return decimal.Zero, nil
	}
	return amount, nil
}

// AddReversal records a provider reversal and updates the status
func (p *Payout) AddReversal(amount decimal.Decimal, referenceID string) (*Reversal, error) {
	planned, err := p.PlanReversal(amount)
	if err != nil {
		return nil, err
	}
	if !planned.Equal(amount) {
		return nil, shared.InvalidArgument("Reversal of %s exceeds reversible amount %s", amount, p.ReversibleAmount())
	}
	r := Reversal{
		ID:           uuid.New(),
		PayoutID:     p.ID,
		Amount:       amount,
		CurrencyCode: p.CurrencyCode,
		ReferenceID:  referenceID,
		CreatedAt:    time.Now(),
	}
	p.Reversals = append(p.Reversals, r)
	if p.ReversibleAmount().IsZero() {
		p.Status = StatusReversed
	} else {
		p.Status = StatusPartiallyReversed
	}
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPayoutReversedEvent(p, r))
	return &r, nil
}

// Reversal is a (partial) pull-back of a paid payout
type Reversal struct {
	ID           uuid.UUID
	PayoutID     uuid.UUID
	Amount       decimal.Decimal
	CurrencyCode string
	ReferenceID  string
	CreatedAt    time.Time
}
