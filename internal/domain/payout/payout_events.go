package payout

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypePayout        = "Payout"
	AggregateTypePayoutAccount = "PayoutAccount"
)

// Payout domain event types
const (
	EventTypePayoutAccountStatusChanged = "payout_account.status_changed"
	EventTypePayoutPaid                 = "payout.paid"
	EventTypePayoutFailed               = "payout.failed"
	EventTypePayoutReversed             = "payout.reversed"
)

// PayoutAccountStatusChangedEvent is published when the provider state changes the account status
type PayoutAccountStatusChangedEvent struct {
	shared.BaseDomainEvent
	PayoutAccountID uuid.UUID     `json:"payout_account_id"`
	SellerID        uuid.UUID     `json:"seller_id"`
	PreviousStatus  AccountStatus `json:"previous_status"`
	Status          AccountStatus `json:"status"`
}

// NewPayoutAccountStatusChangedEvent creates a new PayoutAccountStatusChangedEvent
func NewPayoutAccountStatusChangedEvent(a *PayoutAccount, previous AccountStatus) *PayoutAccountStatusChangedEvent {
	return &PayoutAccountStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutAccountStatusChanged, AggregateTypePayoutAccount, a.ID),
		PayoutAccountID: a.ID,
		SellerID:        a.SellerID,
		PreviousStatus:  previous,
		Status:          a.Status,
	}
}

// PayoutPaidEvent is published after a successful transfer
type PayoutPaidEvent struct {
	shared.BaseDomainEvent
	PayoutID     uuid.UUID       `json:"payout_id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	OrderID      uuid.UUID       `json:"order_id"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
}

// NewPayoutPaidEvent creates a new PayoutPaidEvent
func NewPayoutPaidEvent(p *Payout) *PayoutPaidEvent {
	return &PayoutPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutPaid, AggregateTypePayout, p.ID),
		PayoutID:        p.ID,
		SellerID:        p.SellerID,
		OrderID:         p.OrderID,
		Amount:          p.Amount,
		CurrencyCode:    p.CurrencyCode,
	}
}

// PayoutFailedEvent is published when a transfer attempt fails
type PayoutFailedEvent struct {
	shared.BaseDomainEvent
	PayoutID uuid.UUID `json:"payout_id"`
	SellerID uuid.UUID `json:"seller_id"`
	Reason   string    `json:"reason"`
}

// NewPayoutFailedEvent creates a new PayoutFailedEvent
func NewPayoutFailedEvent(p *Payout) *PayoutFailedEvent {
	return &PayoutFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutFailed, AggregateTypePayout, p.ID),
		PayoutID:        p.ID,
		SellerID:        p.SellerID,
		Reason:          p.FailureReason,
	}
}

// PayoutReversedEvent is published when part of a payout is pulled back
type PayoutReversedEvent struct {
	shared.BaseDomainEvent
	PayoutID   uuid.UUID       `json:"payout_id"`
	SellerID   uuid.UUID       `json:"seller_id"`
	ReversalID uuid.UUID       `json:"reversal_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewPayoutReversedEvent creates a new PayoutReversedEvent
func NewPayoutReversedEvent(p *Payout, r Reversal) *PayoutReversedEvent {
	return &PayoutReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutReversed, AggregateTypePayout, p.ID),
		PayoutID:        p.ID,
		SellerID:        p.SellerID,
		ReversalID:      r.ID,
		Amount:          r.Amount,
	}
}
