package payout

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// AccountStatus is the state of a seller's payout account at the provider
type AccountStatus string

const (
	AccountStatusPending    AccountStatus = "pending"
	AccountStatusActive     AccountStatus = "active"
	AccountStatusRestricted AccountStatus = "restricted"
	AccountStatusDisabled   AccountStatus = "disabled"
)

// PayoutAccount links a seller to its account at the payment provider
type PayoutAccount struct {
	shared.SellerAggregateRoot
	Status AccountStatus
	// ReferenceID is the provider account id
	ReferenceID string
	Data        map[string]any
	Context     map[string]any
}

// NewPayoutAccount creates a pending payout account for a provider account
func NewPayoutAccount(sellerID uuid.UUID, referenceID string, data map[string]any) (*PayoutAccount, error) {
	if sellerID == uuid.Nil {
		return nil, shared.InvalidArgument("Seller ID is required")
	}
	if referenceID == "" {
		return nil, shared.InvalidArgument("Payout account reference is required")
	}
	return &PayoutAccount{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		Status:              AccountStatusPending,
		ReferenceID:         referenceID,
		Data:                data,
		Context:             map[string]any{},
	}, nil
}

// AccountState is the provider's view of an account
type AccountState struct {
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
	Disabled         bool
	CurrentlyDue     []string
}

// Sync updates the status from the provider state. Returns true when the
// account became active.
func (a *PayoutAccount) Sync(state AccountState) bool {
	previous := a.Status
	switch {
	case state.Disabled:
		a.Status = AccountStatusDisabled
	case len(state.CurrentlyDue) > 0 && a.Status == AccountStatusActive:
		a.Status = AccountStatusRestricted
	case state.ChargesEnabled && state.PayoutsEnabled:
		a.Status = AccountStatusActive
	case len(state.CurrentlyDue) > 0 && state.DetailsSubmitted:
		a.Status = AccountStatusRestricted
	default:
		a.Status = AccountStatusPending
	}
	if a.Context == nil {
		a.Context = make(map[string]any)
	}
	a.Context["charges_enabled"] = state.ChargesEnabled
	a.Context["payouts_enabled"] = state.PayoutsEnabled
	a.Context["details_submitted"] = state.DetailsSubmitted
	a.Context["currently_due"] = state.CurrentlyDue
	a.Touch()
	a.IncrementVersion()

	if a.Status != previous {
		a.AddDomainEvent(NewPayoutAccountStatusChangedEvent(a, previous))
	}
	return a.Status == AccountStatusActive && previous != AccountStatusActive
}

// IsActive reports whether transfers can be sent to the account
func (a *PayoutAccount) IsActive() bool {
	return a.Status == AccountStatusActive
}

// Onboarding is a provider-hosted onboarding link for a payout account
type Onboarding struct {
	ID              uuid.UUID
	PayoutAccountID uuid.UUID
	URL             string
	ExpiresAt       time.Time
	CreatedAt       time.Time
}

// NewOnboarding records an onboarding link
func NewOnboarding(accountID uuid.UUID, url string, expiresAt time.Time) *Onboarding {
	return &Onboarding{
		ID:              uuid.New(),
		PayoutAccountID: accountID,
		URL:             url,
		ExpiresAt:       expiresAt,
		CreatedAt:       time.Now(),
	}
}

// IsExpired reports whether the link can no longer be used
func (o *Onboarding) IsExpired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
