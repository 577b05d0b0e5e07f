package payout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Provider is the payment provider that holds seller accounts and moves money
type Provider interface {
	CreateAccount(ctx context.Context, input CreateAccountInput) (*ProviderAccount, error)
	GetAccount(ctx context.Context, referenceID string) (*ProviderAccount, error)
	CreateOnboardingLink(ctx context.Context, referenceID string) (url string, expiresAt time.Time, err error)
	Transfer(ctx context.Context, input TransferInput) (transferID string, err error)
	ReverseTransfer(ctx context.Context, input ReversalInput) (reversalID string, err error)
	// ParseWebhook verifies the signature header and decodes the event
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// CreateAccountInput describes a new connected account
type CreateAccountInput struct {
	SellerID    uuid.UUID
	Email       string
	CountryCode string
	Context     map[string]any
}

// ProviderAccount is an account as returned by the provider
type ProviderAccount struct {
	ReferenceID string
	State       AccountState
	Data        map[string]any
}

// TransferInput sends amount to the seller's connected account
type TransferInput struct {
	AccountReferenceID string
	OrderID            uuid.UUID
	Amount             decimal.Decimal
	CurrencyCode       string
	IdempotencyKey     string
}

// ReversalInput pulls amount back from a transfer
type ReversalInput struct {
	TransferID     string
	Amount         decimal.Decimal
	CurrencyCode   string
	IdempotencyKey string
}

// Webhook event types handled by the marketplace
const (
	WebhookAccountUpdated = "account.updated"
)

// WebhookEvent is a verified provider notification
type WebhookEvent struct {
	ID      string
	Type    string
	Account *ProviderAccount
}
