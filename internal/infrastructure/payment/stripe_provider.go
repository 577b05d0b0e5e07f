// Package payment implements the payout provider on Stripe Connect.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

var _ payout.Provider = (*StripeProvider)(nil)

// Currencies Stripe expects in whole units
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// StripeProvider uses Express connected accounts and transfers
type StripeProvider struct {
	api           *client.API
	webhookSecret string
	returnURL     string
	refreshURL    string
	logger        *zap.Logger
}

// ValidateStripeConfig checks the key matches the configured mode
func ValidateStripeConfig(cfg config.StripeConfig) error {
	if cfg.SecretKey == "" {
		return errors.New("stripe: secret key is required")
	}
	if cfg.WebhookSecret == "" {
		return errors.New("stripe: webhook secret is required")
	}
	if cfg.TestMode && strings.HasPrefix(cfg.SecretKey, "sk_live") {
		return errors.New("stripe: test mode enabled but secret key is not a test key")
	}
	if !cfg.TestMode && strings.HasPrefix(cfg.SecretKey, "sk_test") {
		return errors.New("stripe: live mode enabled but secret key is not a live key")
	}
	return nil
}

// NewStripeProvider creates a provider. backends may be nil to use the
// default HTTP backends.
func NewStripeProvider(cfg config.StripeConfig, backends *stripe.Backends, logger *zap.Logger) (*StripeProvider, error) {
	if err := ValidateStripeConfig(cfg); err != nil {
		return nil, err
	}
	return &StripeProvider{
		api:           client.New(cfg.SecretKey, backends),
		webhookSecret: cfg.WebhookSecret,
		returnURL:     cfg.ConnectReturnURL,
		refreshURL:    cfg.ConnectRefreshURL,
		logger:        logger.Named("stripe"),
	}, nil
}

// CreateAccount creates an Express account with the transfers capability
func (p *StripeProvider) CreateAccount(ctx context.Context, input payout.CreateAccountInput) (*payout.ProviderAccount, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(input.Email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
	}
	if input.CountryCode != "" {
		params.Country = stripe.String(strings.ToUpper(input.CountryCode))
	}
	params.Context = ctx
	params.AddMetadata("seller_id", input.SellerID.String())
	params.SetIdempotencyKey("account-" + input.SellerID.String())

	acct, err := p.api.Accounts.New(params)
	if err != nil {
		p.logger.Error("Failed to create Stripe account", zap.String("seller_id", input.SellerID.String()), zap.Error(err))
		return nil, translateStripeError("create account", err)
	}

	p.logger.Info("Created Stripe account",
		zap.String("seller_id", input.SellerID.String()),
		zap.String("account_id", acct.ID))
	return toProviderAccount(acct), nil
}

// GetAccount fetches the account state
func (p *StripeProvider) GetAccount(ctx context.Context, referenceID string) (*payout.ProviderAccount, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx
	acct, err := p.api.Accounts.GetByID(referenceID, params)
	if err != nil {
		return nil, translateStripeError("get account", err)
	}
	return toProviderAccount(acct), nil
}

// CreateOnboardingLink creates an account_onboarding account link
func (p *StripeProvider) CreateOnboardingLink(ctx context.Context, referenceID string) (string, time.Time, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(referenceID),
		RefreshURL: stripe.String(p.refreshURL),
		ReturnURL:  stripe.String(p.returnURL),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}
	params.Context = ctx

	link, err := p.api.AccountLinks.New(params)
	if err != nil {
		return "", time.Time{}, translateStripeError("create account link", err)
	}
	return link.URL, time.Unix(link.ExpiresAt, 0), nil
}

// Transfer moves funds from the platform balance to the connected account
func (p *StripeProvider) Transfer(ctx context.Context, input payout.TransferInput) (string, error) {
	amount, err := ToMinorUnits(input.Amount, input.CurrencyCode)
	if err != nil {
		return "", err
	}
	params := &stripe.TransferParams{
		Amount:        stripe.Int64(amount),
		Currency:      stripe.String(strings.ToLower(input.CurrencyCode)),
		Destination:   stripe.String(input.AccountReferenceID),
		TransferGroup: stripe.String(input.OrderID.String()),
	}
	params.Context = ctx
	params.AddMetadata("order_id", input.OrderID.String())
	if input.IdempotencyKey != "" {
		params.SetIdempotencyKey(input.IdempotencyKey)
	}

	tr, err := p.api.Transfers.New(params)
	if err != nil {
		p.logger.Warn("Stripe transfer failed",
			zap.String("order_id", input.OrderID.String()),
			zap.String("account_id", input.AccountReferenceID),
			zap.Error(err))
		return "", translateStripeError("transfer", err)
	}
	return tr.ID, nil
}

// ReverseTransfer creates a transfer reversal
func (p *StripeProvider) ReverseTransfer(ctx context.Context, input payout.ReversalInput) (string, error) {
	amount, err := ToMinorUnits(input.Amount, input.CurrencyCode)
	if err != nil {
		return "", err
	}
	params := &stripe.TransferReversalParams{
		ID:     stripe.String(input.TransferID),
		Amount: stripe.Int64(amount),
	}
	params.Context = ctx
	if input.IdempotencyKey != "" {
		params.SetIdempotencyKey(input.IdempotencyKey)
	}

	rev, err := p.api.TransferReversals.New(params)
	if err != nil {
		return "", translateStripeError("transfer reversal", err)
	}
	return rev.ID, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes account events
func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*payout.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, shared.InvalidArgument("Invalid webhook signature: %v", err)
	}

	out := &payout.WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Type == payout.WebhookAccountUpdated && event.Data != nil {
		var acct stripe.Account
		if err := json.Unmarshal(event.Data.Raw, &acct); err != nil {
			return nil, shared.InvalidArgument("Invalid account payload: %v", err)
		}
		out.Account = toProviderAccount(&acct)
	}
	return out, nil
}

func toProviderAccount(acct *stripe.Account) *payout.ProviderAccount {
	state := payout.AccountState{
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
	}
	if acct.Requirements != nil {
		state.CurrentlyDue = acct.Requirements.CurrentlyDue
		state.Disabled = acct.Requirements.DisabledReason != "" &&
			strings.HasPrefix(string(acct.Requirements.DisabledReason), "rejected")
	}
	return &payout.ProviderAccount{
		ReferenceID: acct.ID,
		State:       state,
		Data: map[string]any{
			"id":                acct.ID,
			"type":              string(acct.Type),
			"country":           acct.Country,
			"email":             acct.Email,
			"default_currency":  string(acct.DefaultCurrency),
			"details_submitted": acct.DetailsSubmitted,
		},
	}
}

// ToMinorUnits converts an amount to the integer unit Stripe expects
func ToMinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	if amount.IsNegative() {
		return 0, shared.InvalidArgument("Amount cannot be negative")
	}
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return amount.Round(0).IntPart(), nil
	}
	return amount.Shift(2).Round(0).IntPart(), nil
}

func translateStripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		msg := fmt.Sprintf("stripe %s failed: %s", op, stripeErr.Msg)
		if stripeErr.HTTPStatusCode == 400 || stripeErr.HTTPStatusCode == 404 {
			return shared.WrapDomainError(shared.CodeInvalidArgument, msg, err)
		}
		return shared.WrapDomainError(shared.CodeUnexpected, msg, err)
	}
	return fmt.Errorf("stripe %s: %w", op, err)
}
