package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/form"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

type mockBackend struct {
	calls   []string
	params  []stripe.ParamsContainer
	handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)
}

func (m *mockBackend) Call(method, path, key string, params stripe.ParamsContainer, v stripe.LastResponseSetter) error {
	m.calls = append(m.calls, method+" "+path)
	m.params = append(m.params, params)
	data, err := m.handler(method, path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *mockBackend) CallStreaming(method, path, key string, params stripe.ParamsContainer, v stripe.StreamingLastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallRaw(method, path, key string, body *form.Values, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallMultipart(method, path, key, boundary string, body *bytes.Buffer, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) SetMaxNetworkRetries(maxNetworkRetries int64) {}

func testStripeConfig() config.StripeConfig {
	return config.StripeConfig{
		Enabled:           true,
		SecretKey:         "sk_test_123",
		WebhookSecret:     "whsec_test_123",
		ConnectReturnURL:  "https://vendor.example.com/payouts/return",
		ConnectRefreshURL: "https://vendor.example.com/payouts/refresh",
		TestMode:          true,
	}
}

func newTestProvider(t *testing.T, handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)) (*StripeProvider, *mockBackend) {
	t.Helper()
	mock := &mockBackend{handler: handler}
	p, err := NewStripeProvider(testStripeConfig(), &stripe.Backends{API: mock, Connect: mock, Uploads: mock}, zap.NewNop())
	require.NoError(t, err)
	return p, mock
}

func TestValidateStripeConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.StripeConfig)
		wantErr string
	}{
		{"missing key", func(c *config.StripeConfig) { c.SecretKey = "" }, "secret key is required"},
		{"missing webhook secret", func(c *config.StripeConfig) { c.WebhookSecret = "" }, "webhook secret is required"},
		{"live key in test mode", func(c *config.StripeConfig) { c.SecretKey = "sk_live_1" }, "not a test key"},
		{"test key in live mode", func(c *config.StripeConfig) { c.TestMode = false }, "not a live key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testStripeConfig()
			tt.mutate(&cfg)
			err := ValidateStripeConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.NoError(t, ValidateStripeConfig(testStripeConfig()))
}

func TestStripeProvider_CreateAccount(t *testing.T) {
	p, mock := newTestProvider(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return []byte(`{"id":"acct_123","type":"express","country":"DE","charges_enabled":false,"payouts_enabled":false,"details_submitted":false,"requirements":{"currently_due":["external_account"]}}`), nil
	})

	sellerID := uuid.New()
	acct, err := p.CreateAccount(context.Background(), payout.CreateAccountInput{
		SellerID:    sellerID,
		Email:       "owner@acme.test",
		CountryCode: "de",
	})
	require.NoError(t, err)
	assert.Equal(t, "acct_123", acct.ReferenceID)
	assert.Equal(t, []string{"external_account"}, acct.State.CurrentlyDue)
	assert.False(t, acct.State.PayoutsEnabled)

	require.Len(t, mock.calls, 1)
	assert.Equal(t, "POST /v1/accounts", mock.calls[0])
	params := mock.params[0].(*stripe.AccountParams)
	assert.Equal(t, "DE", *params.Country)
	assert.Equal(t, sellerID.String(), params.Metadata["seller_id"])
	assert.Equal(t, "account-"+sellerID.String(), *params.IdempotencyKey)
}

func TestStripeProvider_CreateOnboardingLink(t *testing.T) {
	expires := time.Now().Add(5 * time.Minute).Unix()
	p, mock := newTestProvider(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return json.Marshal(map[string]any{"url": "https://connect.stripe.com/setup/e/acct_123", "expires_at": expires})
	})

	url, expiresAt, err := p.CreateOnboardingLink(context.Background(), "acct_123")
	require.NoError(t, err)
	assert.Equal(t, "https://connect.stripe.com/setup/e/acct_123", url)
	assert.Equal(t, expires, expiresAt.Unix())

	params := mock.params[0].(*stripe.AccountLinkParams)
	assert.Equal(t, "acct_123", *params.Account)
	assert.Equal(t, "account_onboarding", *params.Type)
	assert.Equal(t, "https://vendor.example.com/payouts/return", *params.ReturnURL)
}

func TestStripeProvider_Transfer(t *testing.T) {
	p, mock := newTestProvider(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return []byte(`{"id":"tr_123"}`), nil
	})
	orderID := uuid.New()

	id, err := p.Transfer(context.Background(), payout.TransferInput{
		AccountReferenceID: "acct_123",
		OrderID:            orderID,
		Amount:             decimal.RequireFromString("88.35"),
		CurrencyCode:       "EUR",
		IdempotencyKey:     payout.IdempotencyKey(orderID),
	})
	require.NoError(t, err)
	assert.Equal(t, "tr_123", id)

	assert.Equal(t, "POST /v1/transfers", mock.calls[0])
	params := mock.params[0].(*stripe.TransferParams)
	assert.Equal(t, int64(8835), *params.Amount)
	assert.Equal(t, "eur", *params.Currency)
	assert.Equal(t, "acct_123", *params.Destination)
	assert.Equal(t, "payout-"+orderID.String(), *params.IdempotencyKey)
}

func TestStripeProvider_TransferErrorIsTranslated(t *testing.T) {
	p, _ := newTestProvider(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return nil, &stripe.Error{HTTPStatusCode: 400, Msg: "Insufficient funds"}
	})

	_, err := p.Transfer(context.Background(), payout.TransferInput{
		AccountReferenceID: "acct_123",
		OrderID:            uuid.New(),
		Amount:             decimal.NewFromInt(10),
		CurrencyCode:       "usd",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
	assert.Contains(t, err.Error(), "Insufficient funds")
}

func TestStripeProvider_ReverseTransfer(t *testing.T) {
	p, mock := newTestProvider(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return []byte(`{"id":"trr_1"}`), nil
	})

	id, err := p.ReverseTransfer(context.Background(), payout.ReversalInput{
		TransferID:   "tr_123",
		Amount:       decimal.RequireFromString("12.5"),
		CurrencyCode: "usd",
	})
	require.NoError(t, err)
	assert.Equal(t, "trr_1", id)
	assert.Equal(t, "POST /v1/transfers/tr_123/reversals", mock.calls[0])
	assert.Equal(t, int64(1250), *mock.params[0].(*stripe.TransferReversalParams).Amount)
}

func TestStripeProvider_ParseWebhook(t *testing.T) {
	p, _ := newTestProvider(t, nil)
	payload := []byte(`{"id":"evt_1","object":"event","type":"account.updated","data":{"object":{"id":"acct_123","object":"account","charges_enabled":true,"payouts_enabled":true,"details_submitted":true,"requirements":{"currently_due":[]}}}}`)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testStripeConfig().WebhookSecret,
		Timestamp: time.Now(),
	})

	event, err := p.ParseWebhook(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, payout.WebhookAccountUpdated, event.Type)
	require.NotNil(t, event.Account)
	assert.Equal(t, "acct_123", event.Account.ReferenceID)
	assert.True(t, event.Account.State.PayoutsEnabled)

	_, err = p.ParseWebhook(payload, "t=1,v1=bad")
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestToMinorUnits(t *testing.T) {
	cents, err := ToMinorUnits(decimal.RequireFromString("10.005"), "usd")
	require.NoError(t, err)
	assert.Equal(t, int64(1001), cents)

	yen, err := ToMinorUnits(decimal.RequireFromString("1500"), "JPY")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), yen)

	_, err = ToMinorUnits(decimal.NewFromInt(-1), "usd")
	assert.Error(t, err)
}
