package payout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/commission"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/domain/returnrequest"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/storage"
	"github.com/marketplace/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// =============================================================================
// Mocks
// =============================================================================

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateAccount(ctx context.Context, input payout.CreateAccountInput) (*payout.ProviderAccount, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.ProviderAccount), args.Error(1)
}

func (m *MockProvider) GetAccount(ctx context.Context, referenceID string) (*payout.ProviderAccount, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.ProviderAccount), args.Error(1)
}

func (m *MockProvider) CreateOnboardingLink(ctx context.Context, referenceID string) (string, time.Time, error) {
	args := m.Called(ctx, referenceID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockProvider) Transfer(ctx context.Context, input payout.TransferInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) ReverseTransfer(ctx context.Context, input payout.ReversalInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) ParseWebhook(payload []byte, signature string) (*payout.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.WebhookEvent), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, s *payout.Statement) ([]byte, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// =============================================================================
// Fixture
// =============================================================================

type payoutFixture struct {
	db       *gorm.DB
	repos    Repositories
	provider *MockProvider
	renderer *MockRenderer
	storage  *storage.MemoryObjectStorage
	locks    *cache.InMemoryIdempotencyStore
	service  *PayoutService
}

func newPayoutFixture(t *testing.T) *payoutFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	f := &payoutFixture{
		db: db,
		repos: Repositories{
			Accounts:        persistence.NewGormPayoutAccountRepository(db),
			Payouts:         persistence.NewGormPayoutRepository(db),
			Orders:          persistence.NewGormOrderRepository(db),
			CommissionLines: persistence.NewGormCommissionLineRepository(db),
			Sellers:         persistence.NewGormSellerRepository(db),
		},
		provider: new(MockProvider),
		renderer: new(MockRenderer),
		storage:  storage.NewMemoryObjectStorage("https://files.test"),
		locks:    cache.NewInMemoryIdempotencyStore(time.Minute),
	}
	t.Cleanup(func() { _ = f.locks.Close() })
	f.service = NewPayoutService(f.repos, f.provider, f.renderer, f.storage, f.locks, nil,
		Config{HoldPeriod: 7 * 24 * time.Hour, DefaultCurrency: "usd"}, zap.NewNop())
	// completed orders are past the hold period
	f.service.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	return f
}

func (f *payoutFixture) seller(t *testing.T, name string) *seller.Seller {
	t.Helper()
	s, err := seller.NewSeller(name, "payouts@"+shared.Slugify(name)+".test", true)
	require.NoError(t, err)
	require.NoError(t, s.UpdateDetails(seller.SellerUpdate{Address: &seller.Address{CountryCode: "US"}}))
	require.NoError(t, f.repos.Sellers.Save(context.Background(), s))
	return s
}

func (f *payoutFixture) activeAccount(t *testing.T, sellerID uuid.UUID, ref string) *payout.PayoutAccount {
	t.Helper()
	a, err := payout.NewPayoutAccount(sellerID, ref, nil)
	require.NoError(t, err)
	a.Sync(payout.AccountState{ChargesEnabled: true, PayoutsEnabled: true, DetailsSubmitted: true})
	require.NoError(t, f.repos.Accounts.Save(context.Background(), a))
	return a
}

// completedOrder places and walks an order to completed, with the given
// commission recorded against it
func (f *payoutFixture) completedOrder(t *testing.T, sellerID uuid.UUID, fee string) *order.Order {
	t.Helper()
	ctx := context.Background()
	o, err := order.PlaceOrder(order.PlaceOrderInput{
		OrderSetID:     uuid.New(),
		SellerID:       sellerID,
		CustomerID:     uuid.New(),
		CurrencyCode:   "usd",
		Items:          []order.LineItemInput{{ProductID: uuid.New(), Title: "Boots", Quantity: 2, UnitPrice: decimal.NewFromInt(50)}},
		ShippingAmount: decimal.NewFromInt(10),
		TaxRate:        decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	require.NoError(t, o.Capture())
	require.NoError(t, o.Fulfill())
	require.NoError(t, o.Ship())
	require.NoError(t, o.Deliver(time.Now()))
	require.NoError(t, o.Complete())
	o.DisplayID, err = f.repos.Orders.NextDisplayID(ctx)
	require.NoError(t, err)
	require.NoError(t, f.repos.Orders.Save(ctx, o))

	require.NoError(t, f.repos.CommissionLines.SaveBatch(ctx, []commission.Line{{
		ID:           uuid.New(),
		OrderID:      o.ID,
		SellerID:     sellerID,
		ItemLineID:   o.Items[0].ID.String(),
		RuleID:       uuid.New(),
		Code:         "site",
		CurrencyCode: "usd",
		Value:        decimal.RequireFromString(fee),
		CreatedAt:    time.Now(),
	}}))
	return o
}

func transferFor(orderID uuid.UUID) any {
	return mock.MatchedBy(func(in payout.TransferInput) bool { return in.OrderID == orderID })
}

// =============================================================================
// Tests
// =============================================================================

func TestPayoutService_Accounts(t *testing.T) {
	f := newPayoutFixture(t)
	ctx := context.Background()
	acme := f.seller(t, "Acme")

	f.provider.On("CreateAccount", mock.Anything, mock.MatchedBy(func(in payout.CreateAccountInput) bool {
		return in.SellerID == acme.ID && in.Email == acme.Email && in.CountryCode == "us"
	})).Return(&payout.ProviderAccount{ReferenceID: "acct_1", Data: map[string]any{"type": "express"}}, nil).Once()

	account, err := f.service.CreatePayoutAccount(ctx, acme.ID, CreateAccountRequest{Context: map[string]any{"source": "vendor"}})
	require.NoError(t, err)
	assert.Equal(t, "pending", account.Status)
	assert.Equal(t, "acct_1", account.ReferenceID)
	assert.Equal(t, "vendor", account.Context["source"])

	_, err = f.service.CreatePayoutAccount(ctx, acme.ID, CreateAccountRequest{})
	assert.ErrorIs(t, err, shared.ErrDuplicate)

	expires := time.Now().Add(time.Hour)
	f.provider.On("CreateOnboardingLink", mock.Anything, "acct_1").Return("https://connect.test/onboard", expires, nil).Once()
	link, err := f.service.CreateOnboarding(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://connect.test/onboard", link.URL)
	assert.Equal(t, account.ID, link.PayoutAccountID)

	_, err = f.service.CreateOnboarding(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	f.provider.On("ParseWebhook", []byte("updated"), "sig").Return(&payout.WebhookEvent{
		ID:   "evt_1",
		Type: payout.WebhookAccountUpdated,
		Account: &payout.ProviderAccount{
			ReferenceID: "acct_1",
			State:       payout.AccountState{ChargesEnabled: true, PayoutsEnabled: true, DetailsSubmitted: true},
		},
	}, nil).Once()
	require.NoError(t, f.service.HandleWebhook(ctx, []byte("updated"), "sig"))

	synced, err := f.service.GetPayoutAccount(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", synced.Status)

	f.provider.On("ParseWebhook", []byte("other"), "sig").Return(&payout.WebhookEvent{ID: "evt_2", Type: "payout.created"}, nil).Once()
	assert.NoError(t, f.service.HandleWebhook(ctx, []byte("other"), "sig"))

	f.provider.On("ParseWebhook", []byte("forged"), "bad").Return(nil, shared.InvalidArgument("bad signature")).Once()
	assert.ErrorIs(t, f.service.HandleWebhook(ctx, []byte("forged"), "bad"), shared.ErrInvalidArgument)

	f.provider.AssertExpectations(t)
}

func TestPayoutService_ProcessPayouts(t *testing.T) {
	f := newPayoutFixture(t)
	ctx := context.Background()
	acme := f.seller(t, "Acme")
	globex := f.seller(t, "Globex")
	f.activeAccount(t, acme.ID, "acct_acme")

	paid := f.completedOrder(t, acme.ID, "12")
	failing := f.completedOrder(t, acme.ID, "5")
	unpaid := f.completedOrder(t, globex.ID, "5")

	f.provider.On("Transfer", mock.Anything, transferFor(paid.ID)).Return("tr_1", nil).Once()
	f.provider.On("Transfer", mock.Anything, transferFor(failing.ID)).Return("", errors.New("insufficient funds")).Once()

	result, err := f.service.ProcessPayouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunResult{Paid: 1, Failed: 1, Skipped: 1}, *result)

	p, err := f.repos.Payouts.FindByOrder(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, payout.StatusPaid, p.Status)
	assert.Equal(t, "tr_1", p.ReferenceID)
	assert.True(t, paid.Total.Sub(decimal.NewFromInt(12)).Equal(p.Amount), "total minus commission")

	p, err = f.repos.Payouts.FindByOrder(ctx, failing.ID)
	require.NoError(t, err)
	assert.Equal(t, payout.StatusFailed, p.Status)
	assert.Equal(t, "insufficient funds", p.FailureReason)

	_, err = f.repos.Payouts.FindByOrder(ctx, unpaid.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "no account, no payout")

	// the failed transfer is retried with the same idempotency key
	f.provider.On("Transfer", mock.Anything, mock.MatchedBy(func(in payout.TransferInput) bool {
		return in.OrderID == failing.ID && in.IdempotencyKey == payout.IdempotencyKey(failing.ID)
	})).Return("tr_2", nil).Once()
	result, err = f.service.ProcessPayouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Paid)

	list, err := f.service.ListPayoutsForSeller(ctx, acme.ID, appshared.ListQuery{}, PayoutListFilter{Status: "paid"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Count)

	_, err = f.service.ListPayouts(ctx, appshared.ListQuery{}, PayoutListFilter{SellerID: "acme"})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	// a concurrent run is refused
	fresh, err := f.locks.MarkProcessed(ctx, runLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, fresh)
	_, err = f.service.ProcessPayouts(ctx)
	assert.ErrorIs(t, err, shared.ErrConflict)

	f.provider.AssertExpectations(t)
}

func TestPayoutService_ReversePayout(t *testing.T) {
	f := newPayoutFixture(t)
	ctx := context.Background()
	acme := f.seller(t, "Acme")
	f.activeAccount(t, acme.ID, "acct_acme")
	o := f.completedOrder(t, acme.ID, "20")

	f.provider.On("Transfer", mock.Anything, transferFor(o.ID)).Return("tr_1", nil).Once()
	_, err := f.service.ProcessPayouts(ctx)
	require.NoError(t, err)
	p, err := f.repos.Payouts.FindByOrder(ctx, o.ID)
	require.NoError(t, err)

	refund := &returnrequest.ReturnRequest{OrderID: o.ID, RefundAmount: decimal.NewFromInt(30)}
	refund.ID = uuid.New()
	refund.SellerID = acme.ID
	f.provider.On("ReverseTransfer", mock.Anything, mock.MatchedBy(func(in payout.ReversalInput) bool {
		return in.TransferID == "tr_1" && in.Amount.Equal(decimal.NewFromInt(30)) &&
			in.CurrencyCode == "usd" && in.IdempotencyKey == "reversal-"+refund.ID.String()
	})).Return("trr_1", nil).Once()

	handler := NewReturnRefundedHandler(f.service, zap.NewNop())
	assert.Equal(t, []string{returnrequest.EventTypeReturnRequestRefunded}, handler.EventTypes())
	require.NoError(t, handler.Handle(ctx, returnrequest.NewReturnRequestRefundedEvent(refund, "usd")))

	partial, err := f.repos.Payouts.FindByOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, payout.StatusPartiallyReversed, partial.Status)
	require.Len(t, partial.Reversals, 1)
	assert.Equal(t, "trr_1", partial.Reversals[0].ReferenceID)

	// more than what is left is capped to the remainder
	rest := p.Amount.Sub(decimal.NewFromInt(30))
	f.provider.On("ReverseTransfer", mock.Anything, mock.MatchedBy(func(in payout.ReversalInput) bool {
		return in.Amount.Equal(rest)
	})).Return("trr_2", nil).Once()
	resp, err := f.service.ReversePayout(ctx, o.ID, decimal.NewFromInt(1000), "reversal-2")
	require.NoError(t, err)
	assert.Equal(t, "reversed", resp.Status)
	assert.Len(t, resp.Reversals, 2)

	// nothing left: no provider call
	resp, err = f.service.ReversePayout(ctx, o.ID, decimal.NewFromInt(5), "reversal-3")
	require.NoError(t, err)
	assert.Equal(t, "reversed", resp.Status)

	// orders never paid out are ignored
	resp, err = f.service.ReversePayout(ctx, uuid.New(), decimal.NewFromInt(5), "reversal-4")
	require.NoError(t, err)
	assert.Nil(t, resp)

	assert.Error(t, handler.Handle(ctx, order.NewOrderCompletedEvent(o)))
	f.provider.AssertExpectations(t)
}

func TestPayoutService_RetryAfterRefund(t *testing.T) {
	f := newPayoutFixture(t)
	ctx := context.Background()
	acme := f.seller(t, "Acme")
	f.activeAccount(t, acme.ID, "acct_acme")
	// 121 total, 10 commission
	partly := f.completedOrder(t, acme.ID, "10")
	// 121 total, 11 commission: a full item refund leaves nothing
	fully := f.completedOrder(t, acme.ID, "11")

	f.provider.On("Transfer", mock.Anything, transferFor(partly.ID)).Return("", errors.New("insufficient funds")).Once()
	f.provider.On("Transfer", mock.Anything, transferFor(fully.ID)).Return("", errors.New("insufficient funds")).Once()
	result, err := f.service.ProcessPayouts(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, result.Failed)

	refund := func(o *order.Order, qty int) {
		stored, err := f.repos.Orders.FindByID(ctx, o.ID)
		require.NoError(t, err)
		amount, err := stored.ApplyReturn([]order.ReturnedLine{{LineItemID: stored.Items[0].ID, Quantity: qty}})
		require.NoError(t, err)
		require.NoError(t, f.repos.Orders.Save(ctx, stored))

		rr := &returnrequest.ReturnRequest{OrderID: o.ID, RefundAmount: amount}
		rr.ID = uuid.New()
		rr.SellerID = acme.ID
		handler := NewReturnRefundedHandler(f.service, zap.NewNop())
		require.NoError(t, handler.Handle(ctx, returnrequest.NewReturnRequestRefundedEvent(rr, "usd")))
	}
	refund(partly, 1)
	refund(fully, 2)

	f.provider.On("Transfer", mock.Anything, mock.MatchedBy(func(in payout.TransferInput) bool {
		return in.OrderID == partly.ID && in.Amount.Equal(decimal.NewFromInt(56)) &&
			in.IdempotencyKey == payout.IdempotencyKey(partly.ID)
	})).Return("tr_1", nil).Once()
	result, err = f.service.ProcessPayouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunResult{Paid: 1, Skipped: 1}, *result)

	p, err := f.repos.Payouts.FindByOrder(ctx, partly.ID)
	require.NoError(t, err)
	assert.Equal(t, payout.StatusPaid, p.Status)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(56)), p.Amount.String())

	p, err = f.repos.Payouts.FindByOrder(ctx, fully.ID)
	require.NoError(t, err)
	assert.Equal(t, payout.StatusCanceled, p.Status)
	assert.True(t, p.Amount.IsZero())

	// canceled payouts are not picked up again
	result, err = f.service.ProcessPayouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunResult{}, *result)
	f.provider.AssertExpectations(t)
}

func TestPayoutService_RetriesAbandonedPending(t *testing.T) {
	f := newPayoutFixture(t)
	ctx := context.Background()
	acme := f.seller(t, "Acme")
	account := f.activeAccount(t, acme.ID, "acct_acme")
	o := f.completedOrder(t, acme.ID, "10")

	// a run that stored the payout and died before recording the transfer
	p, err := payout.NewPayout(account, o.ID, decimal.NewFromInt(111), "usd")
	require.NoError(t, err)
	require.NoError(t, f.repos.Payouts.Save(ctx, p))

	// within the run lock the payout may still be in flight
	later := f.service.now
	f.service.now = time.Now
	result, err := f.service.ProcessPayouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunResult{}, *result)

	f.service.now = later
	f.provider.On("Transfer", mock.Anything, mock.MatchedBy(func(in payout.TransferInput) bool {
		return in.OrderID == o.ID && in.Amount.Equal(decimal.NewFromInt(111)) &&
			in.IdempotencyKey == payout.IdempotencyKey(o.ID)
	})).Return("tr_1", nil).Once()
	result, err = f.service.ProcessPayouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunResult{Paid: 1}, *result)

	stored, err := f.repos.Payouts.FindByOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, payout.StatusPaid, stored.Status)
	assert.Equal(t, "tr_1", stored.ReferenceID)
	f.provider.AssertExpectations(t)
}

func TestPayoutService_GenerateStatement(t *testing.T) {
	f := newPayoutFixture(t)
	ctx := context.Background()
	acme := f.seller(t, "Acme")
	f.activeAccount(t, acme.ID, "acct_acme")
	f.completedOrder(t, acme.ID, "12")
	f.completedOrder(t, acme.ID, "8")

	f.provider.On("Transfer", mock.Anything, mock.Anything).Return("tr_1", nil).Once()
	f.provider.On("Transfer", mock.Anything, mock.Anything).Return("", errors.New("declined")).Once()
	_, err := f.service.ProcessPayouts(ctx)
	require.NoError(t, err)

	f.renderer.On("Render", mock.Anything, mock.MatchedBy(func(s *payout.Statement) bool {
		return s.SellerName == "Acme" && s.CurrencyCode == "usd" && len(s.Lines) == 2 &&
			s.Totals().Commission.Equal(decimal.NewFromInt(20))
	})).Return([]byte("%PDF-1.4"), nil).Once()

	resp, err := f.service.GenerateStatement(ctx, acme.ID, StatementRequest{From: "2000-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Lines)
	assert.True(t, strings.HasPrefix(resp.URL, "https://files.test/statements/"+acme.ID.String()+"/usd_2000-01-01_"))
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	key := strings.TrimPrefix(strings.SplitN(resp.URL, "?", 2)[0], "https://files.test/")
	stored, ok := f.storage.Get(key)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", stored.ContentType)
	assert.Equal(t, []byte("%PDF-1.4"), stored.Data)

	_, err = f.service.GenerateStatement(ctx, acme.ID, StatementRequest{From: "2030-02-01", To: "2030-01-01"})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	_, err = f.service.GenerateStatement(ctx, acme.ID, StatementRequest{From: "last month"})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	disabled := NewPayoutService(f.repos, f.provider, nil, nil, nil, nil, Config{}, zap.NewNop())
	_, err = disabled.GenerateStatement(ctx, acme.ID, StatementRequest{})
	assert.ErrorIs(t, err, shared.ErrNotAllowed)

	f.renderer.AssertExpectations(t)
}

func TestOrderCompletedHandler(t *testing.T) {
	f := newPayoutFixture(t)
	handler := NewOrderCompletedHandler(f.service, zap.NewNop())
	assert.Equal(t, []string{order.EventTypeOrderCompleted}, handler.EventTypes())

	o := f.completedOrder(t, uuid.New(), "1")
	assert.NoError(t, handler.Handle(context.Background(), order.NewOrderCompletedEvent(o)))
	assert.Error(t, handler.Handle(context.Background(), order.NewOrderPlacedEvent(o)))
}
