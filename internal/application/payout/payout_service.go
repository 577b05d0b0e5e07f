package payout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/commission"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const runLockKey = "payout-run"

// Repositories groups the repositories used by the payout service
type Repositories struct {
	Accounts        payout.AccountRepository
	Payouts         payout.PayoutRepository
	Orders          order.OrderRepository
	CommissionLines commission.LineRepository
	Sellers         seller.SellerRepository
}

// Config contains the payout settings
type Config struct {
	HoldPeriod      time.Duration
	BatchSize       int
	RunLockTTL      time.Duration
	StatementExpiry time.Duration
	DefaultCurrency string
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.RunLockTTL <= 0 {
		c.RunLockTTL = 15 * time.Minute
	}
	if c.StatementExpiry <= 0 {
		c.StatementExpiry = time.Hour
	}
	if c.DefaultCurrency == "" {
		c.DefaultCurrency = "usd"
	}
	return c
}

// PayoutService manages seller payout accounts, transfers and statements
type PayoutService struct {
	repos    Repositories
	provider payout.Provider
	renderer payout.StatementRenderer
	storage  appshared.ObjectStorage
	locks    shared.IdempotencyStore
	metrics  appshared.BusinessMetrics
	config   Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewPayoutService creates a new PayoutService. renderer and storage may be
// nil when statements are disabled; locks may be nil for a single instance.
func NewPayoutService(
	repos Repositories,
	provider payout.Provider,
	renderer payout.StatementRenderer,
	storage appshared.ObjectStorage,
	locks shared.IdempotencyStore,
	metrics appshared.BusinessMetrics,
	config Config,
	logger *zap.Logger,
) *PayoutService {
	return &PayoutService{
		repos:    repos,
		provider: provider,
		renderer: renderer,
		storage:  storage,
		locks:    locks,
		metrics:  appshared.MetricsOrNoop(metrics),
		config:   config.withDefaults(),
		logger:   logger,
		now:      time.Now,
	}
}

// =============================================================================
// Accounts
// =============================================================================

// CreatePayoutAccount opens a provider account for the seller
func (s *PayoutService) CreatePayoutAccount(ctx context.Context, sellerID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	_, err := s.repos.Accounts.FindBySeller(ctx, sellerID)
	if err == nil {
		return nil, shared.Duplicate("Seller %s already has a payout account", sellerID)
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	sel, err := s.repos.Sellers.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	remote, err := s.provider.CreateAccount(ctx, payout.CreateAccountInput{
		SellerID:    sellerID,
		Email:       sel.Email,
		CountryCode: sel.Address.CountryCode,
		Context:     req.Context,
	})
	if err != nil {
		return nil, err
	}

	account, err := payout.NewPayoutAccount(sellerID, remote.ReferenceID, remote.Data)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Context {
		account.Context[k] = v
	}
	account.Sync(remote.State)
	if err := s.repos.Accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	account.ClearDomainEvents()

	s.logger.Info("Payout account created",
		zap.String("seller_id", sellerID.String()),
		zap.String("reference_id", account.ReferenceID),
		zap.String("status", string(account.Status)))
	resp := ToAccountResponse(account)
	return &resp, nil
}

// GetPayoutAccount returns the seller's payout account
func (s *PayoutService) GetPayoutAccount(ctx context.Context, sellerID uuid.UUID) (*AccountResponse, error) {
	account, err := s.repos.Accounts.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// CreateOnboarding requests a fresh onboarding link for the seller's account
func (s *PayoutService) CreateOnboarding(ctx context.Context, sellerID uuid.UUID) (*OnboardingResponse, error) {
	account, err := s.repos.Accounts.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	url, expiresAt, err := s.provider.CreateOnboardingLink(ctx, account.ReferenceID)
	if err != nil {
		return nil, err
	}
	o := payout.NewOnboarding(account.ID, url, expiresAt)
	if err := s.repos.Accounts.SaveOnboarding(ctx, o); err != nil {
		return nil, err
	}
	return &OnboardingResponse{
		ID:              o.ID,
		PayoutAccountID: o.PayoutAccountID,
		URL:             o.URL,
		ExpiresAt:       o.ExpiresAt,
		CreatedAt:       o.CreatedAt,
	}, nil
}

// HandleWebhook verifies and applies a provider notification. Unknown event
// types are acknowledged and ignored.
func (s *PayoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	switch event.Type {
	case payout.WebhookAccountUpdated:
		if event.Account == nil {
			return shared.InvalidArgument("Webhook %s carries no account", event.ID)
		}
		_, err := s.SyncAccount(ctx, *event.Account)
		return err
	default:
		s.logger.Debug("Ignoring payout webhook",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type))
		return nil
	}
}

// SyncAccount updates the local account from the provider's state
func (s *PayoutService) SyncAccount(ctx context.Context, remote payout.ProviderAccount) (*AccountResponse, error) {
	account, err := s.repos.Accounts.FindByReference(ctx, remote.ReferenceID)
	if err != nil {
		return nil, err
	}
	if remote.Data != nil {
		account.Data = remote.Data
	}
	activated := account.Sync(remote.State)
	if err := s.repos.Accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	account.ClearDomainEvents()

	s.logger.Info("Payout account synced",
		zap.String("seller_id", account.SellerID.String()),
		zap.String("status", string(account.Status)),
		zap.Bool("activated", activated))
	resp := ToAccountResponse(account)
	return &resp, nil
}

// =============================================================================
// Payouts
// =============================================================================

// ProcessPayouts transfers the earnings of completed orders past the hold
// period and retries failed transfers. Pending payouts older than the run
// lock were abandoned by a crashed run and are retried too; the provider
// idempotency key keeps them from being paid twice. Only one run is active
// at a time.
func (s *PayoutService) ProcessPayouts(ctx context.Context) (result *RunResult, err error) {
	if s.locks != nil {
		fresh, lockErr := s.locks.MarkProcessed(ctx, runLockKey, s.config.RunLockTTL)
		if lockErr != nil {
			return nil, lockErr
		}
		if !fresh {
			return nil, shared.NewDomainError(shared.CodeConflict, "A payout run is already in progress")
		}
		defer func() {
			if releaseErr := s.locks.Release(context.WithoutCancel(ctx), runLockKey); releaseErr != nil {
				s.logger.Warn("failed to release payout run lock", zap.Error(releaseErr))
			}
		}()
	}

	now := s.now()
	orders, err := s.repos.Orders.FindCompletedWithoutPayout(ctx, now.Add(-s.config.HoldPeriod), s.config.BatchSize)
	if err != nil {
		return nil, err
	}
	retries, err := s.repos.Payouts.FindRetryable(ctx, now.Add(-s.config.RunLockTTL), s.config.BatchSize)
	if err != nil {
		return nil, err
	}

	sellerIDs := make([]uuid.UUID, 0, len(orders)+len(retries))
	orderIDs := make([]uuid.UUID, 0, len(orders)+len(retries))
	for _, o := range orders {
		sellerIDs = append(sellerIDs, o.SellerID)
		orderIDs = append(orderIDs, o.ID)
	}
	for _, p := range retries {
		sellerIDs = append(sellerIDs, p.SellerID)
		orderIDs = append(orderIDs, p.OrderID)
	}
	accounts, err := s.repos.Accounts.FindBySellers(ctx, sellerIDs)
	if err != nil {
		return nil, err
	}
	commissions, err := s.repos.CommissionLines.SumByOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	result = &RunResult{}
	for i := range orders {
		o := &orders[i]
		account := accounts[o.SellerID]
		if account == nil || !account.IsActive() {
			s.logger.Debug("Seller has no active payout account",
				zap.String("order_id", o.ID.String()),
				zap.String("seller_id", o.SellerID.String()))
			result.Skipped++
			continue
		}
		amount := payout.Amount(o.Total.Sub(o.RefundedTotal), commissions[o.ID])
		if !amount.IsPositive() {
			result.Skipped++
			continue
		}
		p, err := payout.NewPayout(account, o.ID, amount, o.CurrencyCode)
		if err != nil {
			return result, err
		}
		if err := s.repos.Payouts.Save(ctx, p); err != nil {
			if errors.Is(err, shared.ErrDuplicate) {
				result.Skipped++
				continue
			}
			return result, err
		}
		if err := s.transfer(ctx, account, p, now, result); err != nil {
			return result, err
		}
	}
	for i := range retries {
		p := &retries[i]
		account := accounts[p.SellerID]
		if account == nil || !account.IsActive() {
			result.Skipped++
			continue
		}
		// refunds may have landed since the payout was created
		o, err := s.repos.Orders.FindByID(ctx, p.OrderID)
		if err != nil {
			return result, err
		}
		if err := p.Reprice(payout.Amount(o.Total.Sub(o.RefundedTotal), commissions[o.ID])); err != nil {
			return result, err
		}
		if p.Status == payout.StatusCanceled {
			if err := s.repos.Payouts.Save(ctx, p); err != nil {
				return result, err
			}
			s.logger.Info("Payout canceled, order fully refunded",
				zap.String("payout_id", p.ID.String()),
				zap.String("order_id", p.OrderID.String()))
			result.Skipped++
			continue
		}
		if err := s.transfer(ctx, account, p, now, result); err != nil {
			return result, err
		}
	}

	s.logger.Info("Payout run finished",
		zap.Int("paid", result.Paid),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// transfer sends a pending or failed payout. Provider failures are stored on
// the payout for the next run; only persistence errors are returned.
func (s *PayoutService) transfer(ctx context.Context, account *payout.PayoutAccount, p *payout.Payout, now time.Time, result *RunResult) error {
	transferID, err := s.provider.Transfer(ctx, payout.TransferInput{
		AccountReferenceID: account.ReferenceID,
		OrderID:            p.OrderID,
		Amount:             p.Amount,
		CurrencyCode:       p.CurrencyCode,
		IdempotencyKey:     payout.IdempotencyKey(p.OrderID),
	})
	if err != nil {
		s.logger.Warn("Payout transfer failed",
			zap.String("payout_id", p.ID.String()),
			zap.String("order_id", p.OrderID.String()),
			zap.Error(err))
		if markErr := p.MarkFailed(err.Error()); markErr != nil {
			return markErr
		}
		result.Failed++
	} else {
		if markErr := p.MarkPaid(transferID, now); markErr != nil {
			return markErr
		}
		result.Paid++
	}
	if err := s.repos.Payouts.Save(ctx, p); err != nil {
		return err
	}
	p.ClearDomainEvents()
	s.metrics.PayoutProcessed(ctx, string(p.Status), p.CurrencyCode, p.Amount)
	return nil
}

// ReversePayout pulls back up to amount from the order's payout. Orders
// without a paid payout are left alone: a pending or failed payout is
// repriced from the order's refunded total before its next attempt. key
// makes the provider call idempotent per refund.
func (s *PayoutService) ReversePayout(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, key string) (*PayoutResponse, error) {
	p, err := s.repos.Payouts.FindByOrder(ctx, orderID)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Debug("No payout to reverse", zap.String("order_id", orderID.String()))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if p.Status != payout.StatusPaid && p.Status != payout.StatusPartiallyReversed {
		s.logger.Info("Payout not reversible",
			zap.String("payout_id", p.ID.String()),
			zap.String("status", string(p.Status)))
		resp := ToPayoutResponse(p)
		return &resp, nil
	}

	planned, err := p.PlanReversal(amount)
	if err != nil {
		return nil, err
	}
	if planned.IsZero() {
		resp := ToPayoutResponse(p)
		return &resp, nil
	}
	reversalID, err := s.provider.ReverseTransfer(ctx, payout.ReversalInput{
		TransferID:     p.ReferenceID,
		Amount:         planned,
		CurrencyCode:   p.CurrencyCode,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reverse payout %s: %w", p.ID, err)
	}
	if _, err := p.AddReversal(planned, reversalID); err != nil {
		return nil, err
	}
	if err := s.repos.Payouts.Save(ctx, p); err != nil {
		return nil, err
	}
	p.ClearDomainEvents()

	s.metrics.PayoutReversed(ctx, p.CurrencyCode, planned)
	s.logger.Info("Payout reversed",
		zap.String("payout_id", p.ID.String()),
		zap.String("order_id", orderID.String()),
		zap.String("amount", planned.String()))
	resp := ToPayoutResponse(p)
	return &resp, nil
}

// ListPayouts lists payouts for the admin
func (s *PayoutService) ListPayouts(ctx context.Context, query appshared.ListQuery, f PayoutListFilter) (shared.ListResult[PayoutResponse], error) {
	filter := query.Filter().With("status", f.Status)
	for key, raw := range map[string]string{"seller_id": f.SellerID, "order_id": f.OrderID} {
		id, err := appshared.ParseOptionalUUID(key, raw)
		if err != nil {
			return shared.ListResult[PayoutResponse]{}, err
		}
		if id != nil {
			filter = filter.With(key, *id)
		}
	}
	payouts, total, err := s.repos.Payouts.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[PayoutResponse]{}, err
	}
	return appshared.MapList(payouts, total, filter, ToPayoutResponse), nil
}

// ListPayoutsForSeller lists the seller's payouts
func (s *PayoutService) ListPayoutsForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f PayoutListFilter) (shared.ListResult[PayoutResponse], error) {
	f.SellerID = sellerID.String()
	return s.ListPayouts(ctx, query, f)
}

// =============================================================================
// Statements
// =============================================================================

// GenerateStatement renders the seller's earnings over a period to PDF,
// stores it and returns a time-limited download link
func (s *PayoutService) GenerateStatement(ctx context.Context, sellerID uuid.UUID, req StatementRequest) (*StatementResponse, error) {
	if s.renderer == nil || s.storage == nil {
		return nil, shared.NotAllowed("Payout statements are not enabled")
	}
	now := s.now()
	from, to, err := statementPeriod(req, now)
	if err != nil {
		return nil, err
	}
	currency := strings.ToLower(req.CurrencyCode)
	if currency == "" {
		currency = s.config.DefaultCurrency
	}

	statement, err := s.buildStatement(ctx, sellerID, from, to, currency, now)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.Render(ctx, statement)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("statements/%s/%s_%s_%s.pdf", sellerID, currency,
		from.Format(time.DateOnly), to.Format(time.DateOnly))
	if _, err := s.storage.Put(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		return nil, err
	}
	url, expiresAt, err := s.storage.PresignGet(ctx, key, s.config.StatementExpiry)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payout statement generated",
		zap.String("seller_id", sellerID.String()),
		zap.String("key", key),
		zap.Int("lines", len(statement.Lines)))
	return &StatementResponse{URL: url, ExpiresAt: expiresAt, Lines: len(statement.Lines)}, nil
}

func (s *PayoutService) buildStatement(ctx context.Context, sellerID uuid.UUID, from, to time.Time, currency string, now time.Time) (*payout.Statement, error) {
	sel, err := s.repos.Sellers.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	orders, err := s.repos.Orders.FindBySellerBetween(ctx, sellerID, from, to)
	if err != nil {
		return nil, err
	}
	// payouts always follow their order, so none older than from can match
	payouts, err := s.repos.Payouts.FindBySellerBetween(ctx, sellerID, from, now.Add(time.Second))
	if err != nil {
		return nil, err
	}
	byOrder := make(map[uuid.UUID]*payout.Payout, len(payouts))
	for i := range payouts {
		byOrder[payouts[i].OrderID] = &payouts[i]
	}

	completed := make([]*order.Order, 0, len(orders))
	orderIDs := make([]uuid.UUID, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		if o.Status != order.StatusCompleted || o.CurrencyCode != currency {
			continue
		}
		completed = append(completed, o)
		orderIDs = append(orderIDs, o.ID)
	}
	commissions, err := s.repos.CommissionLines.SumByOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	statement := &payout.Statement{
		SellerID:     sellerID,
		SellerName:   sel.Name,
		From:         from,
		To:           to,
		CurrencyCode: currency,
		Lines:        make([]payout.StatementLine, 0, len(completed)),
		GeneratedAt:  now,
	}
	for _, o := range completed {
		line := payout.StatementLine{
			OrderDisplayID: o.DisplayID,
			OrderID:        o.ID,
			OrderTotal:     o.Total,
			Commission:     commissions[o.ID],
			PayoutStatus:   "unpaid",
		}
		if o.CompletedAt != nil {
			line.CompletedAt = *o.CompletedAt
		}
		if p := byOrder[o.ID]; p != nil {
			line.PayoutAmount = p.Amount
			line.Reversed = p.ReversedAmount()
			line.PayoutStatus = string(p.Status)
		}
		statement.Lines = append(statement.Lines, line)
	}
	return statement, nil
}

func statementPeriod(req StatementRequest, now time.Time) (time.Time, time.Time, error) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now
	if req.From != "" {
		t, err := parseDate("from", req.From, false)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if req.To != "" {
		t, err := parseDate("to", req.To, true)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, shared.InvalidArgument("Statement period must start before it ends")
	}
	return from, to, nil
}

// parseDate accepts RFC 3339 timestamps and plain dates. A plain end date
// covers the whole day.
func parseDate(name, raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, shared.InvalidArgument("Invalid %s: %s", name, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
