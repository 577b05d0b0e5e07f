package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/commission"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/wishlist"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: opens a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type recordingSaver struct {
	events []shared.DomainEvent
}

func (s *recordingSaver) SaveEvents(_ context.Context, tx any, events ...shared.DomainEvent) error {
	if _, ok := tx.(*gorm.DB); !ok {
		panic("outbox saver called without a transaction")
	}
	s.events = append(s.events, events...)
	return nil
}

func newTestSeller(t *testing.T, name string) *seller.Seller {
	t.Helper()
	s, err := seller.NewSeller(name, "owner@"+shared.Slugify(name)+".test", true)
	require.NoError(t, err)
	return s
}

func placeTestOrder(t *testing.T, sellerID uuid.UUID, setID uuid.UUID) *order.Order {
	t.Helper()
	o, err := order.PlaceOrder(order.PlaceOrderInput{
		OrderSetID:   setID,
		SellerID:     sellerID,
		CustomerID:   uuid.New(),
		Email:        "buyer@example.com",
		CurrencyCode: "eur",
		Items: []order.LineItemInput{
			{ProductID: uuid.New(), Title: "Mug", Quantity: 2, UnitPrice: decimal.RequireFromString("12.50")},
			{ProductID: uuid.New(), Title: "Plate", Quantity: 1, UnitPrice: decimal.RequireFromString("20")},
		},
		ShippingAmount: decimal.RequireFromString("5"),
	})
	require.NoError(t, err)
	return o
}

func TestGormSellerRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSellerRepository(db)
	saver := &recordingSaver{}
	repo.SetOutboxEventSaver(saver)
	ctx := context.Background()

	s := newTestSeller(t, "Acme Goods")
	require.NoError(t, repo.Save(ctx, s))
	assert.Len(t, saver.events, 1)

	t.Run("finds by id and handle", func(t *testing.T) {
		found, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Goods", found.Name)
		assert.Equal(t, seller.StoreStatusActive, found.StoreStatus)

		byHandle, err := repo.FindByHandle(ctx, "acme-goods")
		require.NoError(t, err)
		assert.Equal(t, s.ID, byHandle.ID)

		exists, err := repo.ExistsByHandle(ctx, "acme-goods")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("missing seller is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("updates with a newer version", func(t *testing.T) {
		found, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		require.NoError(t, found.ChangeStoreStatus(seller.StoreStatusSuspended, "fraud review"))
		require.NoError(t, repo.Save(ctx, found))

		reloaded, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, seller.StoreStatusSuspended, reloaded.StoreStatus)
		assert.Equal(t, found.Version, reloaded.Version)
	})

	t.Run("stale write is a conflict", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		fresh, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)

		require.NoError(t, fresh.ChangeStoreStatus(seller.StoreStatusActive, ""))
		require.NoError(t, repo.Save(ctx, fresh))

		require.NoError(t, stale.ChangeStoreStatus(seller.StoreStatusActive, ""))
		assert.ErrorIs(t, repo.Save(ctx, stale), shared.ErrConflict)
	})

	t.Run("duplicate handle is rejected", func(t *testing.T) {
		dup := newTestSeller(t, "Acme Goods")
		err := repo.Save(ctx, dup)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeDuplicate, domainErr.Code)
	})

	t.Run("lists with search", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newTestSeller(t, "Blue Ceramics")))

		sellers, total, err := repo.FindAll(ctx, shared.Filter{Search: "ceramic", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, sellers, 1)
		assert.Equal(t, "Blue Ceramics", sellers[0].Name)
	})
}

func TestGormOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()
	setID := uuid.New()

	o := placeTestOrder(t, sellerID, setID)
	id, err := repo.NextDisplayID(ctx)
	require.NoError(t, err)
	o.DisplayID = id
	require.NoError(t, repo.Save(ctx, o))

	t.Run("display ids increase", func(t *testing.T) {
		next, err := repo.NextDisplayID(ctx)
		require.NoError(t, err)
		assert.Equal(t, id+1, next)
	})

	t.Run("loads items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Len(t, found.Items, 2)
		assert.True(t, o.Total.Equal(found.Total))
		assert.Equal(t, "eur", found.CurrencyCode)
	})

	t.Run("seller scoped lookup hides other sellers' orders", func(t *testing.T) {
		_, err := repo.FindByIDForSeller(ctx, uuid.New(), o.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repo.FindByIDForSeller(ctx, sellerID, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.ID, found.ID)
	})

	t.Run("loads orders of many sets in one call", func(t *testing.T) {
		other := placeTestOrder(t, uuid.New(), uuid.New())
		require.NoError(t, repo.Save(ctx, other))

		orders, err := repo.FindByOrderSets(ctx, []uuid.UUID{setID, other.OrderSetID})
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("saving replaces items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		require.NoError(t, found.Cancel())
		require.NoError(t, repo.Save(ctx, found))

		reloaded, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCanceled, reloaded.Status)
		assert.Len(t, reloaded.Items, 2)
	})
}

func TestGormCommissionLineRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCommissionLineRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()
	orderA, orderB := uuid.New(), uuid.New()

	line := func(orderID uuid.UUID, itemLine, value, currency string) commission.Line {
		return commission.Line{
			ID:           uuid.New(),
			OrderID:      orderID,
			SellerID:     sellerID,
			ItemLineID:   itemLine,
			RuleID:       uuid.New(),
			Code:         "default",
			CurrencyCode: currency,
			Value:        decimal.RequireFromString(value),
			CreatedAt:    time.Now(),
		}
	}

	lines := []commission.Line{
		line(orderA, "item-1", "2.50", "eur"),
		line(orderA, commission.ShippingLineID, "0.50", "eur"),
		line(orderB, "item-2", "4", "usd"),
	}
	require.NoError(t, repo.SaveBatch(ctx, lines))

	t.Run("saving again skips existing lines", func(t *testing.T) {
		require.NoError(t, repo.SaveBatch(ctx, []commission.Line{line(orderA, "item-1", "9.99", "eur")}))

		_, total, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]any{"order_id": orderA}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("sums per order", func(t *testing.T) {
		sums, err := repo.SumByOrders(ctx, []uuid.UUID{orderA, orderB, uuid.New()})
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("3").Equal(sums[orderA]))
		assert.True(t, decimal.RequireFromString("4").Equal(sums[orderB]))
		assert.Len(t, sums, 2)
	})

	t.Run("totals per currency", func(t *testing.T) {
		totals, err := repo.Totals(ctx, shared.Filter{Filters: map[string]any{"seller_id": sellerID}})
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, "eur", totals[0].CurrencyCode)
		assert.True(t, decimal.RequireFromString("3").Equal(totals[0].Total))
		assert.Equal(t, "usd", totals[1].CurrencyCode)
	})

	t.Run("exists for order", func(t *testing.T) {
		exists, err := repo.ExistsForOrder(ctx, orderB)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsForOrder(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormCommissionRuleRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCommissionRuleRepository(db)
	ctx := context.Background()

	sellerID := uuid.New()
	rule, err := commission.NewRule("Seller rate", commission.ReferenceSeller, sellerID.String(), commission.Rate{
		Type:           commission.RateTypePercentage,
		PercentageRate: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rule))

	exists, err := repo.ExistsActive(ctx, commission.ReferenceSeller, sellerID.String(), uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsActive(ctx, commission.ReferenceSeller, sellerID.String(), rule.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	inactive := false
	require.NoError(t, rule.Update(commission.RuleUpdate{IsActive: &inactive}))
	require.NoError(t, repo.Save(ctx, rule))

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, repo.Delete(ctx, rule.ID))
	_, err = repo.FindByID(ctx, rule.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormReferenceLookup(t *testing.T) {
	db := setupTestDB(t)
	sellers := NewGormSellerRepository(db)
	lookup := NewGormReferenceLookup(db)
	ctx := context.Background()

	a := newTestSeller(t, "Alpha")
	b := newTestSeller(t, "Beta")
	require.NoError(t, sellers.Save(ctx, a))
	require.NoError(t, sellers.Save(ctx, b))

	names, err := lookup.SellerNames(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{a.ID: "Alpha", b.ID: "Beta"}, names)

	empty, err := lookup.CategoryNames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormPayoutAccountRepository_FindBySellers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPayoutAccountRepository(db)
	ctx := context.Background()

	sellerA, sellerB := uuid.New(), uuid.New()
	accA, err := payout.NewPayoutAccount(sellerA, "acct_a", map[string]any{"country": "DE"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, accA))

	accounts, err := repo.FindBySellers(ctx, []uuid.UUID{sellerA, sellerB})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "acct_a", accounts[sellerA].ReferenceID)
	assert.Equal(t, "DE", accounts[sellerA].Data["country"])

	byRef, err := repo.FindByReference(ctx, "acct_a")
	require.NoError(t, err)
	assert.Equal(t, accA.ID, byRef.ID)
}

func TestGormPayoutRepository_FindRetryable(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewGormPayoutAccountRepository(db)
	repo := NewGormPayoutRepository(db)
	ctx := context.Background()

	account, err := payout.NewPayoutAccount(uuid.New(), "acct_a", nil)
	require.NoError(t, err)
	require.NoError(t, accounts.Save(ctx, account))

	newPayout := func(mark func(p *payout.Payout)) *payout.Payout {
		p, err := payout.NewPayout(account, uuid.New(), decimal.NewFromInt(10), "eur")
		require.NoError(t, err)
		if mark != nil {
			mark(p)
		}
		require.NoError(t, repo.Save(ctx, p))
		return p
	}
	failed := newPayout(func(p *payout.Payout) { require.NoError(t, p.MarkFailed("declined")) })
	pending := newPayout(nil)
	newPayout(func(p *payout.Payout) { require.NoError(t, p.MarkPaid("tr_1", time.Now())) })

	ids := func(payouts []payout.Payout) []uuid.UUID {
		out := make([]uuid.UUID, len(payouts))
		for i, p := range payouts {
			out[i] = p.ID
		}
		return out
	}

	recent, err := repo.FindRetryable(ctx, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{failed.ID}, ids(recent), "fresh pending payouts may still be in flight")

	stale, err := repo.FindRetryable(ctx, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{failed.ID, pending.ID}, ids(stale))

	limited, err := repo.FindRetryable(ctx, time.Now().Add(time.Minute), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGormWishlistRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWishlistRepository(db)
	ctx := context.Background()
	customerID := uuid.New()

	_, err := repo.FindByCustomer(ctx, customerID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	w := wishlist.NewWishlist(customerID)
	productA, productB := uuid.New(), uuid.New()
	w.Add(productA, time.Now().Add(-time.Minute))
	require.NoError(t, repo.Save(ctx, w))

	found, err := repo.FindByCustomer(ctx, customerID)
	require.NoError(t, err)
	found.Add(productB, time.Now())
	require.NoError(t, repo.Save(ctx, found))

	reloaded, err := repo.FindByCustomer(ctx, customerID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{productA, productB}, reloaded.ProductIDs())
}

func TestGormTransactionScope_RollsBack(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db, nil)
	ctx := context.Background()
	o := placeTestOrder(t, uuid.New(), uuid.New())

	err := scope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		return shared.NotAllowed("abort")
	})
	require.Error(t, err)

	_, err = NewGormOrderRepository(db).FindByID(ctx, o.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
