package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWishlistService(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	products := persistence.NewGormProductRepository(db)
	sellers := persistence.NewGormSellerRepository(db)
	service := NewWishlistService(persistence.NewGormWishlistRepository(db), products, sellers, zap.NewNop())

	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	acme, err := seller.NewSeller("Acme", "shop@acme.test", true)
	require.NoError(t, err)
	require.NoError(t, sellers.Save(ctx, acme))

	product := func(title string, publish bool) *catalog.Product {
		p, err := catalog.NewProduct(acme.ID, title, "usd", decimal.NewFromInt(25))
		require.NoError(t, err)
		if publish {
			require.NoError(t, p.ChangeStatus(catalog.ProductStatusProposed, ""))
			require.NoError(t, p.ChangeStatus(catalog.ProductStatusPublished, ""))
		}
		require.NoError(t, products.Save(ctx, p))
		return p
	}
	boots := product("Boots", true)
	hat := product("Hat", true)
	draft := product("Draft", false)
	customer := uuid.New()

	empty, err := service.Get(ctx, customer)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	_, err = service.Add(ctx, customer, AddItemRequest{ReferenceID: draft.ID})
	assert.ErrorIs(t, err, shared.ErrNotAllowed)
	_, err = service.Add(ctx, customer, AddItemRequest{ReferenceID: uuid.New()})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = service.Add(ctx, customer, AddItemRequest{ReferenceID: boots.ID})
	require.NoError(t, err)
	list, err := service.Add(ctx, customer, AddItemRequest{ReferenceID: hat.ID})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, hat.ID, list.Items[0].ProductID, "most recent first")
	assert.Equal(t, boots.ID, list.Items[1].ProductID)
	require.NotNil(t, list.Items[0].Seller)
	assert.Equal(t, "Acme", list.Items[0].Seller.Name)
	assert.True(t, list.Items[0].Available)
	assert.True(t, decimal.NewFromInt(25).Equal(list.Items[0].Price))

	again, err := service.Add(ctx, customer, AddItemRequest{ReferenceID: boots.ID})
	require.NoError(t, err)
	assert.Len(t, again.Items, 2, "adding twice is a no-op")

	stored, err := service.Get(ctx, customer)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, customer, stored.CustomerID)

	removed, err := service.Remove(ctx, customer, hat.ID)
	require.NoError(t, err)
	require.Len(t, removed.Items, 1)
	assert.Equal(t, boots.ID, removed.Items[0].ProductID)

	_, err = service.Remove(ctx, customer, hat.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = service.Remove(ctx, uuid.New(), hat.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
