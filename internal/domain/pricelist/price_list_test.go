package pricelist

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func activeList(t *testing.T, sellerID uuid.UUID, listType Type) *PriceList {
	t.Helper()
	l, err := NewPriceList(sellerID, "Summer", listType)
	require.NoError(t, err)
	active := StatusActive
	require.NoError(t, l.Update(PriceListUpdate{Status: &active}))
	return l
}

func TestPriceList_Update(t *testing.T) {
	l, err := NewPriceList(uuid.New(), "Sale", TypeSale)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, l.Status)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	err = l.Update(PriceListUpdate{StartsAt: &start, EndsAt: &end})
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))

	bad := Type("clearance")
	_, err = NewPriceList(uuid.New(), "x", bad)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestPriceList_AddRemovePrice(t *testing.T) {
	l := activeList(t, uuid.New(), TypeSale)

	p, err := l.AddPrice(uuid.New(), "EUR", decimal.RequireFromString("9.999"), intPtr(2), intPtr(10))
	require.NoError(t, err)
	assert.Equal(t, "eur", p.CurrencyCode)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("10.00")))

	_, err = l.AddPrice(uuid.New(), "eur", decimal.NewFromInt(1), intPtr(5), intPtr(2))
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))

	_, err = l.AddPrice(uuid.New(), "eur", decimal.NewFromInt(-1), nil, nil)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))

	require.NoError(t, l.RemovePrice(p.ID))
	assert.Empty(t, l.Prices)
	assert.True(t, errors.Is(l.RemovePrice(p.ID), shared.ErrNotFound))
}

func TestPriceList_IsEffective(t *testing.T) {
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	l := activeList(t, uuid.New(), TypeSale)
	assert.True(t, l.IsEffective(now))

	start := now.Add(time.Hour)
	l.StartsAt = &start
	assert.False(t, l.IsEffective(now))

	l.StartsAt = nil
	end := now
	l.EndsAt = &end
	assert.False(t, l.IsEffective(now), "window end is exclusive")

	l.EndsAt = nil
	l.Status = StatusDraft
	assert.False(t, l.IsEffective(now))
}

func TestResolvePrice(t *testing.T) {
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	sellerID := uuid.New()
	productID := uuid.New()
	base := decimal.NewFromInt(100)

	sale := activeList(t, sellerID, TypeSale)
	_, err := sale.AddPrice(productID, "eur", decimal.NewFromInt(80), nil, nil)
	require.NoError(t, err)
	_, err = sale.AddPrice(productID, "eur", decimal.NewFromInt(70), intPtr(5), nil)
	require.NoError(t, err)

	expensiveSale := activeList(t, sellerID, TypeSale)
	_, err = expensiveSale.AddPrice(productID, "eur", decimal.NewFromInt(120), nil, nil)
	require.NoError(t, err)

	override := activeList(t, sellerID, TypeOverride)
	_, err = override.AddPrice(productID, "eur", decimal.NewFromInt(110), nil, nil)
	require.NoError(t, err)
	dollarSale := activeList(t, sellerID, TypeSale)
	_, err = dollarSale.AddPrice(productID, "usd", decimal.NewFromInt(130), nil, nil)
	require.NoError(t, err)

	cheaperOverride := activeList(t, sellerID, TypeOverride)
	_, err = cheaperOverride.AddPrice(productID, "eur", decimal.NewFromInt(105), nil, nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		lists    []PriceList
		currency string
		quantity int
		want     int64
		source   PriceSource
	}{
		{"no lists uses base", nil, "eur", 1, 100, PriceSourceBase},
		{"sale below base", []PriceList{*sale}, "eur", 1, 80, PriceSourceSale},
		{"quantity tier", []PriceList{*sale}, "eur", 5, 70, PriceSourceSale},
		{"sale above base ignored", []PriceList{*expensiveSale}, "eur", 1, 100, PriceSourceBase},
		{"override wins over sale even when higher", []PriceList{*sale, *override}, "eur", 1, 110, PriceSourceOverride},
		{"lowest override", []PriceList{*override, *cheaperOverride}, "eur", 1, 105, PriceSourceOverride},
		{"other currency", []PriceList{*sale}, "usd", 1, 100, PriceSourceBase},
		{"sale in a currency the base is not priced in", []PriceList{*dollarSale}, "usd", 1, 130, PriceSourceSale},
		{"currency code is normalized", []PriceList{*sale}, " EUR ", 1, 80, PriceSourceSale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePrice(productID, base, "eur", tt.currency, tt.quantity, tt.lists, now)
			assert.True(t, got.Amount.Equal(decimal.NewFromInt(tt.want)), "got %s", got.Amount)
			assert.Equal(t, tt.source, got.Source)
			if tt.source == PriceSourceBase {
				assert.Nil(t, got.PriceListID)
			} else {
				assert.NotNil(t, got.PriceListID)
			}
		})
	}
}
