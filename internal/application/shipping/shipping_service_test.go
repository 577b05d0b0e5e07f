package shipping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newShippingFixture(t *testing.T) (*ShippingService, *persistence.GormSellerRepository) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	sellers := persistence.NewGormSellerRepository(db)
	svc := NewShippingService(
		persistence.NewGormShippingProfileRepository(db),
		persistence.NewGormShippingOptionRepository(db),
		sellers, zap.NewNop())
	return svc, sellers
}

func saveSeller(t *testing.T, repo *persistence.GormSellerRepository, name string, active bool) *seller.Seller {
	t.Helper()
	s, err := seller.NewSeller(name, "ship@example.test", active)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), s))
	return s
}

func TestShippingService_SellerCreatedHandler(t *testing.T) {
	svc, sellers := newShippingFixture(t)
	ctx := context.Background()
	s := saveSeller(t, sellers, "Acme", true)
	handler := NewSellerCreatedHandler(svc, zap.NewNop())

	assert.Equal(t, []string{seller.EventTypeSellerCreated}, handler.EventTypes())
	event := seller.NewSellerCreatedEvent(s)
	require.NoError(t, handler.Handle(ctx, event))
	// redelivery must not create a second default profile
	require.NoError(t, handler.Handle(ctx, event))

	profiles, err := svc.ListProfilesForSeller(ctx, s.ID, appshared.ListQuery{}, ShippingProfileFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, profiles.Count)
	assert.Equal(t, "default", profiles.Items[0].Type)

	assert.Error(t, handler.Handle(ctx, seller.NewSellerUpdatedEvent(s)))
}

func TestShippingService_Profiles(t *testing.T) {
	svc, _ := newShippingFixture(t)
	ctx := context.Background()
	sellerID := uuid.New()

	_, err := svc.EnsureDefaultProfile(ctx, sellerID)
	require.NoError(t, err)
	defaults, err := svc.ListProfilesForSeller(ctx, sellerID, appshared.ListQuery{}, ShippingProfileFilter{Type: "default"})
	require.NoError(t, err)
	require.EqualValues(t, 1, defaults.Count)
	assert.ErrorIs(t, svc.DeleteProfile(ctx, sellerID, defaults.Items[0].ID), shared.ErrNotAllowed)

	express, err := svc.CreateProfile(ctx, sellerID, ShippingProfileRequest{Name: "Express"})
	require.NoError(t, err)
	assert.Equal(t, "custom", express.Type)

	_, err = svc.CreateProfile(ctx, sellerID, ShippingProfileRequest{Name: "Express"})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
	// names are unique per seller only
	_, err = svc.CreateProfile(ctx, uuid.New(), ShippingProfileRequest{Name: "Express"})
	assert.NoError(t, err)

	renamed, err := svc.UpdateProfile(ctx, sellerID, express.ID, ShippingProfileRequest{Name: "Next day"})
	require.NoError(t, err)
	assert.Equal(t, "Next day", renamed.Name)

	_, err = svc.GetProfile(ctx, uuid.New(), express.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	option, err := svc.CreateOption(ctx, sellerID, CreateShippingOptionRequest{
		ShippingProfileID: express.ID, Name: "Courier", CurrencyCode: "EUR", Amount: decimal.RequireFromString("9.999"),
	})
	require.NoError(t, err)
	assert.Equal(t, "eur", option.CurrencyCode)
	assert.True(t, decimal.NewFromInt(10).Equal(option.Amount))

	assert.ErrorIs(t, svc.DeleteProfile(ctx, sellerID, express.ID), shared.ErrNotAllowed)
	require.NoError(t, svc.DeleteOption(ctx, sellerID, option.ID))
	require.NoError(t, svc.DeleteProfile(ctx, sellerID, express.ID))

	all, err := svc.ListProfiles(ctx, appshared.ListQuery{}, ShippingProfileFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Count)
}

func TestShippingService_Options(t *testing.T) {
	svc, sellers := newShippingFixture(t)
	ctx := context.Background()
	open := saveSeller(t, sellers, "Open", true)
	closed := saveSeller(t, sellers, "Closed", false)

	for _, s := range []*seller.Seller{open, closed} {
		_, err := svc.EnsureDefaultProfile(ctx, s.ID)
		require.NoError(t, err)
	}
	profileOf := func(sellerID uuid.UUID) uuid.UUID {
		list, err := svc.ListProfilesForSeller(ctx, sellerID, appshared.ListQuery{}, ShippingProfileFilter{})
		require.NoError(t, err)
		require.NotEmpty(t, list.Items)
		return list.Items[0].ID
	}

	_, err := svc.CreateOption(ctx, open.ID, CreateShippingOptionRequest{
		ShippingProfileID: profileOf(closed.ID), Name: "Stolen", CurrencyCode: "usd", Amount: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	standard, err := svc.CreateOption(ctx, open.ID, CreateShippingOptionRequest{
		ShippingProfileID: profileOf(open.ID), Name: "Standard", CurrencyCode: "usd", Amount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	_, err = svc.CreateOption(ctx, open.ID, CreateShippingOptionRequest{
		ShippingProfileID: profileOf(open.ID), Name: "Standard EU", CurrencyCode: "eur", Amount: decimal.NewFromInt(6),
	})
	require.NoError(t, err)
	_, err = svc.CreateOption(ctx, closed.ID, CreateShippingOptionRequest{
		ShippingProfileID: profileOf(closed.ID), Name: "Standard", CurrencyCode: "usd", Amount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	name := "Economy"
	amount := decimal.NewFromInt(4)
	updated, err := svc.UpdateOption(ctx, open.ID, standard.ID, UpdateShippingOptionRequest{Name: &name, Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "Economy", updated.Name)
	_, err = svc.UpdateOption(ctx, closed.ID, standard.ID, UpdateShippingOptionRequest{Name: &name})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	store, err := svc.ListStoreOptions(ctx, appshared.ListQuery{}, ShippingOptionFilter{SellerID: open.ID.String(), CurrencyCode: "USD"})
	require.NoError(t, err)
	require.EqualValues(t, 1, store.Count)
	assert.Equal(t, "Economy", store.Items[0].Name)

	_, err = svc.ListStoreOptions(ctx, appshared.ListQuery{}, ShippingOptionFilter{SellerID: closed.ID.String()})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = svc.ListStoreOptions(ctx, appshared.ListQuery{}, ShippingOptionFilter{})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	mine, err := svc.ListOptionsForSeller(ctx, open.ID, appshared.ListQuery{}, ShippingOptionFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.Count)
}
