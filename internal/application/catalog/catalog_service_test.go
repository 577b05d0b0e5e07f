package catalog

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

type catalogFixture struct {
	products   *ProductService
	categories *CategoryService
	sellers    *persistence.GormSellerRepository
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	types := persistence.NewGormProductTypeRepository(db)
	categories := persistence.NewGormCategoryRepository(db)
	sellers := persistence.NewGormSellerRepository(db)
	return &catalogFixture{
		products:   NewProductService(persistence.NewGormProductRepository(db), types, categories, sellers, zap.NewNop()),
		categories: NewCategoryService(types, categories, zap.NewNop()),
		sellers:    sellers,
	}
}

func (f *catalogFixture) seller(t *testing.T, name string, active bool) *seller.Seller {
	t.Helper()
	s, err := seller.NewSeller(name, "hello@"+shared.Slugify(name)+".test", active)
	require.NoError(t, err)
	require.NoError(t, f.sellers.Save(context.Background(), s))
	return s
}

func TestProductService_VendorLifecycle(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	s := f.seller(t, "Acme", true)

	shoes, err := f.categories.CreateCategory(ctx, CreateCategoryRequest{Name: "Shoes"})
	require.NoError(t, err)
	kind, err := f.categories.CreateType(ctx, ProductTypeRequest{Value: "Physical"})
	require.NoError(t, err)

	created, err := f.products.Create(ctx, s.ID, CreateProductRequest{
		Title:             "Trail Runner",
		CurrencyCode:      "EUR",
		Price:             decimal.RequireFromString("89.90"),
		InventoryQuantity: 10,
		CategoryID:        &shoes.ID,
		TypeID:            &kind.ID,
		Status:            "proposed",
	})
	require.NoError(t, err)
	assert.Equal(t, "proposed", created.Status)
	assert.Equal(t, "eur", created.CurrencyCode)
	assert.Equal(t, "trail-runner-"+s.ID.String()[:8], created.Handle)

	title := "Trail Runner 2"
	draft := "draft"
	updated, err := f.products.Update(ctx, s.ID, created.ID, UpdateProductRequest{Title: &title, Status: &draft})
	require.NoError(t, err)
	assert.Equal(t, "Trail Runner 2", updated.Title)
	assert.Equal(t, "draft", updated.Status)

	other := f.seller(t, "Other", true)
	_, err = f.products.GetForSeller(ctx, other.ID, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, f.products.Delete(ctx, other.ID, created.ID), shared.ErrNotFound)

	list, err := f.products.ListForSeller(ctx, s.ID, appshared.ListQuery{}, ProductListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Count)

	require.NoError(t, f.products.Delete(ctx, s.ID, created.ID))
	_, err = f.products.GetForSeller(ctx, s.ID, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_SameTitleGetsNumberedHandle(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	s := f.seller(t, "Acme", true)
	req := CreateProductRequest{Title: "Kettle", CurrencyCode: "usd", Price: decimal.NewFromInt(30)}
	base := "kettle-" + s.ID.String()[:8]

	first, err := f.products.Create(ctx, s.ID, req)
	require.NoError(t, err)
	second, err := f.products.Create(ctx, s.ID, req)
	require.NoError(t, err)
	third, err := f.products.Create(ctx, s.ID, req)
	require.NoError(t, err)

	assert.Equal(t, base, first.Handle)
	assert.Equal(t, base+"-2", second.Handle)
	assert.Equal(t, base+"-3", third.Handle)

	list, err := f.products.ListForSeller(ctx, s.ID, appshared.ListQuery{}, ProductListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, list.Count)
}

func TestProductService_InvalidReferences(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	s := f.seller(t, "Acme", true)
	missing := uuid.New()

	_, err := f.products.Create(ctx, s.ID, CreateProductRequest{
		Title: "Mug", CurrencyCode: "usd", Price: decimal.NewFromInt(5), CategoryID: &missing,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	inactive := false
	archived, err := f.categories.CreateCategory(ctx, CreateCategoryRequest{Name: "Archive", IsActive: &inactive})
	require.NoError(t, err)
	_, err = f.products.Create(ctx, s.ID, CreateProductRequest{
		Title: "Mug", CurrencyCode: "usd", Price: decimal.NewFromInt(5), CategoryID: &archived.ID,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func TestProductService_SuspendedSellerCannotOperate(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	s := f.seller(t, "Shady", true)
	require.NoError(t, s.ChangeStoreStatus(seller.StoreStatusSuspended, "review"))
	require.NoError(t, f.sellers.Save(ctx, s))

	_, err := f.products.Create(ctx, s.ID, CreateProductRequest{Title: "Thing", CurrencyCode: "usd", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, shared.ErrNotAllowed)
}

func TestProductService_ReviewAndStorefront(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	active := f.seller(t, "Open Shop", true)
	inactive := f.seller(t, "Closed Shop", false)

	newProduct := func(sellerID uuid.UUID, title string) *ProductResponse {
		p, err := f.products.Create(ctx, sellerID, CreateProductRequest{
			Title: title, CurrencyCode: "usd", Price: decimal.NewFromInt(20), Status: "proposed",
		})
		require.NoError(t, err)
		return p
	}
	published := newProduct(active.ID, "Lamp")
	pending := newProduct(active.ID, "Chair")
	hidden := newProduct(inactive.ID, "Table")

	_, err := f.products.Review(ctx, published.ID, ReviewProductRequest{Status: "published"})
	require.NoError(t, err)
	_, err = f.products.Review(ctx, hidden.ID, ReviewProductRequest{Status: "published"})
	require.NoError(t, err)

	_, err = f.products.Review(ctx, pending.ID, ReviewProductRequest{Status: "rejected"})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	rejected, err := f.products.Review(ctx, pending.ID, ReviewProductRequest{Status: "rejected", Reason: "blurry photos"})
	require.NoError(t, err)
	assert.Equal(t, "blurry photos", rejected.RejectionReason)

	// published products can not be rejected directly
	_, err = f.products.Review(ctx, published.ID, ReviewProductRequest{Status: "rejected", Reason: "late"})
	assert.ErrorIs(t, err, shared.ErrNotAllowed)

	store, err := f.products.ListStore(ctx, appshared.ListQuery{}, ProductListFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, store.Count)
	assert.Equal(t, published.ID, store.Items[0].ID)

	_, err = f.products.GetStore(ctx, published.ID)
	assert.NoError(t, err)
	_, err = f.products.GetStore(ctx, hidden.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = f.products.GetStore(ctx, pending.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	all, err := f.products.List(ctx, appshared.ListQuery{}, ProductListFilter{Status: "published"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Count)

	_, err = f.products.List(ctx, appshared.ListQuery{}, ProductListFilter{SellerID: "not-a-uuid"})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func TestCategoryService_Tree(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	root, err := f.categories.CreateCategory(ctx, CreateCategoryRequest{Name: "Apparel"})
	require.NoError(t, err)
	child, err := f.categories.CreateCategory(ctx, CreateCategoryRequest{Name: "Shirts", ParentID: &root.ID, Rank: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, child.Level)
	assert.Equal(t, &root.ID, child.ParentID)

	missing := uuid.New()
	_, err = f.categories.CreateCategory(ctx, CreateCategoryRequest{Name: "Orphan", ParentID: &missing})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	roots, err := f.categories.ListCategories(ctx, appshared.ListQuery{}, CategoryListFilter{ParentID: "null"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, roots.Count)

	children, err := f.categories.ListCategories(ctx, appshared.ListQuery{}, CategoryListFilter{ParentID: root.ID.String()})
	require.NoError(t, err)
	require.EqualValues(t, 1, children.Count)
	assert.Equal(t, child.ID, children.Items[0].ID)

	assert.ErrorIs(t, f.categories.DeleteCategory(ctx, root.ID), shared.ErrNotAllowed)
	require.NoError(t, f.categories.DeleteCategory(ctx, child.ID))
	require.NoError(t, f.categories.DeleteCategory(ctx, root.ID))
	assert.ErrorIs(t, f.categories.DeleteCategory(ctx, root.ID), shared.ErrNotFound)
}

func TestCategoryService_ProductTypes(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	created, err := f.categories.CreateType(ctx, ProductTypeRequest{Value: "Digital"})
	require.NoError(t, err)
	renamed, err := f.categories.UpdateType(ctx, created.ID, ProductTypeRequest{Value: "Downloadable"})
	require.NoError(t, err)
	assert.Equal(t, "Downloadable", renamed.Value)

	list, err := f.categories.ListTypes(ctx, appshared.ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Count)

	require.NoError(t, f.categories.DeleteType(ctx, created.ID))
	_, err = f.categories.GetType(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
