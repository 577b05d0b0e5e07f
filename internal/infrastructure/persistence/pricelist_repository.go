package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/pricelist"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPriceListRepository implements pricelist.PriceListRepository using GORM
type GormPriceListRepository struct {
	db *gorm.DB
}

// NewGormPriceListRepository creates a new GormPriceListRepository
func NewGormPriceListRepository(db *gorm.DB) *GormPriceListRepository {
	return &GormPriceListRepository{db: db}
}

func preloadPrices(db *gorm.DB) *gorm.DB {
	return db.Preload("Prices")
}

// FindByID finds a price list with its prices
func (r *GormPriceListRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricelist.PriceList, error) {
	var model models.PriceListModel
	if err := r.db.WithContext(ctx).Scopes(preloadPrices).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "PriceList", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists price lists. Supported filters: seller_id, status and type.
func (r *GormPriceListRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricelist.PriceList, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PriceListModel{})
	if sellerID, ok := filterUUID(filter, "seller_id"); ok {
		query = query.Scopes(sellerScope(sellerID))
	}
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if typ, ok := filterString(filter, "type"); ok {
		query = query.Where("type = ?", typ)
	}

	var rows []models.PriceListModel
	q := listQuery{sortFields: PriceListSortFields, defaultSort: "created_at", searchFields: []string{"title"}, preload: preloadPrices}
	total, err := q.find(query, filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.PriceListModel).ToDomain), total, nil
}

// FindEffectiveForProducts returns the active lists valid at now that price
// any of productIDs. Only the prices of those products are loaded.
func (r *GormPriceListRepository) FindEffectiveForProducts(ctx context.Context, productIDs []uuid.UUID, now time.Time) ([]pricelist.PriceList, error) {
	if len(productIDs) == 0 {
		return []pricelist.PriceList{}, nil
	}
	var rows []models.PriceListModel
	err := r.db.WithContext(ctx).
		Preload("Prices", "product_id IN ?", productIDs).
		Where("status = ?", pricelist.StatusActive).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at >= ?", now).
		Where("id IN (?)", r.db.Model(&models.PriceModel{}).Select("price_list_id").Where("product_id IN ?", productIDs)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.PriceListModel).ToDomain), nil
}

// Save creates or updates a price list, replacing its prices
func (r *GormPriceListRepository) Save(ctx context.Context, pl *pricelist.PriceList) error {
	model := models.PriceListModelFromDomain(pl)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persist(tx, model, pl.ID, pl.Version); err != nil {
			return err
		}
		return replaceChildren(tx, "price_list_id", pl.ID, model.Prices)
	})
}

// Delete soft deletes a price list
func (r *GormPriceListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PriceListModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("PriceList", id)
	}
	return nil
}
