package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	outboxWriter
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Product", id)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads products in one query; missing ids are skipped
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.ProductModel).ToDomain), nil
}

// FindByIDForSeller finds a product owned by sellerID. Products of other
// sellers are reported as not found.
func (r *GormProductRepository) FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Scopes(sellerScope(sellerID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Product", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists products. Supported filters: seller_id, status, type_id,
// category_id, published_only and active_sellers.
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if sellerID, ok := filterUUID(filter, "seller_id"); ok {
		query = query.Scopes(sellerScope(sellerID))
	}
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if typeID, ok := filterUUID(filter, "type_id"); ok {
		query = query.Where("type_id = ?", typeID)
	}
	if categoryID, ok := filterUUID(filter, "category_id"); ok {
		query = query.Where("category_id = ?", categoryID)
	}
	if published, ok := filterBool(filter, "published_only"); ok && published {
		query = query.Where("status = ?", catalog.ProductStatusPublished)
	}
	if active, ok := filterBool(filter, "active_sellers"); ok && active {
		sellers := r.db.WithContext(ctx).Model(&models.SellerModel{}).
			Select("id").
			Where("store_status = ?", seller.StoreStatusActive)
		query = query.Where("seller_id IN (?)", sellers)
	}

	var rows []models.ProductModel
	q := listQuery{sortFields: ProductSortFields, defaultSort: "created_at", searchFields: []string{"title", "handle", "description"}}
	total, err := q.find(query, filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.ProductModel).ToDomain), total, nil
}

// CountBySeller counts the products of a seller
func (r *GormProductRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Scopes(sellerScope(sellerID)).Count(&count).Error
	return count, err
}

// Save creates or updates a product with its pending events
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return r.save(ctx, r.db, p, models.ProductModelFromDomain(p), nil)
}

// Delete soft deletes a product and removes its attribute values
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.ProductModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("Product", id)
		}
		return tx.Where("product_id = ?", id).Delete(&models.AttributeValueModel{}).Error
	})
}

// GormProductTypeRepository implements catalog.ProductTypeRepository using GORM
type GormProductTypeRepository struct {
	db *gorm.DB
}

// NewGormProductTypeRepository creates a new GormProductTypeRepository
func NewGormProductTypeRepository(db *gorm.DB) *GormProductTypeRepository {
	return &GormProductTypeRepository{db: db}
}

// FindByID finds a product type by ID
func (r *GormProductTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductType, error) {
	var model models.ProductTypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "ProductType", id)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads product types in one query; missing ids are skipped
func (r *GormProductTypeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ProductType, error) {
	if len(ids) == 0 {
		return []catalog.ProductType{}, nil
	}
	var rows []models.ProductTypeModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.ProductTypeModel).ToDomain), nil
}

// FindAll lists product types
func (r *GormProductTypeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ProductType, int64, error) {
	var rows []models.ProductTypeModel
	q := listQuery{sortFields: ProductTypeSortFields, defaultSort: "value", searchFields: []string{"value"}}
	total, err := q.find(r.db.WithContext(ctx).Model(&models.ProductTypeModel{}), filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.ProductTypeModel).ToDomain), total, nil
}

// Save creates or updates a product type
func (r *GormProductTypeRepository) Save(ctx context.Context, t *catalog.ProductType) error {
	return persist(r.db.WithContext(ctx), models.ProductTypeModelFromDomain(t), t.ID, t.Version)
}

// Delete soft deletes a product type
func (r *GormProductTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductTypeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("ProductType", id)
	}
	return nil
}

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	outboxWriter
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductCategory, error) {
	var model models.ProductCategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "ProductCategory", id)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads categories in one query; missing ids are skipped
func (r *GormCategoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ProductCategory, error) {
	if len(ids) == 0 {
		return []catalog.ProductCategory{}, nil
	}
	var rows []models.ProductCategoryModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.ProductCategoryModel).ToDomain), nil
}

// FindAll lists categories. Supported filters: parent_id ("null" for roots)
// and is_active.
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ProductCategory, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductCategoryModel{})
	if parent, ok := filterString(filter, "parent_id"); ok && parent == "null" {
		query = query.Where("parent_id IS NULL")
	} else if parentID, ok := filterUUID(filter, "parent_id"); ok {
		query = query.Where("parent_id = ?", parentID)
	}
	if active, ok := filterBool(filter, "is_active"); ok {
		query = query.Where("is_active = ?", active)
	}

	var rows []models.ProductCategoryModel
	q := listQuery{sortFields: CategorySortFields, defaultSort: "rank", searchFields: []string{"name", "handle"}}
	total, err := q.find(query, filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.ProductCategoryModel).ToDomain), total, nil
}

// HasChildren reports whether any category has id as parent
func (r *GormCategoryRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductCategoryModel{}).Where("parent_id = ?", id).Count(&count).Error
	return count > 0, err
}

// Save creates or updates a category with its pending events
func (r *GormCategoryRepository) Save(ctx context.Context, c *catalog.ProductCategory) error {
	return r.save(ctx, r.db, c, models.ProductCategoryModelFromDomain(c), nil)
}

// Delete soft deletes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductCategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("ProductCategory", id)
	}
	return nil
}
