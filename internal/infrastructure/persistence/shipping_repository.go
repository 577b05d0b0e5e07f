package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormShippingProfileRepository implements shipping.ProfileRepository using GORM
type GormShippingProfileRepository struct {
	db *gorm.DB
}

// NewGormShippingProfileRepository creates a new GormShippingProfileRepository
func NewGormShippingProfileRepository(db *gorm.DB) *GormShippingProfileRepository {
	return &GormShippingProfileRepository{db: db}
}

// FindByID finds a shipping profile by ID
func (r *GormShippingProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.ShippingProfile, error) {
	var model models.ShippingProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "ShippingProfile", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists shipping profiles. Supported filters: seller_id and type.
func (r *GormShippingProfileRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipping.ShippingProfile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ShippingProfileModel{})
	if sellerID, ok := filterUUID(filter, "seller_id"); ok {
		query = query.Scopes(sellerScope(sellerID))
	}
	if typ, ok := filterString(filter, "type"); ok {
		query = query.Where("type = ?", typ)
	}

	var rows []models.ShippingProfileModel
	q := listQuery{sortFields: ShippingProfileSortFields, defaultSort: "created_at", searchFields: []string{"name"}}
	total, err := q.find(query, filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.ShippingProfileModel).ToDomain), total, nil
}

// ExistsByName reports whether the seller already has a profile called name
func (r *GormShippingProfileRepository) ExistsByName(ctx context.Context, sellerID uuid.UUID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ShippingProfileModel{}).
		Scopes(sellerScope(sellerID)).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a shipping profile
func (r *GormShippingProfileRepository) Save(ctx context.Context, p *shipping.ShippingProfile) error {
	return persist(r.db.WithContext(ctx), models.ShippingProfileModelFromDomain(p), p.ID, p.Version)
}

// Delete soft deletes a shipping profile
func (r *GormShippingProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ShippingProfileModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("ShippingProfile", id)
	}
	return nil
}

// GormShippingOptionRepository implements shipping.OptionRepository using GORM
type GormShippingOptionRepository struct {
	db *gorm.DB
}

// NewGormShippingOptionRepository creates a new GormShippingOptionRepository
func NewGormShippingOptionRepository(db *gorm.DB) *GormShippingOptionRepository {
	return &GormShippingOptionRepository{db: db}
}

// FindByID finds a shipping option by ID
func (r *GormShippingOptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.ShippingOption, error) {
	var model models.ShippingOptionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "ShippingOption", id)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads shipping options in one query; missing ids are skipped
func (r *GormShippingOptionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]shipping.ShippingOption, error) {
	if len(ids) == 0 {
		return []shipping.ShippingOption{}, nil
	}
	var rows []models.ShippingOptionModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.ShippingOptionModel).ToDomain), nil
}

// FindAll lists shipping options. Supported filters: seller_id,
// shipping_profile_id and currency_code.
func (r *GormShippingOptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipping.ShippingOption, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ShippingOptionModel{})
	if sellerID, ok := filterUUID(filter, "seller_id"); ok {
		query = query.Scopes(sellerScope(sellerID))
	}
	if profileID, ok := filterUUID(filter, "shipping_profile_id"); ok {
		query = query.Where("shipping_profile_id = ?", profileID)
	}
	if currency, ok := filterString(filter, "currency_code"); ok {
		query = query.Where("currency_code = ?", currency)
	}

	var rows []models.ShippingOptionModel
	q := listQuery{sortFields: ShippingOptionSortFields, defaultSort: "created_at", searchFields: []string{"name"}}
	total, err := q.find(query, filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.ShippingOptionModel).ToDomain), total, nil
}

// CountByProfile counts the options of a shipping profile
func (r *GormShippingOptionRepository) CountByProfile(ctx context.Context, profileID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ShippingOptionModel{}).Where("shipping_profile_id = ?", profileID).Count(&count).Error
	return count, err
}

// CountBySeller counts the options of a seller
func (r *GormShippingOptionRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ShippingOptionModel{}).Scopes(sellerScope(sellerID)).Count(&count).Error
	return count, err
}

// Save creates or updates a shipping option
func (r *GormShippingOptionRepository) Save(ctx context.Context, o *shipping.ShippingOption) error {
	return persist(r.db.WithContext(ctx), models.ShippingOptionModelFromDomain(o), o.ID, o.Version)
}

// Delete soft deletes a shipping option
func (r *GormShippingOptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ShippingOptionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("ShippingOption", id)
	}
	return nil
}
