package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/attribute"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAttributeRepository implements attribute.AttributeRepository using GORM
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewGormAttributeRepository creates a new GormAttributeRepository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

func preloadAttribute(db *gorm.DB) *gorm.DB {
	return db.
		Preload("PossibleValues", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Preload("Categories")
}

// globalOrLinked matches attributes without category links plus those linked to categoryID
func globalOrLinked(db *gorm.DB, categoryID *uuid.UUID) *gorm.DB {
	global := "NOT EXISTS (SELECT 1 FROM attribute_categories ac WHERE ac.attribute_id = attributes.id)"
	if categoryID == nil {
		return db.Where(global)
	}
	return db.Where(global+" OR EXISTS (SELECT 1 FROM attribute_categories ac WHERE ac.attribute_id = attributes.id AND ac.product_category_id = ?)", *categoryID)
}

// FindByID finds an attribute by ID with its possible values
func (r *GormAttributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*attribute.Attribute, error) {
	var model models.AttributeModel
	if err := r.db.WithContext(ctx).Scopes(preloadAttribute).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Attribute", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists attributes. category_id restricts to attributes that apply
// to that category, global attributes included.
func (r *GormAttributeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]attribute.Attribute, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AttributeModel{})
	if categoryID, ok := filterUUID(filter, "category_id"); ok {
		query = globalOrLinked(query, &categoryID)
	}
	if filterable, ok := filterBool(filter, "is_filterable"); ok {
		query = query.Where("is_filterable = ?", filterable)
	}

	var rows []models.AttributeModel
	q := listQuery{sortFields: AttributeSortFields, defaultSort: "name", searchFields: []string{"name", "handle"}, preload: preloadAttribute}
	total, err := q.find(query, filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.AttributeModel).ToDomain), total, nil
}

// FindApplicable returns every attribute applying to a product in categoryID
func (r *GormAttributeRepository) FindApplicable(ctx context.Context, categoryID *uuid.UUID) ([]attribute.Attribute, error) {
	var rows []models.AttributeModel
	if err := globalOrLinked(r.db.WithContext(ctx).Scopes(preloadAttribute), categoryID).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.AttributeModel).ToDomain), nil
}

// ExistsByHandle reports whether an attribute uses handle
func (r *GormAttributeRepository) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AttributeModel{}).Where("handle = ?", handle).Count(&count).Error
	return count > 0, err
}

// Save creates or updates an attribute, replacing its possible values and
// category links
func (r *GormAttributeRepository) Save(ctx context.Context, a *attribute.Attribute) error {
	model := models.AttributeModelFromDomain(a)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persist(tx, model, a.ID, a.Version); err != nil {
			return err
		}
		if err := replaceChildren(tx, "attribute_id", a.ID, model.PossibleValues); err != nil {
			return err
		}
		return replaceChildren(tx, "attribute_id", a.ID, model.Categories)
	})
}

// Delete soft deletes an attribute and removes its product values
func (r *GormAttributeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.AttributeModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("Attribute", id)
		}
		if err := tx.Where("attribute_id = ?", id).Delete(&models.AttributeCategoryModel{}).Error; err != nil {
			return err
		}
		return tx.Where("attribute_id = ?", id).Delete(&models.AttributeValueModel{}).Error
	})
}

// GormAttributeValueRepository implements attribute.ValueRepository using GORM
type GormAttributeValueRepository struct {
	db *gorm.DB
}

// NewGormAttributeValueRepository creates a new GormAttributeValueRepository
func NewGormAttributeValueRepository(db *gorm.DB) *GormAttributeValueRepository {
	return &GormAttributeValueRepository{db: db}
}

// FindByProduct returns the attribute values of a product
func (r *GormAttributeValueRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]attribute.Value, error) {
	var rows []models.AttributeValueModel
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&rows).Error; err != nil {
		return nil, err
	}
	values := make([]attribute.Value, len(rows))
	for i := range rows {
		values[i] = rows[i].ToDomain()
	}
	return values, nil
}

// ReplaceForProduct swaps the full value set of a product
func (r *GormAttributeValueRepository) ReplaceForProduct(ctx context.Context, productID uuid.UUID, values []attribute.Value) error {
	now := time.Now()
	rows := make([]models.AttributeValueModel, len(values))
	for i, v := range values {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		v.UpdatedAt = now
		v.ProductID = productID
		rows[i] = *models.AttributeValueModelFromDomain(v)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceChildren(tx, "product_id", productID, rows)
	})
}
