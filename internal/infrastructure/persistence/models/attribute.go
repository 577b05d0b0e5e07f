package models

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/attribute"
	"github.com/marketplace/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// AttributeModel is the persistence model for product attributes
type AttributeModel struct {
	AggregateModel
	Name           string                       `gorm:"type:varchar(200);not null"`
	Handle         string                       `gorm:"type:varchar(200);not null;uniqueIndex:idx_attribute_handle,where:deleted_at IS NULL"`
	Description    string                       `gorm:"type:text"`
	IsRequired     bool                         `gorm:"not null;default:false"`
	IsFilterable   bool                         `gorm:"not null;default:false;index"`
	UIComponent    attribute.UIComponent        `gorm:"type:varchar(30);not null"`
	PossibleValues []AttributePossibleValueModel `gorm:"foreignKey:AttributeID;references:ID"`
	Categories     []AttributeCategoryModel      `gorm:"foreignKey:AttributeID;references:ID"`
	DeletedAt      gorm.DeletedAt                `gorm:"index"`
}

// TableName returns the table name for GORM
func (AttributeModel) TableName() string {
	return "attributes"
}

// ToDomain converts the persistence model to a domain Attribute
func (m *AttributeModel) ToDomain() *attribute.Attribute {
	a := &attribute.Attribute{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Handle:            m.Handle,
		Description:       m.Description,
		IsRequired:        m.IsRequired,
		IsFilterable:      m.IsFilterable,
		UIComponent:       m.UIComponent,
		PossibleValues:    make([]attribute.PossibleValue, len(m.PossibleValues)),
	}
	for i, pv := range m.PossibleValues {
		a.PossibleValues[i] = pv.ToDomain()
	}
	if len(m.Categories) > 0 {
		a.ProductCategoryIDs = make([]uuid.UUID, len(m.Categories))
		for i, c := range m.Categories {
			a.ProductCategoryIDs[i] = c.ProductCategoryID
		}
	}
	return a
}

// AttributeModelFromDomain creates a persistence model from a domain Attribute
func AttributeModelFromDomain(a *attribute.Attribute) *AttributeModel {
	m := &AttributeModel{
		Name:           a.Name,
		Handle:         a.Handle,
		Description:    a.Description,
		IsRequired:     a.IsRequired,
		IsFilterable:   a.IsFilterable,
		UIComponent:    a.UIComponent,
		PossibleValues: make([]AttributePossibleValueModel, len(a.PossibleValues)),
		Categories:     make([]AttributeCategoryModel, len(a.ProductCategoryIDs)),
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	for i, pv := range a.PossibleValues {
		m.PossibleValues[i] = AttributePossibleValueModel{
			ID:          pv.ID,
			AttributeID: a.ID,
			Value:       pv.Value,
			Rank:        pv.Rank,
			Metadata:    pv.Metadata,
		}
	}
	for i, id := range a.ProductCategoryIDs {
		m.Categories[i] = AttributeCategoryModel{AttributeID: a.ID, ProductCategoryID: id}
	}
	return m
}

// AttributePossibleValueModel is one allowed value of a select attribute
type AttributePossibleValueModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	AttributeID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_attribute_possible_value,priority:1"`
	Value       string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_attribute_possible_value,priority:2"`
	Rank        int            `gorm:"not null;default:0"`
	Metadata    map[string]any `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (AttributePossibleValueModel) TableName() string {
	return "attribute_possible_values"
}

// ToDomain converts the persistence model to a domain PossibleValue
func (m AttributePossibleValueModel) ToDomain() attribute.PossibleValue {
	return attribute.PossibleValue{ID: m.ID, Value: m.Value, Rank: m.Rank, Metadata: m.Metadata}
}

// AttributeCategoryModel links an attribute to a product category. An
// attribute without links applies to every category.
type AttributeCategoryModel struct {
	AttributeID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductCategoryID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (AttributeCategoryModel) TableName() string {
	return "attribute_categories"
}

// AttributeValueModel stores the value of one attribute for one product
type AttributeValueModel struct {
	BaseModel
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attribute_value_product,priority:1"`
	AttributeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attribute_value_product,priority:2;index"`
	Value       string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (AttributeValueModel) TableName() string {
	return "attribute_values"
}

// ToDomain converts the persistence model to a domain Value
func (m *AttributeValueModel) ToDomain() attribute.Value {
	return attribute.Value{
		BaseEntity:  m.BaseModel.ToDomain(),
		ProductID:   m.ProductID,
		AttributeID: m.AttributeID,
		Value:       m.Value,
	}
}

// AttributeValueModelFromDomain creates a persistence model from a domain Value
func AttributeValueModelFromDomain(v attribute.Value) *AttributeValueModel {
	m := &AttributeValueModel{ProductID: v.ProductID, AttributeID: v.AttributeID, Value: v.Value}
	m.FromDomainBaseEntity(shared.BaseEntity{ID: v.ID, CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt})
	return m
}
