package attribute

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/attribute"
)

// =============================================================================
// Attribute DTOs
// =============================================================================

// CreateAttributeRequest creates an attribute
type CreateAttributeRequest struct {
	Name               string                 `json:"name" binding:"required,min=1,max=100"`
	Handle             string                 `json:"handle" binding:"max=100"`
	Description        string                 `json:"description"`
	IsRequired         bool                   `json:"is_required"`
	IsFilterable       bool                   `json:"is_filterable"`
	UIComponent        string                 `json:"ui_component" binding:"required,oneof=select multivalue unit toggle text_area color_picker"`
	PossibleValues     []PossibleValueRequest `json:"possible_values" binding:"omitempty,dive"`
	ProductCategoryIDs []uuid.UUID            `json:"product_category_ids"`
}

// UpdateAttributeRequest is a partial attribute update. The ui_component of
// an attribute cannot change once values exist for it.
type UpdateAttributeRequest struct {
	Name               *string      `json:"name" binding:"omitempty,min=1,max=100"`
	Description        *string      `json:"description"`
	IsRequired         *bool        `json:"is_required"`
	IsFilterable       *bool        `json:"is_filterable"`
	ProductCategoryIDs *[]uuid.UUID `json:"product_category_ids"`
}

// PossibleValueRequest adds an allowed value to a select or multivalue attribute
type PossibleValueRequest struct {
	Value    string         `json:"value" binding:"required,min=1,max=200"`
	Rank     int            `json:"rank"`
	Metadata map[string]any `json:"metadata"`
}

// AttributeListFilter filters attribute lists
type AttributeListFilter struct {
	CategoryID   string `form:"category_id" binding:"omitempty,uuid"`
	IsFilterable *bool  `form:"is_filterable"`
}

// PossibleValueResponse is the API view of a possible value
type PossibleValueResponse struct {
	ID       uuid.UUID      `json:"id"`
	Value    string         `json:"value"`
	Rank     int            `json:"rank"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// AttributeResponse is the API view of an attribute
type AttributeResponse struct {
	ID                 uuid.UUID               `json:"id"`
	Name               string                  `json:"name"`
	Handle             string                  `json:"handle"`
	Description        string                  `json:"description"`
	IsRequired         bool                    `json:"is_required"`
	IsFilterable       bool                    `json:"is_filterable"`
	UIComponent        string                  `json:"ui_component"`
	PossibleValues     []PossibleValueResponse `json:"possible_values"`
	ProductCategoryIDs []uuid.UUID             `json:"product_category_ids"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// ToAttributeResponse converts a domain attribute
func ToAttributeResponse(a *attribute.Attribute) AttributeResponse {
	values := make([]PossibleValueResponse, len(a.PossibleValues))
	for i, pv := range a.PossibleValues {
		values[i] = PossibleValueResponse{ID: pv.ID, Value: pv.Value, Rank: pv.Rank, Metadata: pv.Metadata}
	}
	categories := a.ProductCategoryIDs
	if categories == nil {
		categories = []uuid.UUID{}
	}
	return AttributeResponse{
		ID:                 a.ID,
		Name:               a.Name,
		Handle:             a.Handle,
		Description:        a.Description,
		IsRequired:         a.IsRequired,
		IsFilterable:       a.IsFilterable,
		UIComponent:        string(a.UIComponent),
		PossibleValues:     values,
		ProductCategoryIDs: categories,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// =============================================================================
// Product attribute value DTOs
// =============================================================================

// SetProductAttributesRequest replaces the attribute values of a product
type SetProductAttributesRequest struct {
	Values []ProductAttributeValueRequest `json:"values" binding:"dive"`
}

// ProductAttributeValueRequest is one attribute value of a product
type ProductAttributeValueRequest struct {
	AttributeID uuid.UUID `json:"attribute_id" binding:"required"`
	Value       string    `json:"value" binding:"required,max=1000"`
}

// ProductAttributeValueResponse is the API view of a product attribute value
type ProductAttributeValueResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	AttributeID uuid.UUID `json:"attribute_id"`
	Name        string    `json:"name,omitempty"`
	Handle      string    `json:"handle,omitempty"`
	Value       string    `json:"value"`
}
