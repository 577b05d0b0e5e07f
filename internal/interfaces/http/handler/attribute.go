package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appattribute "github.com/marketplace/backend/internal/application/attribute"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/shared"
)

// AttributeService is the attribute use case set
type AttributeService interface {
	Create(ctx context.Context, req appattribute.CreateAttributeRequest) (*appattribute.AttributeResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appattribute.AttributeResponse, error)
	List(ctx context.Context, query appshared.ListQuery, f appattribute.AttributeListFilter) (shared.ListResult[appattribute.AttributeResponse], error)
	Update(ctx context.Context, id uuid.UUID, req appattribute.UpdateAttributeRequest) (*appattribute.AttributeResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddPossibleValue(ctx context.Context, id uuid.UUID, req appattribute.PossibleValueRequest) (*appattribute.AttributeResponse, error)
	RemovePossibleValue(ctx context.Context, id, valueID uuid.UUID) (*appattribute.AttributeResponse, error)
	GetProductAttributes(ctx context.Context, sellerID, productID uuid.UUID) ([]appattribute.ProductAttributeValueResponse, error)
	SetProductAttributes(ctx context.Context, sellerID, productID uuid.UUID, req appattribute.SetProductAttributesRequest) ([]appattribute.ProductAttributeValueResponse, error)
}

// AttributeHandler serves attribute definitions and product attribute values
type AttributeHandler struct {
	BaseHandler
	attributeService AttributeService
}

// NewAttributeHandler creates a new AttributeHandler
func NewAttributeHandler(attributeService AttributeService) *AttributeHandler {
	return &AttributeHandler{attributeService: attributeService}
}

// List handles GET /admin/attributes and GET /vendor/attributes?category_id=
func (h *AttributeHandler) List(c *gin.Context) {
	var query appshared.ListQuery
	var filter appattribute.AttributeListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.attributeService.List(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "attributes", result)
}

// Create handles POST /admin/attributes
func (h *AttributeHandler) Create(c *gin.Context) {
	var req appattribute.CreateAttributeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	attribute, err := h.attributeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "attribute", attribute)
}

// Get handles GET /admin/attributes/:id
func (h *AttributeHandler) Get(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	attribute, err := h.attributeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "attribute", attribute)
}

// Update handles POST /admin/attributes/:id
func (h *AttributeHandler) Update(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appattribute.UpdateAttributeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	attribute, err := h.attributeService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "attribute", attribute)
}

// Delete handles DELETE /admin/attributes/:id
func (h *AttributeHandler) Delete(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.attributeService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, id, "attribute")
}

// AddValue handles POST /admin/attributes/:id/values
func (h *AttributeHandler) AddValue(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appattribute.PossibleValueRequest
	if !h.BindJSON(c, &req) {
		return
	}
	attribute, err := h.attributeService.AddPossibleValue(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "attribute", attribute)
}

// RemoveValue handles DELETE /admin/attributes/:id/values/:value_id
func (h *AttributeHandler) RemoveValue(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	valueID, ok := h.PathID(c, "value_id")
	if !ok {
		return
	}
	attribute, err := h.attributeService.RemovePossibleValue(c.Request.Context(), id, valueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "attribute", attribute)
}

// GetProductValues handles GET /vendor/products/:id/attributes
func (h *AttributeHandler) GetProductValues(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	values, err := h.attributeService.GetProductAttributes(c.Request.Context(), actor.SellerID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "attribute_values", values)
}

// SetProductValues handles POST /vendor/products/:id/attributes. The body
// replaces every attribute value of the product.
func (h *AttributeHandler) SetProductValues(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appattribute.SetProductAttributesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	values, err := h.attributeService.SetProductAttributes(c.Request.Context(), actor.SellerID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "attribute_values", values)
}
