package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppricelist "github.com/marketplace/backend/internal/application/pricelist"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/shared"
)

// PriceListService is the price list use case set
type PriceListService interface {
	Create(ctx context.Context, sellerID uuid.UUID, req apppricelist.CreatePriceListRequest) (*apppricelist.PriceListResponse, error)
	GetForSeller(ctx context.Context, sellerID, id uuid.UUID) (*apppricelist.PriceListResponse, error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f apppricelist.PriceListFilter) (shared.ListResult[apppricelist.PriceListResponse], error)
	List(ctx context.Context, query appshared.ListQuery, f apppricelist.PriceListFilter) (shared.ListResult[apppricelist.PriceListResponse], error)
	Update(ctx context.Context, sellerID, id uuid.UUID, req apppricelist.UpdatePriceListRequest) (*apppricelist.PriceListResponse, error)
	Delete(ctx context.Context, sellerID, id uuid.UUID) error
	AddPrices(ctx context.Context, sellerID, id uuid.UUID, prices []apppricelist.PriceRequest) (*apppricelist.PriceListResponse, error)
	RemovePrice(ctx context.Context, sellerID, id, priceID uuid.UUID) (*apppricelist.PriceListResponse, error)
}

// PriceListHandler serves seller price lists
type PriceListHandler struct {
	BaseHandler
	priceListService PriceListService
}

// NewPriceListHandler creates a new PriceListHandler
func NewPriceListHandler(priceListService PriceListService) *PriceListHandler {
	return &PriceListHandler{priceListService: priceListService}
}

type addPricesRequest struct {
	Prices []apppricelist.PriceRequest `json:"prices" binding:"required,min=1,dive"`
}

// VendorList handles GET /vendor/price-lists
func (h *PriceListHandler) VendorList(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var query appshared.ListQuery
	var filter apppricelist.PriceListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.priceListService.ListForSeller(c.Request.Context(), actor.SellerID, query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "price_lists", result)
}

// Create handles POST /vendor/price-lists
func (h *PriceListHandler) Create(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var req apppricelist.CreatePriceListRequest
	if !h.BindJSON(c, &req) {
		return
	}
	list, err := h.priceListService.Create(c.Request.Context(), actor.SellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "price_list", list)
}

// Get handles GET /vendor/price-lists/:id
func (h *PriceListHandler) Get(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	list, err := h.priceListService.GetForSeller(c.Request.Context(), actor.SellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "price_list", list)
}

// Update handles POST /vendor/price-lists/:id
func (h *PriceListHandler) Update(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req apppricelist.UpdatePriceListRequest
	if !h.BindJSON(c, &req) {
		return
	}
	list, err := h.priceListService.Update(c.Request.Context(), actor.SellerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "price_list", list)
}

// Delete handles DELETE /vendor/price-lists/:id
func (h *PriceListHandler) Delete(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.priceListService.Delete(c.Request.Context(), actor.SellerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, id, "price_list")
}

// AddPrices handles POST /vendor/price-lists/:id/prices
func (h *PriceListHandler) AddPrices(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req addPricesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	list, err := h.priceListService.AddPrices(c.Request.Context(), actor.SellerID, id, req.Prices)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "price_list", list)
}

// RemovePrice handles DELETE /vendor/price-lists/:id/prices/:price_id
func (h *PriceListHandler) RemovePrice(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	priceID, ok := h.PathID(c, "price_id")
	if !ok {
		return
	}
	list, err := h.priceListService.RemovePrice(c.Request.Context(), actor.SellerID, id, priceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "price_list", list)
}

// AdminList handles GET /admin/price-lists
func (h *PriceListHandler) AdminList(c *gin.Context) {
	var query appshared.ListQuery
	var filter apppricelist.PriceListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.priceListService.List(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "price_lists", result)
}
