package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appshared "github.com/marketplace/backend/internal/application/shared"
	appshipping "github.com/marketplace/backend/internal/application/shipping"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ShippingService is the shipping profile and option use case set
type ShippingService interface {
	CreateProfile(ctx context.Context, sellerID uuid.UUID, req appshipping.ShippingProfileRequest) (*appshipping.ShippingProfileResponse, error)
	GetProfile(ctx context.Context, sellerID, id uuid.UUID) (*appshipping.ShippingProfileResponse, error)
	ListProfilesForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f appshipping.ShippingProfileFilter) (shared.ListResult[appshipping.ShippingProfileResponse], error)
	ListProfiles(ctx context.Context, query appshared.ListQuery, f appshipping.ShippingProfileFilter) (shared.ListResult[appshipping.ShippingProfileResponse], error)
	UpdateProfile(ctx context.Context, sellerID, id uuid.UUID, req appshipping.ShippingProfileRequest) (*appshipping.ShippingProfileResponse, error)
	DeleteProfile(ctx context.Context, sellerID, id uuid.UUID) error
	CreateOption(ctx context.Context, sellerID uuid.UUID, req appshipping.CreateShippingOptionRequest) (*appshipping.ShippingOptionResponse, error)
	GetOption(ctx context.Context, sellerID, id uuid.UUID) (*appshipping.ShippingOptionResponse, error)
	ListOptionsForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f appshipping.ShippingOptionFilter) (shared.ListResult[appshipping.ShippingOptionResponse], error)
	ListStoreOptions(ctx context.Context, query appshared.ListQuery, f appshipping.ShippingOptionFilter) (shared.ListResult[appshipping.ShippingOptionResponse], error)
	UpdateOption(ctx context.Context, sellerID, id uuid.UUID, req appshipping.UpdateShippingOptionRequest) (*appshipping.ShippingOptionResponse, error)
	DeleteOption(ctx context.Context, sellerID, id uuid.UUID) error
}

// ShippingHandler serves shipping profiles and options
type ShippingHandler struct {
	BaseHandler
	shippingService ShippingService
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(shippingService ShippingService) *ShippingHandler {
	return &ShippingHandler{shippingService: shippingService}
}

// ListProfiles handles GET /vendor/shipping-profiles
func (h *ShippingHandler) ListProfiles(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var query appshared.ListQuery
	var filter appshipping.ShippingProfileFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.shippingService.ListProfilesForSeller(c.Request.Context(), actor.SellerID, query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "shipping_profiles", result)
}

// CreateProfile handles POST /vendor/shipping-profiles
func (h *ShippingHandler) CreateProfile(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var req appshipping.ShippingProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	profile, err := h.shippingService.CreateProfile(c.Request.Context(), actor.SellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "shipping_profile", profile)
}

// GetProfile handles GET /vendor/shipping-profiles/:id
func (h *ShippingHandler) GetProfile(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	profile, err := h.shippingService.GetProfile(c.Request.Context(), actor.SellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "shipping_profile", profile)
}

// UpdateProfile handles POST /vendor/shipping-profiles/:id
func (h *ShippingHandler) UpdateProfile(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appshipping.ShippingProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	profile, err := h.shippingService.UpdateProfile(c.Request.Context(), actor.SellerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "shipping_profile", profile)
}

// DeleteProfile handles DELETE /vendor/shipping-profiles/:id
func (h *ShippingHandler) DeleteProfile(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.shippingService.DeleteProfile(c.Request.Context(), actor.SellerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, id, "shipping_profile")
}

// AdminListProfiles handles GET /admin/shipping-profiles
func (h *ShippingHandler) AdminListProfiles(c *gin.Context) {
	var query appshared.ListQuery
	var filter appshipping.ShippingProfileFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.shippingService.ListProfiles(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "shipping_profiles", result)
}

// ListOptions handles GET /vendor/shipping-options
func (h *ShippingHandler) ListOptions(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var query appshared.ListQuery
	var filter appshipping.ShippingOptionFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.shippingService.ListOptionsForSeller(c.Request.Context(), actor.SellerID, query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "shipping_options", result)
}

// CreateOption handles POST /vendor/shipping-options
func (h *ShippingHandler) CreateOption(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var req appshipping.CreateShippingOptionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	option, err := h.shippingService.CreateOption(c.Request.Context(), actor.SellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "shipping_option", option)
}

// GetOption handles GET /vendor/shipping-options/:id
func (h *ShippingHandler) GetOption(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	option, err := h.shippingService.GetOption(c.Request.Context(), actor.SellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "shipping_option", option)
}

// UpdateOption handles POST /vendor/shipping-options/:id
func (h *ShippingHandler) UpdateOption(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appshipping.UpdateShippingOptionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	option, err := h.shippingService.UpdateOption(c.Request.Context(), actor.SellerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "shipping_option", option)
}

// DeleteOption handles DELETE /vendor/shipping-options/:id
func (h *ShippingHandler) DeleteOption(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.shippingService.DeleteOption(c.Request.Context(), actor.SellerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, id, "shipping_option")
}

// StoreListOptions handles GET /store/shipping-options?seller_id=
func (h *ShippingHandler) StoreListOptions(c *gin.Context) {
	var query appshared.ListQuery
	var filter appshipping.ShippingOptionFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.shippingService.ListStoreOptions(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "shipping_options", result)
}
