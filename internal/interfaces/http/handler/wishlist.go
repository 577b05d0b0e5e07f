package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appwishlist "github.com/marketplace/backend/internal/application/wishlist"
)

// WishlistService manages the customer's wishlist
type WishlistService interface {
	Get(ctx context.Context, customerID uuid.UUID) (*appwishlist.WishlistResponse, error)
	Add(ctx context.Context, customerID uuid.UUID, req appwishlist.AddItemRequest) (*appwishlist.WishlistResponse, error)
	Remove(ctx context.Context, customerID, productID uuid.UUID) (*appwishlist.WishlistResponse, error)
}

// WishlistHandler serves /store/wishlist
type WishlistHandler struct {
	BaseHandler
	wishlistService WishlistService
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(wishlistService WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// Get handles GET /store/wishlist
func (h *WishlistHandler) Get(c *gin.Context) {
	customerID, ok := h.ActorID(c)
	if !ok {
		return
	}
	wishlist, err := h.wishlistService.Get(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "wishlist", wishlist)
}

// Add handles POST /store/wishlist
func (h *WishlistHandler) Add(c *gin.Context) {
	customerID, ok := h.ActorID(c)
	if !ok {
		return
	}
	var req appwishlist.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	wishlist, err := h.wishlistService.Add(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "wishlist", wishlist)
}

// Remove handles DELETE /store/wishlist/:product_id
func (h *WishlistHandler) Remove(c *gin.Context) {
	customerID, ok := h.ActorID(c)
	if !ok {
		return
	}
	productID, ok := h.PathID(c, "product_id")
	if !ok {
		return
	}
	wishlist, err := h.wishlistService.Remove(c.Request.Context(), customerID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "wishlist", wishlist)
}
