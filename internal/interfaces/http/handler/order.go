package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apporder "github.com/marketplace/backend/internal/application/order"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader carries the client key that makes checkout retries safe
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutService splits a cart into one order per seller
type CheckoutService interface {
	Complete(ctx context.Context, customerID uuid.UUID, idempotencyKey string, req apporder.CompleteCartRequest) (*apporder.OrderSetResponse, bool, error)
}

// OrderService is the order and order set use case set
type OrderService interface {
	GetOrderSet(ctx context.Context, id uuid.UUID) (*apporder.OrderSetResponse, error)
	GetOrderSetForCustomer(ctx context.Context, customerID, id uuid.UUID) (*apporder.OrderSetResponse, error)
	ListOrderSetsForCustomer(ctx context.Context, customerID uuid.UUID, query appshared.ListQuery) (shared.ListResult[apporder.OrderSetResponse], error)
	ListOrderSets(ctx context.Context, query appshared.ListQuery, f apporder.OrderSetListFilter) (shared.ListResult[apporder.OrderSetResponse], error)
	GetOrderForCustomer(ctx context.Context, customerID, id uuid.UUID) (*apporder.OrderResponse, error)
	GetOrderForSeller(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*apporder.OrderResponse, error)
	ListOrdersForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f apporder.OrderListFilter) (shared.ListResult[apporder.OrderResponse], error)
	ListOrders(ctx context.Context, query appshared.ListQuery, f apporder.OrderListFilter) (shared.ListResult[apporder.OrderResponse], error)
	Fulfill(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error)
	Ship(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error)
	Deliver(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error)
	Complete(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error)
	CancelForSeller(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error)
	Capture(ctx context.Context, id uuid.UUID) (*apporder.OrderResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*apporder.OrderResponse, error)
}

// OrderHandler serves checkout, orders and order sets
type OrderHandler struct {
	BaseHandler
	checkoutService CheckoutService
	orderService    OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService CheckoutService, orderService OrderService) *OrderHandler {
	return &OrderHandler{checkoutService: checkoutService, orderService: orderService}
}

// =============================================================================
// Store
// =============================================================================

// CompleteCart handles POST /store/carts/complete. A replay with the same
// Idempotency-Key answers 200 with the order set created the first time.
func (h *OrderHandler) CompleteCart(c *gin.Context) {
	customerID, ok := h.ActorID(c)
	if !ok {
		return
	}
	var req apporder.CompleteCartRequest
	if !h.BindJSON(c, &req) {
		return
	}
	orderSet, created, err := h.checkoutService.Complete(c.Request.Context(), customerID, c.GetHeader(IdempotencyKeyHeader), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.NewResourceResponse("order_set", orderSet))
}

// StoreListOrderSets handles GET /store/order-sets
func (h *OrderHandler) StoreListOrderSets(c *gin.Context) {
	customerID, ok := h.ActorID(c)
	if !ok {
		return
	}
	var query appshared.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	result, err := h.orderService.ListOrderSetsForCustomer(c.Request.Context(), customerID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "order_sets", result)
}

// StoreGetOrderSet handles GET /store/order-sets/:id
func (h *OrderHandler) StoreGetOrderSet(c *gin.Context) {
	customerID, ok := h.ActorID(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	orderSet, err := h.orderService.GetOrderSetForCustomer(c.Request.Context(), customerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "order_set", orderSet)
}

// StoreGetOrder handles GET /store/orders/:id
func (h *OrderHandler) StoreGetOrder(c *gin.Context) {
	customerID, ok := h.ActorID(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrderForCustomer(c.Request.Context(), customerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "order", order)
}

// =============================================================================
// Vendor
// =============================================================================

// VendorList handles GET /vendor/orders
func (h *OrderHandler) VendorList(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var query appshared.ListQuery
	var filter apporder.OrderListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.orderService.ListOrdersForSeller(c.Request.Context(), actor.SellerID, query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "orders", result)
}

// VendorGet handles GET /vendor/orders/:id
func (h *OrderHandler) VendorGet(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrderForSeller(c.Request.Context(), actor.SellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "order", order)
}

type sellerTransition func(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error)

func (h *OrderHandler) vendorTransition(c *gin.Context, transition sellerTransition) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	order, err := transition(c.Request.Context(), actor.SellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "order", order)
}

// Fulfill handles POST /vendor/orders/:id/fulfill
func (h *OrderHandler) Fulfill(c *gin.Context) { h.vendorTransition(c, h.orderService.Fulfill) }

// Ship handles POST /vendor/orders/:id/ship
func (h *OrderHandler) Ship(c *gin.Context) { h.vendorTransition(c, h.orderService.Ship) }

// Deliver handles POST /vendor/orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) { h.vendorTransition(c, h.orderService.Deliver) }

// Complete handles POST /vendor/orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) { h.vendorTransition(c, h.orderService.Complete) }

// VendorCancel handles POST /vendor/orders/:id/cancel
func (h *OrderHandler) VendorCancel(c *gin.Context) {
	h.vendorTransition(c, h.orderService.CancelForSeller)
}

// =============================================================================
// Admin
// =============================================================================

// AdminListOrderSets handles GET /admin/order-sets
func (h *OrderHandler) AdminListOrderSets(c *gin.Context) {
	var query appshared.ListQuery
	var filter apporder.OrderSetListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.orderService.ListOrderSets(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "order_sets", result)
}

// AdminGetOrderSet handles GET /admin/order-sets/:id
func (h *OrderHandler) AdminGetOrderSet(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	orderSet, err := h.orderService.GetOrderSet(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "order_set", orderSet)
}

// AdminList handles GET /admin/orders
func (h *OrderHandler) AdminList(c *gin.Context) {
	var query appshared.ListQuery
	var filter apporder.OrderListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.orderService.ListOrders(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "orders", result)
}

// AdminGet handles GET /admin/orders/:id
func (h *OrderHandler) AdminGet(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "order", order)
}

// Capture handles POST /admin/orders/:id/capture
func (h *OrderHandler) Capture(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Capture(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "order", order)
}

// AdminCancel handles POST /admin/orders/:id/cancel
func (h *OrderHandler) AdminCancel(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "order", order)
}
