package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appreturn "github.com/marketplace/backend/internal/application/returnrequest"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ReturnRequestService is the return request use case set
type ReturnRequestService interface {
	Create(ctx context.Context, customerID uuid.UUID, req appreturn.CreateReturnRequest) (*appreturn.ReturnRequestResponse, error)
	GetForCustomer(ctx context.Context, customerID, id uuid.UUID) (*appreturn.ReturnRequestResponse, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, query appshared.ListQuery, f appreturn.ListFilter) (shared.ListResult[appreturn.ReturnRequestResponse], error)
	Withdraw(ctx context.Context, customerID, id uuid.UUID) (*appreturn.ReturnRequestResponse, error)
	GetForSeller(ctx context.Context, sellerID, id uuid.UUID) (*appreturn.ReturnRequestResponse, error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f appreturn.ListFilter) (shared.ListResult[appreturn.ReturnRequestResponse], error)
	VendorReview(ctx context.Context, sellerID, memberID, id uuid.UUID, req appreturn.VendorReviewRequest) (*appreturn.ReturnRequestResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*appreturn.ReturnRequestResponse, error)
	List(ctx context.Context, query appshared.ListQuery, f appreturn.ListFilter) (shared.ListResult[appreturn.ReturnRequestResponse], error)
	AdminReview(ctx context.Context, userID, id uuid.UUID, req appreturn.AdminReviewRequest) (*appreturn.ReturnRequestResponse, error)
}

// ReturnRequestHandler serves return requests to customers, sellers and admins
type ReturnRequestHandler struct {
	BaseHandler
	returnService ReturnRequestService
}

// NewReturnRequestHandler creates a new ReturnRequestHandler
func NewReturnRequestHandler(returnService ReturnRequestService) *ReturnRequestHandler {
	return &ReturnRequestHandler{returnService: returnService}
}

const returnRequestResource = "return_request"

// StoreCreate handles POST /store/return-request
func (h *ReturnRequestHandler) StoreCreate(c *gin.Context) {
	customerID, ok := h.ActorID(c)
	if !ok {
		return
	}
	var req appreturn.CreateReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}
	request, err := h.returnService.Create(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, returnRequestResource, request)
}

// StoreList handles GET /store/return-request
func (h *ReturnRequestHandler) StoreList(c *gin.Context) {
	customerID, ok := h.ActorID(c)
	if !ok {
		return
	}
	var query appshared.ListQuery
	var filter appreturn.ListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.returnService.ListForCustomer(c.Request.Context(), customerID, query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "return_requests", result)
}

// StoreGet handles GET /store/return-request/:id
func (h *ReturnRequestHandler) StoreGet(c *gin.Context) {
	customerID, ok := h.ActorID(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	request, err := h.returnService.GetForCustomer(c.Request.Context(), customerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, returnRequestResource, request)
}

// Withdraw handles POST /store/return-request/:id/withdraw
func (h *ReturnRequestHandler) Withdraw(c *gin.Context) {
	customerID, ok := h.ActorID(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	request, err := h.returnService.Withdraw(c.Request.Context(), customerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, returnRequestResource, request)
}

// VendorList handles GET /vendor/return-request
func (h *ReturnRequestHandler) VendorList(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var query appshared.ListQuery
	var filter appreturn.ListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.returnService.ListForSeller(c.Request.Context(), actor.SellerID, query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "return_requests", result)
}

// VendorGet handles GET /vendor/return-request/:id
func (h *ReturnRequestHandler) VendorGet(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	request, err := h.returnService.GetForSeller(c.Request.Context(), actor.SellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, returnRequestResource, request)
}

// VendorReview handles POST /vendor/return-request/:id: refund or escalate
func (h *ReturnRequestHandler) VendorReview(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appreturn.VendorReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}
	request, err := h.returnService.VendorReview(c.Request.Context(), actor.SellerID, actor.MemberID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, returnRequestResource, request)
}

// AdminList handles GET /admin/return-request
func (h *ReturnRequestHandler) AdminList(c *gin.Context) {
	var query appshared.ListQuery
	var filter appreturn.ListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.returnService.List(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "return_requests", result)
}

// AdminGet handles GET /admin/return-request/:id
func (h *ReturnRequestHandler) AdminGet(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	request, err := h.returnService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, returnRequestResource, request)
}

// AdminReview handles POST /admin/return-request/:id for escalated requests
func (h *ReturnRequestHandler) AdminReview(c *gin.Context) {
	userID, ok := h.ActorID(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appreturn.AdminReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}
	request, err := h.returnService.AdminReview(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, returnRequestResource, request)
}
