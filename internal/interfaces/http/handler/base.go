package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// OK sends {"<resource>": data} with 200
func (h *BaseHandler) OK(c *gin.Context, resource string, data any) {
	c.JSON(http.StatusOK, dto.NewResourceResponse(resource, data))
}

// Created sends {"<resource>": data} with 201
func (h *BaseHandler) Created(c *gin.Context, resource string, data any) {
	c.JSON(http.StatusCreated, dto.NewResourceResponse(resource, data))
}

// Deleted confirms the deletion of a resource
func (h *BaseHandler) Deleted(c *gin.Context, id uuid.UUID, object string) {
	c.JSON(http.StatusOK, dto.NewDeleteResponse(id.String(), object))
}

// writeList sends the list envelope
func writeList[T any](c *gin.Context, resource string, result shared.ListResult[T]) {
	c.JSON(http.StatusOK, dto.NewListResponse(resource, result))
}

// HandleError renders domain errors with their mapped status; anything else
// becomes a 500 without leaking the message
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, body := dto.FromError(err, middleware.GetRequestID(c))
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, body)
}

// BadRequest sends a 400 invalid_data response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
		dto.ErrorTypeInvalidData, shared.CodeInvalidArgument, message, middleware.GetRequestID(c)))
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
		dto.ErrorTypeUnauthorized, shared.CodeUnauthorized, message, middleware.GetRequestID(c)))
}

// BindJSON binds the body and answers 400 with field details when it is
// invalid. It returns false when a response was written.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.bindError(c, err, "Invalid request body")
		return false
	}
	return true
}

// BindQuery binds every target from the query string
func (h *BaseHandler) BindQuery(c *gin.Context, targets ...any) bool {
	for _, target := range targets {
		if err := c.ShouldBindQuery(target); err != nil {
			h.bindError(c, err, "Invalid query parameters")
			return false
		}
	}
	return true
}

func (h *BaseHandler) bindError(c *gin.Context, err error, fallback string) {
	if details := middleware.ValidationDetails(err); len(details) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed", middleware.GetRequestID(c), details))
		return
	}
	h.BadRequest(c, fallback)
}

// PathID parses a uuid path parameter
func (h *BaseHandler) PathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// ActorID returns the authenticated actor id
func (h *BaseHandler) ActorID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	id, err := claims.ActorUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid token subject")
		return uuid.Nil, false
	}
	return id, true
}

// SellerActor is the seller member behind a vendor request
type SellerActor struct {
	SellerID uuid.UUID
	MemberID uuid.UUID
	Role     string
}

// Seller returns the member and seller of a vendor token
func (h *BaseHandler) Seller(c *gin.Context) (SellerActor, bool) {
	memberID, ok := h.ActorID(c)
	if !ok {
		return SellerActor{}, false
	}
	claims := middleware.GetClaims(c)
	sellerID, err := claims.SellerUUID()
	if err != nil || sellerID == nil {
		h.Unauthorized(c, "Token is not bound to a seller")
		return SellerActor{}, false
	}
	return SellerActor{SellerID: *sellerID, MemberID: memberID, Role: claims.Role}, true
}
