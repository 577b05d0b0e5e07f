package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appidentity "github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// AuthService is the authentication use case set behind /auth
type AuthService interface {
	Login(ctx context.Context, actorType identity.ActorType, req appidentity.LoginRequest) (*appidentity.LoginResult, error)
	Refresh(ctx context.Context, req appidentity.RefreshTokenRequest) (*appidentity.LoginResult, error)
	Logout(ctx context.Context, access *auth.Claims, req appidentity.LogoutRequest) error
	RegisterCustomer(ctx context.Context, req appidentity.RegisterCustomerRequest) (*appidentity.CustomerResponse, error)
}

// AuthHandler handles login, token refresh, logout and customer sign up
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/:actor_type/login for users, sellers and customers
func (h *AuthHandler) Login(c *gin.Context) {
	actorType := identity.ActorType(c.Param("actor_type"))
	if !actorType.IsValid() {
		h.BadRequest(c, "Unknown actor type")
		return
	}

	var req appidentity.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), actorType, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Refresh handles POST /auth/token/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req appidentity.RefreshTokenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Logout handles POST /auth/logout. The access token is revoked, and the
// refresh token too when the body carries it.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appidentity.LogoutRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims, req); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterCustomer handles POST /auth/customer/register
func (h *AuthHandler) RegisterCustomer(c *gin.Context) {
	var req appidentity.RegisterCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.authService.RegisterCustomer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "customer", customer)
}
