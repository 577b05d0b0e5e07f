package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// Context keys and header names used by authentication
const (
	ClaimsKey     = "auth_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthConfig configures Authenticate
type AuthConfig struct {
	JWTService *auth.JWTService
	// Blacklist is optional; when set revoked tokens are rejected
	Blacklist auth.TokenBlacklist
	Logger    *zap.Logger
}

// Authenticate validates the bearer access token and stores its claims.
// Requests without a valid token are rejected with 401.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, "UNAUTHORIZED", "Authentication required")
			return
		}
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid authorization header format")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			log.Debug("Token validation failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			code, message := tokenErrorCode(err)
			abortUnauthorized(c, code, message)
			return
		}

		if cfg.Blacklist != nil {
			revoked, err := cfg.Blacklist.IsRevoked(c.Request.Context(), claims.ID)
			switch {
			case err != nil:
				// availability over strictness: a blacklist outage lets tokens through
				log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
			case revoked:
				abortUnauthorized(c, "TOKEN_REVOKED", "Token has been revoked")
				return
			}
		}

		c.Set(ClaimsKey, claims)
		ctx := logger.WithActor(c.Request.Context(), logger.Actor{
			Type:     claims.ActorType,
			ID:       claims.ActorID,
			SellerID: claims.SellerID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func tokenErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrInvalidTokenType):
		return "INVALID_TOKEN_TYPE", "Invalid token type"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "TOKEN_NOT_VALID", "Token is not yet valid"
	default:
		return "INVALID_TOKEN", "Invalid token"
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	abort(c, dto.ErrorTypeUnauthorized, code, message)
}

// RequireActor allows only the given actor types. Seller tokens must also
// carry a seller id.
func RequireActor(actorTypes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortUnauthorized(c, "UNAUTHORIZED", "Authentication required")
			return
		}
		if !slices.Contains(actorTypes, claims.ActorType) {
			abort(c, dto.ErrorTypeForbidden, shared.CodeForbidden, "This route is not available to "+claims.ActorType+" accounts")
			return
		}
		if claims.ActorType == string(identity.ActorTypeSeller) && claims.SellerID == "" {
			abort(c, dto.ErrorTypeForbidden, shared.CodeForbidden, "Token is not bound to a seller")
			return
		}
		c.Next()
	}
}

// SellerGuard decides whether a seller may change its data
type SellerGuard interface {
	EnsureCanOperate(ctx context.Context, sellerID uuid.UUID) error
}

// RequireActiveSeller rejects mutating vendor requests from sellers that are
// suspended. Reads stay available so suspended sellers can see their data.
func RequireActiveSeller(guard SellerGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		claims := GetClaims(c)
		if claims == nil {
			abortUnauthorized(c, "UNAUTHORIZED", "Authentication required")
			return
		}
		sellerID, err := claims.SellerUUID()
		if err != nil || sellerID == nil {
			abort(c, dto.ErrorTypeForbidden, shared.CodeForbidden, "Token is not bound to a seller")
			return
		}
		if err := guard.EnsureCanOperate(c.Request.Context(), *sellerID); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// GetClaims returns the claims stored by Authenticate, or nil
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
