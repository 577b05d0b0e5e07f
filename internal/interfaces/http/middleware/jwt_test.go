package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
)

func TestAuthenticate(t *testing.T) {
	svc := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	subject := sellerSubject()
	pair := issue(t, svc, subject)

	r := gin.New()
	r.Use(RequestID(), Authenticate(AuthConfig{JWTService: svc, Blacklist: blacklist}))
	r.GET("/vendor/orders", func(c *gin.Context) {
		claims := GetClaims(c)
		require.NotNil(t, claims)
		actor, found := logger.GetActor(c.Request.Context())
		assert.True(t, found)
		assert.Equal(t, claims.SellerID, actor.SellerID)
		c.String(http.StatusOK, claims.ActorID)
	})

	rec := serve(r, http.MethodGet, "/vendor/orders", pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, subject.ActorID.String(), rec.Body.String())

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", "UNAUTHORIZED"},
		{"not a bearer", "Basic abc", "INVALID_TOKEN"},
		{"garbage token", "Bearer not-a-jwt", "INVALID_TOKEN"},
		{"refresh token", "Bearer " + pair.RefreshToken, "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(http.MethodGet, "/vendor/orders")
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			rec := do(r, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, "unauthorized", body.Type)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}

	t.Run("revoked token", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Minute))

		rec := serve(r, http.MethodGet, "/vendor/orders", pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "TOKEN_REVOKED", decodeError(t, rec).Code)
	})
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	short := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "marketplace-test",
	})
	pair := issue(t, short, sellerSubject())

	r := gin.New()
	r.Use(Authenticate(AuthConfig{JWTService: short}))
	r.GET("/", ok)

	rec := serve(r, http.MethodGet, "/", pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_EXPIRED", decodeError(t, rec).Code)
}

func TestRequireActor(t *testing.T) {
	svc := newTestJWTService()
	r := gin.New()
	r.Use(Authenticate(AuthConfig{JWTService: svc}))
	r.GET("/admin/sellers", RequireActor("user"), ok)
	r.GET("/store/wishlist", RequireActor("customer"), ok)
	r.GET("/vendor/orders", RequireActor("seller"), ok)

	admin := issue(t, svc, auth.Subject{ActorType: "user", ActorID: uuid.New()})
	customer := issue(t, svc, auth.Subject{ActorType: "customer", ActorID: uuid.New()})
	unbound := issue(t, svc, auth.Subject{ActorType: "seller", ActorID: uuid.New()})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin/sellers", admin.AccessToken).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/store/wishlist", customer.AccessToken).Code)

	rec := serve(r, http.MethodGet, "/admin/sellers", customer.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeError(t, rec).Type)

	rec = serve(r, http.MethodGet, "/vendor/orders", unbound.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code, "seller tokens need a seller id")
}

type mockGuard struct {
	mock.Mock
}

func (m *mockGuard) EnsureCanOperate(ctx context.Context, sellerID uuid.UUID) error {
	return m.Called(ctx, sellerID).Error(0)
}

func TestRequireActiveSeller(t *testing.T) {
	svc := newTestJWTService()
	subject := sellerSubject()
	pair := issue(t, svc, subject)

	guard := new(mockGuard)
	guard.On("EnsureCanOperate", mock.Anything, *subject.SellerID).
		Return(shared.NotAllowed("Seller is suspended")).Once()

	r := gin.New()
	r.Use(Authenticate(AuthConfig{JWTService: svc}), RequireActiveSeller(guard))
	r.GET("/vendor/products", ok)
	r.POST("/vendor/products", ok)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/vendor/products", pair.AccessToken).Code,
		"reads are allowed without asking the guard")

	rec := serve(r, http.MethodPost, "/vendor/products", pair.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_allowed", decodeError(t, rec).Type)

	guard.On("EnsureCanOperate", mock.Anything, *subject.SellerID).Return(nil).Once()
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/vendor/products", pair.AccessToken).Code)

	guard.On("EnsureCanOperate", mock.Anything, *subject.SellerID).Return(errors.New("db down")).Once()
	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodPost, "/vendor/products", pair.AccessToken).Code)
	guard.AssertExpectations(t)
}
