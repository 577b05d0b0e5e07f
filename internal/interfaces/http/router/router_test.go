package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouterSetup_MountsAtRoot(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("store", "/store")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group)
	r.Setup()

	w := serve(engine, http.MethodGet, "/store/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/store/ping").Code)
}

func TestRouterSetup_WithBasePath(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithBasePath("/marketplace"))
	r.Register(NewDomainGroup("store", "/store").GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	}))
	r.Setup()

	assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodGet, "/marketplace/store/ping").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("catalog", "/catalog")
		assert.Equal(t, "catalog", g.Name())
		assert.Equal(t, "/catalog", g.Prefix())
	})

	t.Run("all methods", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g := NewDomainGroup("items", "/items").
			GET("", ok).
			POST("", ok).
			PUT("/:id", ok).
			PATCH("/:id", ok).
			DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/"))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/items"},
			{http.MethodPost, "/items"},
			{http.MethodPut, "/items/1"},
			{http.MethodPatch, "/items/1"},
			{http.MethodDelete, "/items/1"},
		} {
			assert.Equal(t, http.StatusOK, serve(engine, tc.method, tc.path).Code, tc.method+" "+tc.path)
		}
	})

	t.Run("subgroup middleware does not leak to parent", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }

		g := NewDomainGroup("vendor", "/vendor").POST("/sellers", ok)
		g.Group("vendor-seller", "").Use(deny).GET("/sellers/me", ok)
		g.RegisterRoutes(engine.Group("/"))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/vendor/sellers").Code)
		assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/vendor/sellers/me").Code)
	})

	t.Run("routes listing", func(t *testing.T) {
		g := NewDomainGroup("admin", "/admin").GET("/sellers", nil)
		g.Group("events", "/events").POST("/:id/retry", nil)

		assert.Equal(t, []string{"GET /admin/sellers", "POST /admin/events/:id/retry"}, g.Routes())
	})
}

func testHandlers() Handlers {
	return Handlers{
		System:        handler.NewSystemHandler("test", nil),
		Auth:          handler.NewAuthHandler(nil),
		Seller:        handler.NewSellerHandler(nil),
		Product:       handler.NewProductHandler(nil),
		Category:      handler.NewCategoryHandler(nil),
		Attribute:     handler.NewAttributeHandler(nil),
		PriceList:     handler.NewPriceListHandler(nil),
		Shipping:      handler.NewShippingHandler(nil),
		Order:         handler.NewOrderHandler(nil, nil),
		Commission:    handler.NewCommissionHandler(nil),
		ReturnRequest: handler.NewReturnRequestHandler(nil),
		Wishlist:      handler.NewWishlistHandler(nil),
		Outbox:        handler.NewOutboxHandler(nil),
	}
}

func routeSet(groups []*DomainGroup) map[string]bool {
	set := make(map[string]bool)
	for _, g := range groups {
		for _, route := range g.Routes() {
			set[route] = true
		}
	}
	return set
}

func TestSurfaces(t *testing.T) {
	guards := Guards{Authenticate: middleware.Authenticate(middleware.AuthConfig{})}

	t.Run("registers without conflicts", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)
		for _, g := range Surfaces(testHandlers(), guards) {
			r.Register(g)
		}
		require.NotPanics(t, r.Setup)

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health/live").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
	})

	t.Run("authenticated surfaces reject anonymous calls", func(t *testing.T) {
		engine := gin.New()
		engine.Use(middleware.RequestID())
		r := NewRouter(engine)
		for _, g := range Surfaces(testHandlers(), guards) {
			r.Register(g)
		}
		r.Setup()

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/admin/sellers"},
			{http.MethodGet, "/vendor/sellers/me"},
			{http.MethodPost, "/store/carts/complete"},
			{http.MethodGet, "/store/wishlist"},
			{http.MethodPost, "/auth/logout"},
		} {
			assert.Equal(t, http.StatusUnauthorized, serve(engine, tc.method, tc.path).Code, tc.method+" "+tc.path)
		}
	})

	t.Run("route table", func(t *testing.T) {
		routes := routeSet(Surfaces(testHandlers(), guards))

		for _, route := range []string{
			"POST /auth/:actor_type/login",
			"POST /auth/token/refresh",
			"POST /auth/customer/register",
			"POST /vendor/sellers",
			"POST /vendor/invites/accept",
			"POST /vendor/orders/:id/ship",
			"DELETE /vendor/price-lists/:id/prices/:price_id",
			"GET /vendor/attributes",
			"POST /store/return-request/:id/withdraw",
			"DELETE /store/wishlist/:product_id",
			"GET /store/sellers/:handle",
			"POST /admin/products/:id/status",
			"DELETE /admin/attributes/:id/values/:value_id",
			"GET /admin/commission/lines",
			"POST /admin/return-request/:id",
		} {
			assert.True(t, routes[route], route)
		}

		assert.False(t, routes["GET /vendor/payouts"])
		assert.False(t, routes["POST /hooks/payout/stripe"])
	})

	t.Run("payout routes with a provider", func(t *testing.T) {
		h := testHandlers()
		h.Payout = handler.NewPayoutHandler(nil)
		h.Webhook = handler.NewWebhookHandler(nil)
		routes := routeSet(Surfaces(h, guards))

		for _, route := range []string{
			"GET /vendor/payout-account",
			"POST /vendor/payout-account/onboarding",
			"GET /vendor/payouts/statement",
			"POST /admin/payouts/run",
			"POST /hooks/payout/stripe",
		} {
			assert.True(t, routes[route], route)
		}
	})
}
