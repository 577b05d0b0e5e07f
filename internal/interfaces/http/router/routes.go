package router

import (
	"github.com/gin-gonic/gin"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// Handlers holds every HTTP handler of the marketplace. Payout and Webhook
// are nil when no payout provider is configured; their routes are skipped.
type Handlers struct {
	System        *handler.SystemHandler
	Auth          *handler.AuthHandler
	Seller        *handler.SellerHandler
	Product       *handler.ProductHandler
	Category      *handler.CategoryHandler
	Attribute     *handler.AttributeHandler
	PriceList     *handler.PriceListHandler
	Shipping      *handler.ShippingHandler
	Order         *handler.OrderHandler
	Commission    *handler.CommissionHandler
	Payout        *handler.PayoutHandler
	ReturnRequest *handler.ReturnRequestHandler
	Wishlist      *handler.WishlistHandler
	Webhook       *handler.WebhookHandler
	Outbox        *handler.OutboxHandler
}

// Guards are the access checks shared by the authenticated surfaces
type Guards struct {
	Authenticate gin.HandlerFunc
	Sellers      middleware.SellerGuard
}

// Surfaces builds the route groups for /health, /auth, /store, /vendor,
// /admin and /hooks
func Surfaces(h Handlers, g Guards) []*DomainGroup {
	return []*DomainGroup{
		healthRoutes(h),
		authRoutes(h, g),
		storeRoutes(h, g),
		vendorRoutes(h, g),
		adminRoutes(h, g),
		hookRoutes(h),
	}
}

func healthRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("health", "/health").
		GET("", h.System.Health).
		GET("/live", h.System.Live)
}

func authRoutes(h Handlers, g Guards) *DomainGroup {
	auth := NewDomainGroup("auth", "/auth").
		POST("/:actor_type/login", h.Auth.Login).
		POST("/token/refresh", h.Auth.Refresh).
		POST("/customer/register", h.Auth.RegisterCustomer)

	auth.Group("auth-session", "").
		Use(g.Authenticate).
		POST("/logout", h.Auth.Logout)
	return auth
}

func storeRoutes(h Handlers, g Guards) *DomainGroup {
	store := NewDomainGroup("store", "/store").
		GET("/products", h.Product.StoreList).
		GET("/products/:id", h.Product.StoreGet).
		GET("/sellers/:handle", h.Seller.GetStore).
		GET("/shipping-options", h.Shipping.StoreListOptions)

	customer := store.Group("store-customer", "").
		Use(g.Authenticate, middleware.SpanAttributes(), middleware.RequireActor(string(identity.ActorTypeCustomer)))

	customer.
		POST("/carts/complete", h.Order.CompleteCart).
		GET("/order-sets", h.Order.StoreListOrderSets).
		GET("/order-sets/:id", h.Order.StoreGetOrderSet).
		GET("/orders/:id", h.Order.StoreGetOrder)

	customer.
		GET("/return-request", h.ReturnRequest.StoreList).
		POST("/return-request", h.ReturnRequest.StoreCreate).
		GET("/return-request/:id", h.ReturnRequest.StoreGet).
		POST("/return-request/:id/withdraw", h.ReturnRequest.Withdraw)

	customer.
		GET("/wishlist", h.Wishlist.Get).
		POST("/wishlist", h.Wishlist.Add).
		DELETE("/wishlist/:product_id", h.Wishlist.Remove)

	return store
}

func vendorRoutes(h Handlers, g Guards) *DomainGroup {
	vendor := NewDomainGroup("vendor", "/vendor").
		POST("/sellers", h.Seller.Register).
		POST("/invites/accept", h.Seller.AcceptInvite)

	seller := vendor.Group("vendor-seller", "").
		Use(
			g.Authenticate,
			middleware.SpanAttributes(),
			middleware.RequireActor(string(identity.ActorTypeSeller)),
			middleware.RequireActiveSeller(g.Sellers),
		)

	seller.
		GET("/sellers/me", h.Seller.GetMe).
		POST("/sellers/me", h.Seller.UpdateMe).
		GET("/sellers/me/onboarding", h.Seller.GetOnboarding).
		POST("/sellers/me/onboarding", h.Seller.RecomputeOnboarding).
		POST("/uploads", h.Seller.Upload).
		GET("/members", h.Seller.ListMembers).
		GET("/members/:id", h.Seller.GetMember).
		POST("/members/:id", h.Seller.UpdateMember).
		DELETE("/members/:id", h.Seller.DeleteMember).
		GET("/invites", h.Seller.ListInvites).
		POST("/invites", h.Seller.Invite)

	seller.
		GET("/products", h.Product.VendorList).
		POST("/products", h.Product.VendorCreate).
		GET("/products/:id", h.Product.VendorGet).
		POST("/products/:id", h.Product.VendorUpdate).
		DELETE("/products/:id", h.Product.VendorDelete).
		GET("/products/:id/attributes", h.Attribute.GetProductValues).
		POST("/products/:id/attributes", h.Attribute.SetProductValues).
		GET("/attributes", h.Attribute.List)

	seller.
		GET("/price-lists", h.PriceList.VendorList).
		POST("/price-lists", h.PriceList.Create).
		GET("/price-lists/:id", h.PriceList.Get).
		POST("/price-lists/:id", h.PriceList.Update).
		DELETE("/price-lists/:id", h.PriceList.Delete).
		POST("/price-lists/:id/prices", h.PriceList.AddPrices).
		DELETE("/price-lists/:id/prices/:price_id", h.PriceList.RemovePrice)

	seller.
		GET("/shipping-profiles", h.Shipping.ListProfiles).
		POST("/shipping-profiles", h.Shipping.CreateProfile).
		GET("/shipping-profiles/:id", h.Shipping.GetProfile).
		POST("/shipping-profiles/:id", h.Shipping.UpdateProfile).
		DELETE("/shipping-profiles/:id", h.Shipping.DeleteProfile).
		GET("/shipping-options", h.Shipping.ListOptions).
		POST("/shipping-options", h.Shipping.CreateOption).
		GET("/shipping-options/:id", h.Shipping.GetOption).
		POST("/shipping-options/:id", h.Shipping.UpdateOption).
		DELETE("/shipping-options/:id", h.Shipping.DeleteOption)

	seller.
		GET("/orders", h.Order.VendorList).
		GET("/orders/:id", h.Order.VendorGet).
		POST("/orders/:id/fulfill", h.Order.Fulfill).
		POST("/orders/:id/ship", h.Order.Ship).
		POST("/orders/:id/deliver", h.Order.Deliver).
		POST("/orders/:id/complete", h.Order.Complete).
		POST("/orders/:id/cancel", h.Order.VendorCancel)

	seller.
		GET("/commission/lines", h.Commission.VendorListLines).
		GET("/return-request", h.ReturnRequest.VendorList).
		GET("/return-request/:id", h.ReturnRequest.VendorGet).
		POST("/return-request/:id", h.ReturnRequest.VendorReview)

	if h.Payout != nil {
		seller.
			GET("/payout-account", h.Payout.GetAccount).
			POST("/payout-account", h.Payout.CreateAccount).
			POST("/payout-account/onboarding", h.Payout.CreateOnboarding).
			GET("/payouts", h.Payout.VendorList).
			GET("/payouts/statement", h.Payout.Statement)
	}

	return vendor
}

func adminRoutes(h Handlers, g Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").
		Use(g.Authenticate, middleware.SpanAttributes(), middleware.RequireActor(string(identity.ActorTypeUser)))

	admin.
		GET("/sellers", h.Seller.List).
		GET("/sellers/:id", h.Seller.Get).
		POST("/sellers/:id", h.Seller.Update).
		POST("/sellers/:id/status", h.Seller.SetStatus)

	admin.
		GET("/product-types", h.Category.ListTypes).
		POST("/product-types", h.Category.CreateType).
		GET("/product-types/:id", h.Category.GetType).
		POST("/product-types/:id", h.Category.UpdateType).
		DELETE("/product-types/:id", h.Category.DeleteType).
		GET("/product-categories", h.Category.ListCategories).
		POST("/product-categories", h.Category.CreateCategory).
		GET("/product-categories/:id", h.Category.GetCategory).
		POST("/product-categories/:id", h.Category.UpdateCategory).
		DELETE("/product-categories/:id", h.Category.DeleteCategory).
		GET("/products", h.Product.AdminList).
		GET("/products/:id", h.Product.AdminGet).
		POST("/products/:id/status", h.Product.Review)

	admin.
		GET("/attributes", h.Attribute.List).
		POST("/attributes", h.Attribute.Create).
		GET("/attributes/:id", h.Attribute.Get).
		POST("/attributes/:id", h.Attribute.Update).
		DELETE("/attributes/:id", h.Attribute.Delete).
		POST("/attributes/:id/values", h.Attribute.AddValue).
		DELETE("/attributes/:id/values/:value_id", h.Attribute.RemoveValue)

	admin.
		GET("/price-lists", h.PriceList.AdminList).
		GET("/shipping-profiles", h.Shipping.AdminListProfiles)

	admin.
		GET("/order-sets", h.Order.AdminListOrderSets).
		GET("/order-sets/:id", h.Order.AdminGetOrderSet).
		GET("/orders", h.Order.AdminList).
		GET("/orders/:id", h.Order.AdminGet).
		POST("/orders/:id/capture", h.Order.Capture).
		POST("/orders/:id/cancel", h.Order.AdminCancel)

	admin.
		GET("/commission/rules", h.Commission.ListRules).
		POST("/commission/rules", h.Commission.CreateRule).
		GET("/commission/rules/:id", h.Commission.GetRule).
		POST("/commission/rules/:id", h.Commission.UpdateRule).
		DELETE("/commission/rules/:id", h.Commission.DeleteRule).
		GET("/commission/lines", h.Commission.ListLines)

	admin.
		GET("/return-request", h.ReturnRequest.AdminList).
		GET("/return-request/:id", h.ReturnRequest.AdminGet).
		POST("/return-request/:id", h.ReturnRequest.AdminReview)

	if h.Payout != nil {
		admin.
			GET("/payouts", h.Payout.AdminList).
			POST("/payouts/run", h.Payout.Run)
	}

	admin.
		GET("/events/dead", h.Outbox.ListDead).
		GET("/events/stats", h.Outbox.Stats).
		POST("/events/retry", h.Outbox.RetryAll).
		POST("/events/:id/retry", h.Outbox.Retry)

	return admin
}

func hookRoutes(h Handlers) *DomainGroup {
	hooks := NewDomainGroup("hooks", "/hooks")
	if h.Webhook != nil {
		hooks.POST("/payout/stripe", h.Webhook.HandleStripe)
	}
	return hooks
}
