package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	attributeapp "github.com/marketplace/backend/internal/application/attribute"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	commissionapp "github.com/marketplace/backend/internal/application/commission"
	eventapp "github.com/marketplace/backend/internal/application/event"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	orderapp "github.com/marketplace/backend/internal/application/order"
	payoutapp "github.com/marketplace/backend/internal/application/payout"
	pricelistapp "github.com/marketplace/backend/internal/application/pricelist"
	returnapp "github.com/marketplace/backend/internal/application/returnrequest"
	sellerapp "github.com/marketplace/backend/internal/application/seller"
	appshared "github.com/marketplace/backend/internal/application/shared"
	shippingapp "github.com/marketplace/backend/internal/application/shipping"
	wishlistapp "github.com/marketplace/backend/internal/application/wishlist"
	payoutdomain "github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/event"
	"github.com/marketplace/backend/internal/infrastructure/payment"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/statement"
	"github.com/marketplace/backend/internal/infrastructure/storage"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/router"
)

const payoutJobName = "payouts"

// application holds the services shared by the HTTP layer, the event bus
// and the scheduler
type application struct {
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist

	serializer *event.EventSerializer
	outboxRepo *event.GormOutboxRepository

	auth        *identityapp.AuthService
	sellers     *sellerapp.SellerService
	products    *catalogapp.ProductService
	categories  *catalogapp.CategoryService
	attributes  *attributeapp.AttributeService
	priceLists  *pricelistapp.PriceListService
	shipping    *shippingapp.ShippingService
	checkout    *orderapp.CheckoutService
	orders      *orderapp.OrderService
	commissions *commissionapp.CommissionService
	returns     *returnapp.ReturnRequestService
	wishlists   *wishlistapp.WishlistService
	outbox      *eventapp.OutboxService
	// payouts is nil when Stripe is disabled
	payouts *payoutapp.PayoutService

	printer *statement.ChromedpRenderer
}

func buildApp(
	ctx context.Context,
	cfg *config.Config,
	db *persistence.Database,
	stores *cache.Stores,
	tel *telemetry.Telemetry,
	log *zap.Logger,
) (*application, error) {
	gdb := db.DB
	app := &application{
		jwt:        auth.NewJWTService(cfg.JWT),
		serializer: event.NewEventSerializer(),
		outboxRepo: event.NewGormOutboxRepository(gdb),
	}
	if stores.Client != nil {
		app.blacklist = auth.NewRedisTokenBlacklist(stores.Client)
	} else {
		app.blacklist = auth.NewInMemoryTokenBlacklist()
	}

	event.RegisterMarketplaceEvents(app.serializer)
	scope := persistence.NewGormTransactionScope(gdb, event.NewOutboxPublisher(app.serializer))

	// Repositories
	sellerRepo := persistence.NewGormSellerRepository(gdb)
	memberRepo := persistence.NewGormMemberRepository(gdb)
	productRepo := persistence.NewGormProductRepository(gdb)
	typeRepo := persistence.NewGormProductTypeRepository(gdb)
	categoryRepo := persistence.NewGormCategoryRepository(gdb)
	customerRepo := persistence.NewGormCustomerRepository(gdb)
	orderRepo := persistence.NewGormOrderRepository(gdb)
	orderSetRepo := persistence.NewGormOrderSetRepository(gdb)
	optionRepo := persistence.NewGormShippingOptionRepository(gdb)
	accountRepo := persistence.NewGormPayoutAccountRepository(gdb)
	lineRepo := persistence.NewGormCommissionLineRepository(gdb)

	objects, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var metrics appshared.BusinessMetrics = appshared.NoopMetrics{}
	if tel.Metrics != nil {
		metrics = tel.Metrics
	}

	app.auth = identityapp.NewAuthService(
		persistence.NewGormAuthIdentityRepository(gdb),
		persistence.NewGormUserRepository(gdb),
		customerRepo,
		memberRepo,
		app.jwt,
		app.blacklist,
		identityapp.DefaultAuthServiceConfig(),
		log,
	)
	app.sellers = sellerapp.NewSellerService(sellerapp.Repositories{
		Sellers:         sellerRepo,
		Members:         memberRepo,
		Invites:         persistence.NewGormInviteRepository(gdb),
		Onboardings:     persistence.NewGormOnboardingRepository(gdb),
		Products:        productRepo,
		ShippingOptions: optionRepo,
		PayoutAccounts:  accountRepo,
	}, app.auth, objects, metrics, sellerapp.Config{
		ApprovalRequired: cfg.Marketplace.SellerApprovalRequired,
	}, log)

	app.products = catalogapp.NewProductService(productRepo, typeRepo, categoryRepo, sellerRepo, log)
	app.categories = catalogapp.NewCategoryService(typeRepo, categoryRepo, log)
	app.attributes = attributeapp.NewAttributeService(
		persistence.NewGormAttributeRepository(gdb),
		persistence.NewGormAttributeValueRepository(gdb),
		categoryRepo,
		productRepo,
		log,
	)
	app.priceLists = pricelistapp.NewPriceListService(persistence.NewGormPriceListRepository(gdb), productRepo, log)
	app.shipping = shippingapp.NewShippingService(persistence.NewGormShippingProfileRepository(gdb), optionRepo, sellerRepo, log)

	app.orders = orderapp.NewOrderService(orderSetRepo, orderRepo, scope, log)
	app.checkout = orderapp.NewCheckoutService(orderapp.CheckoutRepositories{
		OrderSets:       orderSetRepo,
		Orders:          orderRepo,
		Products:        productRepo,
		Sellers:         sellerRepo,
		ShippingOptions: optionRepo,
		Customers:       customerRepo,
	}, scope, app.priceLists, stores.Idempotency, metrics, log)

	app.commissions = commissionapp.NewCommissionService(
		persistence.NewGormCommissionRuleRepository(gdb),
		lineRepo,
		orderRepo,
		persistence.NewGormReferenceLookup(gdb),
		metrics,
		log,
	)
	app.returns = returnapp.NewReturnRequestService(
		persistence.NewGormReturnRequestRepository(gdb),
		orderRepo,
		scope,
		metrics,
		returnapp.Config{WindowDays: cfg.Marketplace.ReturnWindowDays},
		log,
	)
	app.wishlists = wishlistapp.NewWishlistService(persistence.NewGormWishlistRepository(gdb), productRepo, sellerRepo, log)
	app.outbox = eventapp.NewOutboxService(app.outboxRepo, log)

	if !cfg.Stripe.Enabled {
		log.Warn("Stripe is disabled, payout routes and jobs are not registered")
		return app, nil
	}
	provider, err := payment.NewStripeProvider(cfg.Stripe, nil, log)
	if err != nil {
		return nil, fmt.Errorf("stripe provider: %w", err)
	}

	var renderer *statement.Renderer
	if cfg.Statement.Enabled {
		builder, err := statement.NewHTMLBuilder(cfg.Statement.Locale)
		if err != nil {
			return nil, fmt.Errorf("statement template: %w", err)
		}
		app.printer = statement.NewChromedpRenderer(cfg.Statement, log)
		renderer = statement.NewRenderer(builder, app.printer)
	}

	app.payouts = payoutapp.NewPayoutService(payoutapp.Repositories{
		Accounts:        accountRepo,
		Payouts:         persistence.NewGormPayoutRepository(gdb),
		Orders:          orderRepo,
		CommissionLines: lineRepo,
		Sellers:         sellerRepo,
	}, provider, statementRenderer(renderer), objects, stores.Idempotency, metrics, payoutapp.Config{
		HoldPeriod:      cfg.Marketplace.PayoutHold(),
		BatchSize:       cfg.Marketplace.PayoutBatchSize,
		StatementExpiry: cfg.Storage.PresignExpiration,
		DefaultCurrency: cfg.Marketplace.DefaultCurrency,
	}, log)

	return app, nil
}

// statementRenderer keeps a nil *Renderer from becoming a non-nil interface
func statementRenderer(r *statement.Renderer) payoutdomain.StatementRenderer {
	if r == nil {
		return nil
	}
	return r
}

func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (appshared.ObjectStorage, error) {
	if !cfg.Storage.Enabled {
		log.Warn("Object storage is disabled, uploads are kept in memory")
		return storage.NewMemoryObjectStorage(cfg.Storage.PublicURL), nil
	}
	s3, err := storage.NewS3ObjectStorage(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("object storage bucket: %w", err)
	}
	return s3, nil
}

// eventHandlers returns the cross-context subscribers, each guarded against
// duplicate delivery
func (a *application) eventHandlers(stores *cache.Stores, log *zap.Logger) []shared.EventHandler {
	raw := []shared.EventHandler{
		commissionapp.NewOrderPlacedHandler(a.commissions, log),
		shippingapp.NewSellerCreatedHandler(a.shipping, log),
		sellerapp.NewPayoutAccountStatusHandler(a.sellers, log),
	}
	if a.payouts != nil {
		raw = append(raw,
			payoutapp.NewOrderCompletedHandler(a.payouts, log),
			payoutapp.NewReturnRefundedHandler(a.payouts, log),
		)
	}

	handlers := make([]shared.EventHandler, 0, len(raw))
	for _, h := range raw {
		handlers = append(handlers, event.NewIdempotentHandler(h, stores.Idempotency, shared.DefaultIdempotencyConfig(), log))
	}
	return handlers
}

func (a *application) handlers(version string, checks map[string]handler.HealthCheck) router.Handlers {
	h := router.Handlers{
		System:        handler.NewSystemHandler(version, checks),
		Auth:          handler.NewAuthHandler(a.auth),
		Seller:        handler.NewSellerHandler(a.sellers),
		Product:       handler.NewProductHandler(a.products),
		Category:      handler.NewCategoryHandler(a.categories),
		Attribute:     handler.NewAttributeHandler(a.attributes),
		PriceList:     handler.NewPriceListHandler(a.priceLists),
		Shipping:      handler.NewShippingHandler(a.shipping),
		Order:         handler.NewOrderHandler(a.checkout, a.orders),
		Commission:    handler.NewCommissionHandler(a.commissions),
		ReturnRequest: handler.NewReturnRequestHandler(a.returns),
		Wishlist:      handler.NewWishlistHandler(a.wishlists),
		Outbox:        handler.NewOutboxHandler(a.outbox),
	}
	if a.payouts != nil {
		h.Payout = handler.NewPayoutHandler(a.payouts)
		h.Webhook = handler.NewWebhookHandler(a.payouts)
	}
	return h
}

func (a *application) close(log *zap.Logger) {
	if a.printer != nil {
		if err := a.printer.Close(); err != nil {
			log.Error("Error closing statement renderer", zap.Error(err))
		}
	}
}
