package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	pricelistapp "github.com/marketplace/backend/internal/application/pricelist"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/pricelist"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// checkoutLockTTL bounds how long a checkout key blocks concurrent retries
const checkoutLockTTL = time.Minute

// PriceResolver resolves the unit prices charged at checkout
type PriceResolver interface {
	EffectivePrices(ctx context.Context, currency string, lines []pricelistapp.PriceLine, now time.Time) ([]pricelist.EffectivePrice, error)
}

// CheckoutRepositories groups the read repositories checkout validates against
type CheckoutRepositories struct {
	OrderSets       order.OrderSetRepository
	Orders          order.OrderRepository
	Products        catalog.ProductRepository
	Sellers         seller.SellerRepository
	ShippingOptions shipping.OptionRepository
	Customers       identity.CustomerRepository
}

// CheckoutService turns a customer cart into an order set with one order per seller
type CheckoutService struct {
	repos       CheckoutRepositories
	scope       appshared.TransactionScope
	prices      PriceResolver
	idempotency shared.IdempotencyStore
	metrics     appshared.BusinessMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewCheckoutService creates a new CheckoutService. idempotency may be nil,
// in which case only the database guards against duplicate checkouts.
func NewCheckoutService(
	repos CheckoutRepositories,
	scope appshared.TransactionScope,
	prices PriceResolver,
	idempotency shared.IdempotencyStore,
	metrics appshared.BusinessMetrics,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		repos:       repos,
		scope:       scope,
		prices:      prices,
		idempotency: idempotency,
		metrics:     appshared.MetricsOrNoop(metrics),
		logger:      logger,
		now:         time.Now,
	}
}

// sellerCart is the part of the cart sold by one seller
type sellerCart struct {
	seller   *seller.Seller
	option   *shipping.ShippingOption
	products []*catalog.Product
	lines    []order.LineItemInput
}

// Complete places the cart. Repeating a checkout with the same idempotency
// key returns the order set of the first call; created is false then.
func (s *CheckoutService) Complete(ctx context.Context, customerID uuid.UUID, idempotencyKey string, req CompleteCartRequest) (resp *OrderSetResponse, created bool, err error) {
	start := time.Now()
	idempotencyKey = strings.TrimSpace(idempotencyKey)

	if idempotencyKey != "" {
		if existing, findErr := s.findExisting(ctx, customerID, idempotencyKey); findErr != nil || existing != nil {
			return existing, false, findErr
		}
		if s.idempotency != nil {
			lockKey := "checkout:" + customerID.String() + ":" + idempotencyKey
			fresh, lockErr := s.idempotency.MarkProcessed(ctx, lockKey, checkoutLockTTL)
			if lockErr != nil {
				return nil, false, lockErr
			}
			if !fresh {
				existing, findErr := s.findExisting(ctx, customerID, idempotencyKey)
				if findErr != nil || existing != nil {
					return existing, false, findErr
				}
				return nil, false, shared.NewDomainError(shared.CodeConflict, "A checkout with this idempotency key is in progress")
			}
			defer func() {
				if err != nil {
					if releaseErr := s.idempotency.Release(context.WithoutCancel(ctx), lockKey); releaseErr != nil {
						s.logger.Warn("failed to release checkout key", zap.String("key", lockKey), zap.Error(releaseErr))
					}
				}
			}()
		}
	}

	customer, err := s.repos.Customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, false, err
	}
	email := req.Email
	if email == "" {
		email = customer.Email
	}
	currency := valueobject.NormalizeCurrency(req.CurrencyCode)

	carts, err := s.splitCart(ctx, currency, req)
	if err != nil {
		return nil, false, err
	}

	var summary order.Summary
	err = s.scope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		set, err := order.NewOrderSet(customerID, req.CartID, idempotencyKey)
		if err != nil {
			return err
		}
		set.SalesChannelID = req.SalesChannelID
		if set.DisplayID, err = repos.OrderSets().NextDisplayID(ctx); err != nil {
			return err
		}
		if err := repos.OrderSets().Save(ctx, set); err != nil {
			return err
		}

		orders := make([]order.Order, 0, len(carts))
		for _, cart := range carts {
			o, err := s.placeSellerOrder(ctx, repos, set, customerID, email, currency, req.TaxRate, cart)
			if err != nil {
				return err
			}
			orders = append(orders, *o)
		}
		summary = order.Summarize(*set, orders)
		return nil
	})
	if err != nil {
		// a concurrent checkout with the same key won the unique index
		if idempotencyKey != "" && errors.Is(err, shared.ErrDuplicate) {
			if existing, findErr := s.findExisting(ctx, customerID, idempotencyKey); findErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}

	s.metrics.OrderSetPlaced(ctx, currency, summary.Total, time.Since(start))
	s.logger.Info("Order set placed",
		zap.String("order_set_id", summary.Set.ID.String()),
		zap.Int64("display_id", summary.Set.DisplayID),
		zap.String("customer_id", customerID.String()),
		zap.Int("orders", len(summary.Orders)),
		zap.String("total", summary.Total.String()))

	out := ToOrderSetResponse(&summary)
	return &out, true, nil
}

// splitCart validates the cart and groups it by seller in cart order
func (s *CheckoutService) splitCart(ctx context.Context, currency string, req CompleteCartRequest) ([]*sellerCart, error) {
	quantities := make(map[uuid.UUID]int, len(req.Items))
	productIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, shared.InvalidArgument("Quantity for product %s must be positive", item.ProductID)
		}
		if _, seen := quantities[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	products, err := s.repos.Products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var (
		carts     []*sellerCart
		bySeller  = map[uuid.UUID]*sellerCart{}
		sellerIDs []uuid.UUID
	)
	for _, id := range productIDs {
		p, ok := byID[id]
		if !ok {
			return nil, shared.InvalidArgument("Unknown product: %s", id)
		}
		if !p.IsPublished() {
			return nil, shared.NotAllowed("Product %s is not available for purchase", p.Title)
		}
		cart, ok := bySeller[p.SellerID]
		if !ok {
			cart = &sellerCart{}
			bySeller[p.SellerID] = cart
			carts = append(carts, cart)
			sellerIDs = append(sellerIDs, p.SellerID)
		}
		cart.products = append(cart.products, p)
	}

	sellers, err := s.repos.Sellers.FindByIDs(ctx, sellerIDs)
	if err != nil {
		return nil, err
	}
	for i := range sellers {
		sel := &sellers[i]
		if !sel.IsActive() {
			return nil, shared.NotAllowed("Seller %s is not accepting orders", sel.Name)
		}
		bySeller[sel.ID].seller = sel
	}
	for sellerID, cart := range bySeller {
		if cart.seller == nil {
			return nil, shared.NotAllowed("Seller %s is not accepting orders", sellerID)
		}
	}

	if err := s.assignShipping(ctx, currency, req.ShippingOptionIDs, bySeller); err != nil {
		return nil, err
	}

	// Unit prices are resolved once for the whole cart
	priceLines := make([]pricelistapp.PriceLine, 0, len(productIDs))
	for _, cart := range carts {
		for _, p := range cart.products {
			priceLines = append(priceLines, pricelistapp.PriceLine{Product: p, Quantity: quantities[p.ID]})
		}
	}
	prices, err := s.prices.EffectivePrices(ctx, currency, priceLines, s.now())
	if err != nil {
		return nil, err
	}
	i := 0
	for _, cart := range carts {
		for _, p := range cart.products {
			cart.lines = append(cart.lines, order.LineItemInput{
				ProductID:     p.ID,
				Title:         p.Title,
				ProductTypeID: p.TypeID,
				CategoryID:    p.CategoryID,
				Quantity:      quantities[p.ID],
				UnitPrice:     prices[i].Amount,
			})
			i++
		}
	}
	return carts, nil
}

// assignShipping attaches exactly one shipping option to every seller cart
func (s *CheckoutService) assignShipping(ctx context.Context, currency string, optionIDs []uuid.UUID, bySeller map[uuid.UUID]*sellerCart) error {
	options, err := s.repos.ShippingOptions.FindByIDs(ctx, optionIDs)
	if err != nil {
		return err
	}
	if len(options) != len(optionIDs) {
		return shared.InvalidArgument("One or more shipping options do not exist")
	}
	for i := range options {
		opt := &options[i]
		cart, ok := bySeller[opt.SellerID]
		if !ok {
			return shared.InvalidArgument("Shipping option %s belongs to a seller without items in the cart", opt.Name)
		}
		if cart.option != nil {
			return shared.InvalidArgument("Only one shipping option per seller is allowed")
		}
		if opt.CurrencyCode != currency {
			return shared.InvalidArgument("Shipping option %s is not priced in %s", opt.Name, strings.ToUpper(currency))
		}
		cart.option = opt
	}
	for _, cart := range bySeller {
		if cart.option == nil {
			return shared.InvalidArgument("A shipping option is required for seller %s", cart.seller.Name)
		}
	}
	return nil
}

// placeSellerOrder reserves inventory and writes one seller order
func (s *CheckoutService) placeSellerOrder(
	ctx context.Context,
	repos appshared.TransactionalRepositories,
	set *order.OrderSet,
	customerID uuid.UUID,
	email, currency string,
	taxRate decimal.Decimal,
	cart *sellerCart,
) (*order.Order, error) {
	ids := make([]uuid.UUID, len(cart.lines))
	for i, line := range cart.lines {
		ids[i] = line.ProductID
	}
	// re-read inside the transaction so stock checks see committed writes
	current, err := repos.Products().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	stock := make(map[uuid.UUID]*catalog.Product, len(current))
	for i := range current {
		stock[current[i].ID] = &current[i]
	}
	for _, line := range cart.lines {
		p, ok := stock[line.ProductID]
		if !ok {
			return nil, shared.InvalidArgument("Unknown product: %s", line.ProductID)
		}
		if err := p.ReserveStock(line.Quantity); err != nil {
			return nil, err
		}
		if err := repos.Products().Save(ctx, p); err != nil {
			return nil, err
		}
	}

	optionID := cart.option.ID
	o, err := order.PlaceOrder(order.PlaceOrderInput{
		OrderSetID:       set.ID,
		SellerID:         cart.seller.ID,
		CustomerID:       customerID,
		Email:            email,
		CurrencyCode:     currency,
		Items:            cart.lines,
		ShippingOptionID: &optionID,
		ShippingAmount:   cart.option.Amount,
		TaxRate:          taxRate,
	})
	if err != nil {
		return nil, err
	}
	if o.DisplayID, err = repos.Orders().NextDisplayID(ctx); err != nil {
		return nil, err
	}
	if err := repos.Orders().Save(ctx, o); err != nil {
		return nil, err
	}
	o.ClearDomainEvents()
	return o, nil
}

func (s *CheckoutService) findExisting(ctx context.Context, customerID uuid.UUID, key string) (*OrderSetResponse, error) {
	set, err := s.repos.OrderSets.FindByIdempotencyKey(ctx, customerID, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	orders, err := s.repos.Orders.FindByOrderSet(ctx, set.ID)
	if err != nil {
		return nil, err
	}
	summary := order.Summarize(*set, orders)
	resp := ToOrderSetResponse(&summary)
	return &resp, nil
}
