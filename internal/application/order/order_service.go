package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService serves order and order set reads and seller/admin transitions
type OrderService struct {
	orderSets order.OrderSetRepository
	orders    order.OrderRepository
	scope     appshared.TransactionScope
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderSets order.OrderSetRepository,
	orders order.OrderRepository,
	scope appshared.TransactionScope,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderSets: orderSets,
		orders:    orders,
		scope:     scope,
		logger:    logger,
		now:       time.Now,
	}
}

// =============================================================================
// Order sets
// =============================================================================

// GetOrderSet returns an order set with its rolled up status and totals
func (s *OrderService) GetOrderSet(ctx context.Context, id uuid.UUID) (*OrderSetResponse, error) {
	set, err := s.orderSets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, set)
}

// GetOrderSetForCustomer returns one of the customer's order sets
func (s *OrderService) GetOrderSetForCustomer(ctx context.Context, customerID, id uuid.UUID) (*OrderSetResponse, error) {
	set, err := s.orderSets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if set.CustomerID != customerID {
		return nil, shared.NotFound("OrderSet", id)
	}
	return s.summarize(ctx, set)
}

// ListOrderSetsForCustomer lists the customer's order sets
func (s *OrderService) ListOrderSetsForCustomer(ctx context.Context, customerID uuid.UUID, query appshared.ListQuery) (shared.ListResult[OrderSetResponse], error) {
	return s.ListOrderSets(ctx, query, OrderSetListFilter{CustomerID: customerID.String()})
}

// ListOrderSets lists order sets; the member orders are loaded in one query
func (s *OrderService) ListOrderSets(ctx context.Context, query appshared.ListQuery, f OrderSetListFilter) (shared.ListResult[OrderSetResponse], error) {
	filter := query.Filter()
	customerID, err := appshared.ParseOptionalUUID("customer_id", f.CustomerID)
	if err != nil {
		return shared.ListResult[OrderSetResponse]{}, err
	}
	if customerID != nil {
		filter = filter.With("customer_id", *customerID)
	}

	sets, total, err := s.orderSets.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[OrderSetResponse]{}, err
	}
	ids := make([]uuid.UUID, len(sets))
	for i := range sets {
		ids[i] = sets[i].ID
	}
	members, err := s.orders.FindByOrderSets(ctx, ids)
	if err != nil {
		return shared.ListResult[OrderSetResponse]{}, err
	}
	grouped := make(map[uuid.UUID][]order.Order, len(sets))
	for _, o := range members {
		grouped[o.OrderSetID] = append(grouped[o.OrderSetID], o)
	}

	return appshared.MapList(sets, total, filter, func(set *order.OrderSet) OrderSetResponse {
		summary := order.Summarize(*set, grouped[set.ID])
		return ToOrderSetResponse(&summary)
	}), nil
}

func (s *OrderService) summarize(ctx context.Context, set *order.OrderSet) (*OrderSetResponse, error) {
	orders, err := s.orders.FindByOrderSet(ctx, set.ID)
	if err != nil {
		return nil, err
	}
	summary := order.Summarize(*set, orders)
	resp := ToOrderSetResponse(&summary)
	return &resp, nil
}

// =============================================================================
// Orders
// =============================================================================

// GetOrderForCustomer returns one of the customer's orders
func (s *OrderService) GetOrderForCustomer(ctx context.Context, customerID, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.BelongsTo(customerID) {
		return nil, shared.NotFound("Order", id)
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetOrderForSeller returns one of the seller's orders
func (s *OrderService) GetOrderForSeller(ctx context.Context, sellerID, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByIDForSeller(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetOrder returns any order for the admin panel
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// ListOrdersForSeller lists the seller's orders
func (s *OrderService) ListOrdersForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f OrderListFilter) (shared.ListResult[OrderResponse], error) {
	f.SellerID = sellerID.String()
	return s.ListOrders(ctx, query, f)
}

// ListOrders lists orders of every seller
func (s *OrderService) ListOrders(ctx context.Context, query appshared.ListQuery, f OrderListFilter) (shared.ListResult[OrderResponse], error) {
	filter := query.Filter().
		With("status", f.Status).
		With("payment_status", f.PaymentStatus).
		With("fulfillment_status", f.FulfillmentStatus)
	for key, raw := range map[string]string{"seller_id": f.SellerID, "customer_id": f.CustomerID} {
		id, err := appshared.ParseOptionalUUID(key, raw)
		if err != nil {
			return shared.ListResult[OrderResponse]{}, err
		}
		if id != nil {
			filter = filter.With(key, *id)
		}
	}
	orders, total, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[OrderResponse]{}, err
	}
	return appshared.MapList(orders, total, filter, ToOrderResponse), nil
}

// =============================================================================
// Transitions
// =============================================================================

// Fulfill marks a seller order fulfilled
func (s *OrderService) Fulfill(ctx context.Context, sellerID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, &sellerID, id, "fulfilled", (*order.Order).Fulfill)
}

// Ship marks a seller order shipped
func (s *OrderService) Ship(ctx context.Context, sellerID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, &sellerID, id, "shipped", (*order.Order).Ship)
}

// Deliver marks a seller order delivered now
func (s *OrderService) Deliver(ctx context.Context, sellerID, id uuid.UUID) (*OrderResponse, error) {
	at := s.now()
	return s.transition(ctx, &sellerID, id, "delivered", func(o *order.Order) error {
		return o.Deliver(at)
	})
}

// Complete completes a delivered seller order
func (s *OrderService) Complete(ctx context.Context, sellerID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, &sellerID, id, "completed", (*order.Order).Complete)
}

// Capture captures the payment of an order
func (s *OrderService) Capture(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, nil, id, "captured", (*order.Order).Capture)
}

// CancelForSeller cancels one of the seller's orders and restores its stock
func (s *OrderService) CancelForSeller(ctx context.Context, sellerID, id uuid.UUID) (*OrderResponse, error) {
	return s.cancel(ctx, &sellerID, id)
}

// Cancel cancels any order and restores its stock
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.cancel(ctx, nil, id)
}

func (s *OrderService) transition(ctx context.Context, sellerID *uuid.UUID, id uuid.UUID, action string, apply func(*order.Order) error) (*OrderResponse, error) {
	o, err := s.find(ctx, s.orders, sellerID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(o); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	o.ClearDomainEvents()

	s.logger.Info("Order "+action,
		zap.String("order_id", o.ID.String()),
		zap.String("seller_id", o.SellerID.String()),
		zap.String("fulfillment_status", string(o.FulfillmentStatus)),
		zap.String("payment_status", string(o.PaymentStatus)))
	resp := ToOrderResponse(o)
	return &resp, nil
}

func (s *OrderService) cancel(ctx context.Context, sellerID *uuid.UUID, id uuid.UUID) (*OrderResponse, error) {
	var canceled *order.Order
	err := s.scope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		o, err := s.find(ctx, repos.Orders(), sellerID, id)
		if err != nil {
			return err
		}
		if err := o.Cancel(); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		o.ClearDomainEvents()

		ids := make([]uuid.UUID, len(o.Items))
		quantities := make(map[uuid.UUID]int, len(o.Items))
		for i, item := range o.Items {
			ids[i] = item.ProductID
			quantities[item.ProductID] += item.Quantity
		}
		products, err := repos.Products().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		// products deleted since checkout have no stock to restore
		for i := range products {
			products[i].RestoreStock(quantities[products[i].ID])
			if err := repos.Products().Save(ctx, &products[i]); err != nil {
				return err
			}
		}
		canceled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order canceled",
		zap.String("order_id", canceled.ID.String()),
		zap.String("seller_id", canceled.SellerID.String()),
		zap.String("payment_status", string(canceled.PaymentStatus)))
	resp := ToOrderResponse(canceled)
	return &resp, nil
}

func (s *OrderService) find(ctx context.Context, repo order.OrderRepository, sellerID *uuid.UUID, id uuid.UUID) (*order.Order, error) {
	if sellerID != nil {
		return repo.FindByIDForSeller(ctx, *sellerID, id)
	}
	return repo.FindByID(ctx, id)
}
