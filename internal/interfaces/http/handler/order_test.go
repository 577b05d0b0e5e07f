package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apporder "github.com/marketplace/backend/internal/application/order"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/shared"
)

type mockCheckoutService struct {
	mock.Mock
}

func (m *mockCheckoutService) Complete(ctx context.Context, customerID uuid.UUID, key string, req apporder.CompleteCartRequest) (*apporder.OrderSetResponse, bool, error) {
	args := m.Called(ctx, customerID, key, req)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*apporder.OrderSetResponse), args.Bool(1), args.Error(2)
}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) orderSet(args mock.Arguments) (*apporder.OrderSetResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apporder.OrderSetResponse), args.Error(1)
}

func (m *mockOrderService) order(args mock.Arguments) (*apporder.OrderResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apporder.OrderResponse), args.Error(1)
}

func (m *mockOrderService) GetOrderSet(ctx context.Context, id uuid.UUID) (*apporder.OrderSetResponse, error) {
	return m.orderSet(m.Called(ctx, id))
}

func (m *mockOrderService) GetOrderSetForCustomer(ctx context.Context, customerID, id uuid.UUID) (*apporder.OrderSetResponse, error) {
	return m.orderSet(m.Called(ctx, customerID, id))
}

func (m *mockOrderService) ListOrderSetsForCustomer(ctx context.Context, customerID uuid.UUID, query appshared.ListQuery) (shared.ListResult[apporder.OrderSetResponse], error) {
	args := m.Called(ctx, customerID, query)
	return args.Get(0).(shared.ListResult[apporder.OrderSetResponse]), args.Error(1)
}

func (m *mockOrderService) ListOrderSets(ctx context.Context, query appshared.ListQuery, f apporder.OrderSetListFilter) (shared.ListResult[apporder.OrderSetResponse], error) {
	args := m.Called(ctx, query, f)
	return args.Get(0).(shared.ListResult[apporder.OrderSetResponse]), args.Error(1)
}

func (m *mockOrderService) GetOrderForCustomer(ctx context.Context, customerID, id uuid.UUID) (*apporder.OrderResponse, error) {
	return m.order(m.Called(ctx, customerID, id))
}

func (m *mockOrderService) GetOrderForSeller(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error) {
	return m.order(m.Called(ctx, sellerID, id))
}

func (m *mockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*apporder.OrderResponse, error) {
	return m.order(m.Called(ctx, id))
}

func (m *mockOrderService) ListOrdersForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f apporder.OrderListFilter) (shared.ListResult[apporder.OrderResponse], error) {
	args := m.Called(ctx, sellerID, query, f)
	return args.Get(0).(shared.ListResult[apporder.OrderResponse]), args.Error(1)
}

func (m *mockOrderService) ListOrders(ctx context.Context, query appshared.ListQuery, f apporder.OrderListFilter) (shared.ListResult[apporder.OrderResponse], error) {
	args := m.Called(ctx, query, f)
	return args.Get(0).(shared.ListResult[apporder.OrderResponse]), args.Error(1)
}

func (m *mockOrderService) Fulfill(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error) {
	return m.order(m.Called(ctx, sellerID, id))
}

func (m *mockOrderService) Ship(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error) {
	return m.order(m.Called(ctx, sellerID, id))
}

func (m *mockOrderService) Deliver(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error) {
	return m.order(m.Called(ctx, sellerID, id))
}

func (m *mockOrderService) Complete(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error) {
	return m.order(m.Called(ctx, sellerID, id))
}

func (m *mockOrderService) CancelForSeller(ctx context.Context, sellerID, id uuid.UUID) (*apporder.OrderResponse, error) {
	return m.order(m.Called(ctx, sellerID, id))
}

func (m *mockOrderService) Capture(ctx context.Context, id uuid.UUID) (*apporder.OrderResponse, error) {
	return m.order(m.Called(ctx, id))
}

func (m *mockOrderService) Cancel(ctx context.Context, id uuid.UUID) (*apporder.OrderResponse, error) {
	return m.order(m.Called(ctx, id))
}

func cartBody(productID uuid.UUID) map[string]any {
	return map[string]any{
		"currency_code": "usd",
		"items": []map[string]any{
			{"product_id": productID.String(), "quantity": 2},
		},
	}
}

func TestOrderHandler_CompleteCart(t *testing.T) {
	customerID := uuid.New()
	orderSet := &apporder.OrderSetResponse{ID: uuid.New(), DisplayID: 7, CustomerID: customerID}

	t.Run("first completion is created", func(t *testing.T) {
		checkout := new(mockCheckoutService)
		checkout.On("Complete", mock.Anything, customerID, "key-1", mock.AnythingOfType("order.CompleteCartRequest")).
			Return(orderSet, true, nil).Once()
		h := NewOrderHandler(checkout, new(mockOrderService))
		r := newEngine(customerClaims(customerID))
		r.POST("/store/carts/complete", h.CompleteCart)

		req := jsonRequest(t, http.MethodPost, "/store/carts/complete", cartBody(uuid.New()))
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		w := serve(r, req)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, orderSet.ID.String(), body["order_set"].(map[string]any)["id"])
		checkout.AssertExpectations(t)
	})

	t.Run("replay answers 200", func(t *testing.T) {
		checkout := new(mockCheckoutService)
		checkout.On("Complete", mock.Anything, customerID, "key-1", mock.Anything).Return(orderSet, false, nil).Once()
		h := NewOrderHandler(checkout, new(mockOrderService))
		r := newEngine(customerClaims(customerID))
		r.POST("/store/carts/complete", h.CompleteCart)

		req := jsonRequest(t, http.MethodPost, "/store/carts/complete", cartBody(uuid.New()))
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		w := serve(r, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("empty cart fails validation", func(t *testing.T) {
		checkout := new(mockCheckoutService)
		h := NewOrderHandler(checkout, new(mockOrderService))
		r := newEngine(customerClaims(customerID))
		r.POST("/store/carts/complete", h.CompleteCart)

		w := serve(r, jsonRequest(t, http.MethodPost, "/store/carts/complete", map[string]any{"currency_code": "usd"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		checkout.AssertNotCalled(t, "Complete")
	})

	t.Run("unavailable product", func(t *testing.T) {
		checkout := new(mockCheckoutService)
		checkout.On("Complete", mock.Anything, customerID, "", mock.Anything).
			Return(nil, false, shared.NotAllowed("Product %s is not published", "p1")).Once()
		h := NewOrderHandler(checkout, new(mockOrderService))
		r := newEngine(customerClaims(customerID))
		r.POST("/store/carts/complete", h.CompleteCart)

		w := serve(r, jsonRequest(t, http.MethodPost, "/store/carts/complete", cartBody(uuid.New())))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "not_allowed", decodeBody(t, w)["type"])
	})
}

func TestOrderHandler_VendorTransitions(t *testing.T) {
	sellerID, memberID, orderID := uuid.New(), uuid.New(), uuid.New()
	orders := new(mockOrderService)
	h := NewOrderHandler(new(mockCheckoutService), orders)
	r := newEngine(sellerClaims(sellerID, memberID, "admin"))
	r.POST("/vendor/orders/:id/fulfill", h.Fulfill)
	r.POST("/vendor/orders/:id/ship", h.Ship)
	r.POST("/vendor/orders/:id/cancel", h.VendorCancel)

	orders.On("Fulfill", mock.Anything, sellerID, orderID).
		Return(&apporder.OrderResponse{ID: orderID, FulfillmentStatus: "fulfilled"}, nil).Once()
	orders.On("Ship", mock.Anything, sellerID, orderID).
		Return(nil, shared.NewDomainError(shared.CodeInvalidState, "Order must be fulfilled before shipping")).Once()
	orders.On("CancelForSeller", mock.Anything, sellerID, orderID).
		Return(nil, shared.NotFound("Order", orderID)).Once()

	w := serve(r, jsonRequest(t, http.MethodPost, "/vendor/orders/"+orderID.String()+"/fulfill", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fulfilled", decodeBody(t, w)["order"].(map[string]any)["fulfillment_status"])

	w = serve(r, jsonRequest(t, http.MethodPost, "/vendor/orders/"+orderID.String()+"/ship", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_state", decodeBody(t, w)["type"])

	w = serve(r, jsonRequest(t, http.MethodPost, "/vendor/orders/"+orderID.String()+"/cancel", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	orders.AssertExpectations(t)
}

func TestOrderHandler_StoreListOrderSets(t *testing.T) {
	customerID := uuid.New()
	orders := new(mockOrderService)
	h := NewOrderHandler(new(mockCheckoutService), orders)
	r := newEngine(customerClaims(customerID))
	r.GET("/store/order-sets", h.StoreListOrderSets)

	query := appshared.ListQuery{Limit: 5}
	orders.On("ListOrderSetsForCustomer", mock.Anything, customerID, query).
		Return(shared.NewListResult([]apporder.OrderSetResponse{{ID: uuid.New()}}, 3, query.Filter()), nil).Once()

	w := serve(r, jsonRequest(t, http.MethodGet, "/store/order-sets?limit=5", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["order_sets"], 1)
	assert.EqualValues(t, 3, body["count"])
	assert.EqualValues(t, 5, body["limit"])
	orders.AssertExpectations(t)
}
