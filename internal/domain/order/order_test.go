package order

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func placeTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := PlaceOrder(PlaceOrderInput{
		OrderSetID:   uuid.New(),
		SellerID:     uuid.New(),
		CustomerID:   uuid.New(),
		Email:        "buyer@example.com",
		CurrencyCode: "EUR",
		Items: []LineItemInput{
			{ProductID: uuid.New(), Title: "Runner", Quantity: 2, UnitPrice: dec("50")},
			{ProductID: uuid.New(), Title: "Socks", Quantity: 3, UnitPrice: dec("3.33")},
		},
		ShippingAmount: dec("5"),
		TaxRate:        dec("10"),
	})
	require.NoError(t, err)
	return o
}

func TestPlaceOrder_Totals(t *testing.T) {
	o := placeTestOrder(t)

	assert.Equal(t, "eur", o.CurrencyCode)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentAuthorized, o.PaymentStatus)
	assert.Equal(t, FulfillmentNotFulfilled, o.FulfillmentStatus)

	// 100 + 9.99 items, 10% tax on each line and on shipping
	assert.True(t, o.Items[1].Subtotal.Equal(dec("9.99")))
	assert.True(t, o.Items[1].TaxTotal.Equal(dec("1.00")))
	assert.True(t, o.Subtotal.Equal(dec("109.99")), o.Subtotal.String())
	assert.True(t, o.ShippingTaxTotal.Equal(dec("0.50")))
	assert.True(t, o.TaxTotal.Equal(dec("11.50")), o.TaxTotal.String())
	assert.True(t, o.Total.Equal(dec("126.49")), o.Total.String())

	require.Len(t, o.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeOrderPlaced, o.GetDomainEvents()[0].EventType())
}

func TestPlaceOrder_Validation(t *testing.T) {
	base := PlaceOrderInput{
		SellerID:     uuid.New(),
		CustomerID:   uuid.New(),
		CurrencyCode: "eur",
		Items:        []LineItemInput{{ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("1")}},
	}

	noItems := base
	noItems.Items = nil
	_, err := PlaceOrder(noItems)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))

	zeroQty := base
	zeroQty.Items = []LineItemInput{{ProductID: uuid.New(), Quantity: 0, UnitPrice: dec("1")}}
	_, err = PlaceOrder(zeroQty)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))

	noSeller := base
	noSeller.SellerID = uuid.Nil
	_, err = PlaceOrder(noSeller)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestOrder_FulfillmentFlow(t *testing.T) {
	o := placeTestOrder(t)

	assert.True(t, errors.Is(o.Ship(), shared.ErrNotAllowed), "cannot ship before fulfilling")
	require.NoError(t, o.Fulfill())
	require.NoError(t, o.Ship())
	assert.True(t, errors.Is(o.Complete(), shared.ErrNotAllowed), "cannot complete before delivery")

	deliveredAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, o.Deliver(deliveredAt))
	assert.Equal(t, deliveredAt, *o.DeliveredAt)
	assert.True(t, o.IsDelivered())

	assert.True(t, errors.Is(o.Complete(), shared.ErrNotAllowed), "payment not captured")
	require.NoError(t, o.Capture())
	require.NoError(t, o.Complete())
	assert.Equal(t, StatusCompleted, o.Status)
	assert.NotNil(t, o.CompletedAt)

	assert.True(t, errors.Is(o.Cancel(), shared.ErrNotAllowed))
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("authorized payment is canceled", func(t *testing.T) {
		o := placeTestOrder(t)
		require.NoError(t, o.Cancel())
		assert.Equal(t, StatusCanceled, o.Status)
		assert.Equal(t, PaymentCanceled, o.PaymentStatus)
		assert.Equal(t, FulfillmentCanceled, o.FulfillmentStatus)
		assert.True(t, errors.Is(o.Capture(), shared.ErrNotAllowed))
	})

	t.Run("captured payment is refunded", func(t *testing.T) {
		o := placeTestOrder(t)
		require.NoError(t, o.Capture())
		require.NoError(t, o.Cancel())
		assert.Equal(t, PaymentRefunded, o.PaymentStatus)
		assert.True(t, o.RefundedTotal.Equal(o.Total))
	})

	t.Run("fulfilled order cannot be canceled", func(t *testing.T) {
		o := placeTestOrder(t)
		require.NoError(t, o.Fulfill())
		assert.True(t, errors.Is(o.Cancel(), shared.ErrNotAllowed))
	})
}

func TestOrder_ApplyReturn(t *testing.T) {
	o := placeTestOrder(t)
	require.NoError(t, o.Capture())
	runner := o.Items[0]

	refund, err := o.ApplyReturn([]ReturnedLine{{LineItemID: runner.ID, Quantity: 1}})
	require.NoError(t, err)
	// half of (100 + 10 tax)
	assert.True(t, refund.Equal(dec("55")), refund.String())
	assert.Equal(t, PaymentPartiallyRefunded, o.PaymentStatus)
	assert.Equal(t, 1, o.Item(runner.ID).ReturnableQuantity())

	_, err = o.ApplyReturn([]ReturnedLine{{LineItemID: runner.ID, Quantity: 2}})
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))

	_, err = o.ApplyReturn([]ReturnedLine{{LineItemID: uuid.New(), Quantity: 1}})
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))

	_, err = o.ApplyReturn([]ReturnedLine{
		{LineItemID: runner.ID, Quantity: 1},
		{LineItemID: o.Items[1].ID, Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, PaymentRefunded, o.PaymentStatus)
	assert.True(t, o.RefundedTotal.Equal(dec("120.99")), o.RefundedTotal.String())
}

func TestOrder_ApplyReturnNeedsCapturedPayment(t *testing.T) {
	o := placeTestOrder(t)
	require.NoError(t, o.Fulfill())
	require.NoError(t, o.Ship())
	require.NoError(t, o.Deliver(time.Now()))

	_, err := o.ApplyReturn([]ReturnedLine{{LineItemID: o.Items[0].ID, Quantity: 1}})
	assert.True(t, errors.Is(err, shared.ErrNotAllowed))
	assert.Equal(t, PaymentAuthorized, o.PaymentStatus)
	assert.Zero(t, o.Items[0].ReturnedQuantity)
	assert.True(t, o.RefundedTotal.IsZero())

	assert.True(t, errors.Is(o.Complete(), shared.ErrNotAllowed), "uncaptured order cannot complete")
	require.NoError(t, o.Capture())
	refund, err := o.ApplyReturn([]ReturnedLine{{LineItemID: o.Items[0].ID, Quantity: 1}})
	require.NoError(t, err)
	assert.True(t, refund.Equal(dec("55")), refund.String())
	require.NoError(t, o.Complete())
}
