package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializer_RoundTrip(t *testing.T) {
	s := NewEventSerializer()
	RegisterMarketplaceEvents(s)

	o, err := order.PlaceOrder(order.PlaceOrderInput{
		SellerID:     uuid.New(),
		CustomerID:   uuid.New(),
		CurrencyCode: "eur",
		Items: []order.LineItemInput{
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(40)},
		},
	})
	require.NoError(t, err)
	placed := order.NewOrderPlacedEvent(o)

	payload, err := s.Serialize(placed)
	require.NoError(t, err)

	decoded, err := s.Deserialize(order.EventTypeOrderPlaced, payload)
	require.NoError(t, err)
	got, ok := decoded.(*order.OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, placed.EventID(), got.EventID())
	assert.Equal(t, o.ID, got.OrderID)
	assert.Equal(t, o.SellerID, got.SellerID)
	assert.True(t, decimal.NewFromInt(40).Equal(got.Total))
}

func TestEventSerializer_UnknownType(t *testing.T) {
	s := NewEventSerializer()
	_, err := s.Deserialize("nope", []byte(`{}`))
	assert.ErrorContains(t, err, "unknown event type")
}

func TestRegisterMarketplaceEvents(t *testing.T) {
	s := NewEventSerializer()
	RegisterMarketplaceEvents(s)

	for _, eventType := range []string{"order.completed", "seller.created", "payout.paid", "return_request.refunded"} {
		assert.True(t, s.IsRegistered(eventType), eventType)
	}
	types := s.RegisteredTypes()
	assert.IsNonDecreasing(t, types)
}
