package order

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// OrderSet groups the per-seller orders created from one checkout
type OrderSet struct {
	shared.BaseAggregateRoot
	DisplayID           int64
	CustomerID          uuid.UUID
	CartID              string
	SalesChannelID      string
	PaymentCollectionID string
	// IdempotencyKey is the checkout key the set was created with
	IdempotencyKey string
}

// NewOrderSet creates an order set for a customer checkout
func NewOrderSet(customerID uuid.UUID, cartID, idempotencyKey string) (*OrderSet, error) {
	if customerID == uuid.Nil {
		return nil, shared.InvalidArgument("Customer ID is required")
	}
	s := &OrderSet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		CartID:            cartID,
		IdempotencyKey:    idempotencyKey,
	}
	s.PaymentCollectionID = "paycol_" + s.ID.String()
	return s, nil
}

// Summary is an order set with the values rolled up from its orders
type Summary struct {
	Set               OrderSet
	Orders            []Order
	Status            Status
	PaymentStatus     PaymentStatus
	FulfillmentStatus FulfillmentStatus
	Totals
}

// Summarize rolls up statuses and totals of the set's orders
func Summarize(set OrderSet, orders []Order) Summary {
	statuses := make([]Status, len(orders))
	payments := make([]PaymentStatus, len(orders))
	fulfillments := make([]FulfillmentStatus, len(orders))
	for i := range orders {
		statuses[i] = orders[i].Status
		payments[i] = orders[i].PaymentStatus
		fulfillments[i] = orders[i].FulfillmentStatus
	}
	return Summary{
		Set:               set,
		Orders:            orders,
		Status:            RollupStatus(statuses),
		PaymentStatus:     RollupPaymentStatus(payments),
		FulfillmentStatus: RollupFulfillmentStatus(fulfillments),
		Totals:            RollupTotals(orders),
	}
}

// CurrencyCode returns the currency of the set's orders
func (s Summary) CurrencyCode() string {
	if len(s.Orders) == 0 {
		return ""
	}
	return s.Orders[0].CurrencyCode
}
