package order

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type of seller orders
const AggregateTypeOrder = "Order"

// Order domain event types
const (
	EventTypeOrderPlaced    = "order.placed"
	EventTypeOrderDelivered = "order.delivered"
	EventTypeOrderCompleted = "order.completed"
	EventTypeOrderCanceled  = "order.canceled"
)

// OrderPlacedEvent is published for every seller order created at checkout
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderSetID   uuid.UUID       `json:"order_set_id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CurrencyCode string          `json:"currency_code"`
	Total        decimal.Decimal `json:"total"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderSetID:      o.OrderSetID,
		SellerID:        o.SellerID,
		CustomerID:      o.CustomerID,
		CurrencyCode:    o.CurrencyCode,
		Total:           o.Total,
	}
}

// OrderDeliveredEvent is published when a seller marks an order delivered
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	SellerID uuid.UUID `json:"seller_id"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		SellerID:        o.SellerID,
	}
}

// OrderCompletedEvent is published when an order is completed
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	SellerID uuid.UUID `json:"seller_id"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(o *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		SellerID:        o.SellerID,
	}
}

// OrderCanceledEvent is published when an order is canceled
type OrderCanceledEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	SellerID uuid.UUID `json:"seller_id"`
}

// NewOrderCanceledEvent creates a new OrderCanceledEvent
func NewOrderCanceledEvent(o *Order) *OrderCanceledEvent {
	return &OrderCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCanceled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		SellerID:        o.SellerID,
	}
}
