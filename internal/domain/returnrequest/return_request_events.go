package returnrequest

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeReturnRequest is the aggregate type of return requests
const AggregateTypeReturnRequest = "OrderReturnRequest"

// Return request event types
const (
	EventTypeReturnRequestCreated   = "return_request.created"
	EventTypeReturnRequestEscalated = "return_request.escalated"
	EventTypeReturnRequestRefunded  = "return_request.refunded"
)

// ReturnRequestEvent carries the identifiers of a return request
type ReturnRequestEvent struct {
	shared.BaseDomainEvent
	ReturnRequestID uuid.UUID `json:"return_request_id"`
	OrderID         uuid.UUID `json:"order_id"`
	SellerID        uuid.UUID `json:"seller_id"`
	CustomerID      uuid.UUID `json:"customer_id"`
}

func newEvent(eventType string, r *ReturnRequest) ReturnRequestEvent {
	return ReturnRequestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeReturnRequest, r.ID),
		ReturnRequestID: r.ID,
		OrderID:         r.OrderID,
		SellerID:        r.SellerID,
		CustomerID:      r.CustomerID,
	}
}

// ReturnRequestCreatedEvent is published when a customer opens a request
type ReturnRequestCreatedEvent struct {
	ReturnRequestEvent
}

// NewReturnRequestCreatedEvent creates a new ReturnRequestCreatedEvent
func NewReturnRequestCreatedEvent(r *ReturnRequest) *ReturnRequestCreatedEvent {
	return &ReturnRequestCreatedEvent{newEvent(EventTypeReturnRequestCreated, r)}
}

// ReturnRequestEscalatedEvent is published when a seller rejects a request
type ReturnRequestEscalatedEvent struct {
	ReturnRequestEvent
}

// NewReturnRequestEscalatedEvent creates a new ReturnRequestEscalatedEvent
func NewReturnRequestEscalatedEvent(r *ReturnRequest) *ReturnRequestEscalatedEvent {
	return &ReturnRequestEscalatedEvent{newEvent(EventTypeReturnRequestEscalated, r)}
}

// ReturnRequestRefundedEvent is published when a request is refunded
type ReturnRequestRefundedEvent struct {
	ReturnRequestEvent
	RefundAmount decimal.Decimal `json:"refund_amount"`
	CurrencyCode string          `json:"currency_code"`
}

// NewReturnRequestRefundedEvent creates a new ReturnRequestRefundedEvent
func NewReturnRequestRefundedEvent(r *ReturnRequest, currency string) *ReturnRequestRefundedEvent {
	return &ReturnRequestRefundedEvent{
		ReturnRequestEvent: newEvent(EventTypeReturnRequestRefunded, r),
		RefundAmount:       r.RefundAmount,
		CurrencyCode:       currency,
	}
}
