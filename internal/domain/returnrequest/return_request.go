package returnrequest

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status of a return request
type Status string

const (
	StatusPending   Status = "pending"
	StatusRefunded  Status = "refunded"
	StatusWithdrawn Status = "withdrawn"
	StatusEscalated Status = "escalated"
	StatusCanceled  Status = "canceled"
)

// IsOpen reports whether the request still awaits a decision
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusEscalated
}

// LineItem is one returned order line
type LineItem struct {
	ID         uuid.UUID
	LineItemID uuid.UUID
	Quantity   int
	ReasonID   *uuid.UUID
}

// ReturnRequest is a customer request to return items of a delivered order
type ReturnRequest struct {
	shared.SellerAggregateRoot
	CustomerID         uuid.UUID
	OrderID            uuid.UUID
	CustomerNote       string
	ShippingOptionID   *uuid.UUID
	LineItems          []LineItem
	VendorReviewerID   *uuid.UUID
	VendorReviewerNote string
	VendorReviewDate   *time.Time
	AdminReviewerID    *uuid.UUID
	AdminReviewerNote  string
	AdminReviewDate    *time.Time
	Status             Status
	// RefundAmount is what the order refunded when the request was accepted
	RefundAmount decimal.Decimal
}

// LineInput is a requested return line
type LineInput struct {
	LineItemID uuid.UUID
	Quantity   int
	ReasonID   *uuid.UUID
}

// Request carries a customer's return request
type Request struct {
	CustomerID       uuid.UUID
	CustomerNote     string
	ShippingOptionID *uuid.UUID
	Lines            []LineInput
}

// WindowDeadline is the last moment a return can be requested
func WindowDeadline(deliveredAt time.Time, windowDays int) time.Time {
	return deliveredAt.AddDate(0, 0, windowDays)
}

// WithinWindow reports whether now is no later than delivered_at + windowDays
func WithinWindow(deliveredAt *time.Time, windowDays int, now time.Time) bool {
	if deliveredAt == nil {
		return false
	}
	return !now.After(WindowDeadline(*deliveredAt, windowDays))
}

// CheckEligibility validates a return request against the order. hasOpen
// tells whether another pending or escalated request exists for the order.
func CheckEligibility(o *order.Order, req Request, hasOpen bool, windowDays int, now time.Time) error {
	if !o.BelongsTo(req.CustomerID) {
		return shared.NotFound("Order", o.ID)
	}
	if o.Status == order.StatusCanceled {
		return shared.NotAllowed("Order %d is canceled", o.DisplayID)
	}
	if !o.IsDelivered() {
		return shared.NotAllowed("Order %d has not been delivered yet", o.DisplayID)
	}
	if !WithinWindow(o.DeliveredAt, windowDays, now) {
		return shared.NotAllowed("The return window for order %d closed on %s",
			o.DisplayID, WindowDeadline(*o.DeliveredAt, windowDays).Format(time.DateOnly))
	}
	if hasOpen {
		return shared.NotAllowed("Order %d already has an open return request", o.DisplayID)
	}
	if len(req.Lines) == 0 {
		return shared.InvalidArgument("Return request must contain at least one line item")
	}

	requested := make(map[uuid.UUID]int, len(req.Lines))
	for _, line := range req.Lines {
		item := o.Item(line.LineItemID)
		if item == nil {
			return shared.InvalidArgument("Line item %s does not belong to order %d", line.LineItemID, o.DisplayID)
		}
		if line.Quantity < 1 {
			return shared.InvalidArgument("Quantity for line item %s must be at least 1", line.LineItemID)
		}
		requested[line.LineItemID] += line.Quantity
		if requested[line.LineItemID] > item.ReturnableQuantity() {
			return shared.InvalidArgument("Cannot return %d of line item %s, %d returnable",
				requested[line.LineItemID], line.LineItemID, item.ReturnableQuantity())
		}
	}
	return nil
}

// NewReturnRequest creates a pending request after CheckEligibility passed
func NewReturnRequest(o *order.Order, req Request) *ReturnRequest {
	r := &ReturnRequest{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(o.SellerID),
		CustomerID:          req.CustomerID,
		OrderID:             o.ID,
		CustomerNote:        req.CustomerNote,
		ShippingOptionID:    req.ShippingOptionID,
		LineItems:           make([]LineItem, 0, len(req.Lines)),
		Status:              StatusPending,
	}
	for _, line := range req.Lines {
		r.LineItems = append(r.LineItems, LineItem{
			ID:         uuid.New(),
			LineItemID: line.LineItemID,
			Quantity:   line.Quantity,
			ReasonID:   line.ReasonID,
		})
	}
	r.AddDomainEvent(NewReturnRequestCreatedEvent(r))
	return r
}

// Withdraw lets the customer retract a pending request
func (r *ReturnRequest) Withdraw(customerID uuid.UUID) error {
	if r.CustomerID != customerID {
		return shared.NotFound("ReturnRequest", r.ID)
	}
	if r.Status != StatusPending {
		return shared.NotAllowed("Cannot withdraw return request in %s status", r.Status)
	}
	r.Status = StatusWithdrawn
	r.bump()
	return nil
}

// VendorReview records the seller decision: accept refunds, reject escalates.
// o is the order the request was made for.
func (r *ReturnRequest) VendorReview(o *order.Order, memberID uuid.UUID, accept bool, note string, at time.Time) error {
	if r.Status != StatusPending {
		return shared.NotAllowed("Cannot review return request in %s status", r.Status)
	}
	r.VendorReviewerID = &memberID
	r.VendorReviewerNote = note
	r.VendorReviewDate = &at
	if accept {
		return r.refund(o)
	}
	r.Status = StatusEscalated
	r.bump()
	r.AddDomainEvent(NewReturnRequestEscalatedEvent(r))
	return nil
}

// AdminReview settles an escalated request: refund or cancel
func (r *ReturnRequest) AdminReview(o *order.Order, userID uuid.UUID, refund bool, note string, at time.Time) error {
	if r.Status != StatusEscalated {
		return shared.NotAllowed("Cannot review return request in %s status", r.Status)
	}
	r.AdminReviewerID = &userID
	r.AdminReviewerNote = note
	r.AdminReviewDate = &at
	if refund {
		return r.refund(o)
	}
	r.Status = StatusCanceled
	r.bump()
	return nil
}

// refund returns the request lines on the order and records the refunded amount
func (r *ReturnRequest) refund(o *order.Order) error {
	if o == nil || o.ID != r.OrderID {
		return shared.InvalidArgument("Return request %s does not belong to the given order", r.ID)
	}
	amount, err := o.ApplyReturn(r.ReturnedLines())
	if err != nil {
		return err
	}
	r.RefundAmount = amount
	r.Status = StatusRefunded
	r.bump()
	r.AddDomainEvent(NewReturnRequestRefundedEvent(r, o.CurrencyCode))
	return nil
}

// ReturnedLines converts the request lines for order.ApplyReturn
func (r *ReturnRequest) ReturnedLines() []order.ReturnedLine {
	lines := make([]order.ReturnedLine, len(r.LineItems))
	for i, l := range r.LineItems {
		lines[i] = order.ReturnedLine{LineItemID: l.LineItemID, Quantity: l.Quantity}
	}
	return lines
}

func (r *ReturnRequest) bump() {
	r.Touch()
	r.IncrementVersion()
}
