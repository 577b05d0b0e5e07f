package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle status of a seller order
type Status string

const (
	StatusPending        Status = "pending"
	StatusCompleted      Status = "completed"
	StatusCanceled       Status = "canceled"
	StatusRequiresAction Status = "requires_action"
	StatusArchived       Status = "archived"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCanceled, StatusRequiresAction, StatusArchived:
		return true
	}
	return false
}

// PaymentStatus is the payment state of an order
type PaymentStatus string

const (
	PaymentNotPaid             PaymentStatus = "not_paid"
	PaymentAwaiting            PaymentStatus = "awaiting"
	PaymentAuthorized          PaymentStatus = "authorized"
	PaymentPartiallyAuthorized PaymentStatus = "partially_authorized"
	PaymentCaptured            PaymentStatus = "captured"
	PaymentPartiallyCaptured   PaymentStatus = "partially_captured"
	PaymentPartiallyRefunded   PaymentStatus = "partially_refunded"
	PaymentRefunded            PaymentStatus = "refunded"
	PaymentCanceled            PaymentStatus = "canceled"
	PaymentRequiresAction      PaymentStatus = "requires_action"
)

// FulfillmentStatus is the fulfillment state of an order
type FulfillmentStatus string

const (
	FulfillmentNotFulfilled       FulfillmentStatus = "not_fulfilled"
	FulfillmentPartiallyFulfilled FulfillmentStatus = "partially_fulfilled"
	FulfillmentFulfilled          FulfillmentStatus = "fulfilled"
	FulfillmentPartiallyShipped   FulfillmentStatus = "partially_shipped"
	FulfillmentShipped            FulfillmentStatus = "shipped"
	FulfillmentPartiallyDelivered FulfillmentStatus = "partially_delivered"
	FulfillmentDelivered          FulfillmentStatus = "delivered"
	FulfillmentCanceled           FulfillmentStatus = "canceled"
)

// LineItem is one purchased product in an order
type LineItem struct {
	ID               uuid.UUID
	ProductID        uuid.UUID
	Title            string
	ProductTypeID    *uuid.UUID
	CategoryID       *uuid.UUID
	Quantity         int
	UnitPrice        decimal.Decimal
	Subtotal         decimal.Decimal
	TaxTotal         decimal.Decimal
	Total            decimal.Decimal
	ReturnedQuantity int
}

// ReturnableQuantity is the quantity that can still be returned
func (i *LineItem) ReturnableQuantity() int {
	return i.Quantity - i.ReturnedQuantity
}

// LineItemInput describes a line when placing an order
type LineItemInput struct {
	ProductID     uuid.UUID
	Title         string
	ProductTypeID *uuid.UUID
	CategoryID    *uuid.UUID
	Quantity      int
	UnitPrice     decimal.Decimal
}

// Totals are the monetary sums of an order or an order set
type Totals struct {
	Subtotal         decimal.Decimal
	TaxTotal         decimal.Decimal
	ShippingTotal    decimal.Decimal
	ShippingTaxTotal decimal.Decimal
	DiscountTotal    decimal.Decimal
	RefundedTotal    decimal.Decimal
	Total            decimal.Decimal
}

// Order is the part of a checkout sold by a single seller
type Order struct {
	shared.SellerAggregateRoot
	DisplayID         int64
	OrderSetID        uuid.UUID
	CustomerID        uuid.UUID
	Email             string
	CurrencyCode      string
	Status            Status
	PaymentStatus     PaymentStatus
	FulfillmentStatus FulfillmentStatus
	Items             []LineItem
	ShippingOptionID  *uuid.UUID
	Totals
	FulfilledAt *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CompletedAt *time.Time
	CanceledAt  *time.Time
}

// PlaceOrderInput carries everything needed to place a seller order
type PlaceOrderInput struct {
	OrderSetID       uuid.UUID
	SellerID         uuid.UUID
	CustomerID       uuid.UUID
	Email            string
	CurrencyCode     string
	Items            []LineItemInput
	ShippingOptionID *uuid.UUID
	ShippingAmount   decimal.Decimal
	// TaxRate is a percentage applied to items and shipping
	TaxRate decimal.Decimal
}

// PlaceOrder creates a pending order with computed totals.
// Payment starts as authorized; capture is a separate step.
func PlaceOrder(in PlaceOrderInput) (*Order, error) {
	if in.SellerID == uuid.Nil || in.CustomerID == uuid.Nil {
		return nil, shared.InvalidArgument("Order requires a seller and a customer")
	}
	if len(in.Items) == 0 {
		return nil, shared.InvalidArgument("Order must contain at least one item")
	}
	currency := valueobject.NormalizeCurrency(in.CurrencyCode)
	if len(currency) != 3 {
		return nil, shared.InvalidArgument("Currency code must be a 3-letter ISO 4217 code")
	}
	if in.TaxRate.IsNegative() || in.ShippingAmount.IsNegative() {
		return nil, shared.InvalidArgument("Tax rate and shipping amount cannot be negative")
	}

	o := &Order{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(in.SellerID),
		OrderSetID:          in.OrderSetID,
		CustomerID:          in.CustomerID,
		Email:               in.Email,
		CurrencyCode:        currency,
		Status:              StatusPending,
		PaymentStatus:       PaymentAuthorized,
		FulfillmentStatus:   FulfillmentNotFulfilled,
		ShippingOptionID:    in.ShippingOptionID,
		Items:               make([]LineItem, 0, len(in.Items)),
	}

	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, shared.InvalidArgument("Quantity for product %s must be positive", item.ProductID)
		}
		if item.UnitPrice.IsNegative() {
			return nil, shared.InvalidArgument("Unit price for product %s cannot be negative", item.ProductID)
		}
		subtotal := valueobject.RoundAmount(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		tax := percentOf(subtotal, in.TaxRate)
		o.Items = append(o.Items, LineItem{
			ID:            uuid.New(),
			ProductID:     item.ProductID,
			Title:         item.Title,
			ProductTypeID: item.ProductTypeID,
			CategoryID:    item.CategoryID,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Subtotal:      subtotal,
			TaxTotal:      tax,
			Total:         subtotal.Add(tax),
		})
	}
	o.ShippingTotal = valueobject.RoundAmount(in.ShippingAmount)
	o.ShippingTaxTotal = percentOf(o.ShippingTotal, in.TaxRate)
	o.recalculateTotals()

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

func percentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return valueobject.RoundAmount(amount.Mul(rate).Div(decimal.NewFromInt(100)))
}

// recalculateTotals derives order totals from items and shipping
func (o *Order) recalculateTotals() {
	subtotal, tax := decimal.Zero, decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Subtotal)
		tax = tax.Add(item.TaxTotal)
	}
	o.Subtotal = subtotal
	o.TaxTotal = tax.Add(o.ShippingTaxTotal)
	o.Total = subtotal.Add(o.TaxTotal).Add(o.ShippingTotal).Sub(o.DiscountTotal)
	if o.Total.IsNegative() {
		o.Total = decimal.Zero
	}
}

// Fulfill marks the order's items as packed
func (o *Order) Fulfill() error {
	if err := o.ensureOpen("fulfill"); err != nil {
		return err
	}
	if o.FulfillmentStatus != FulfillmentNotFulfilled {
		return shared.NotAllowed("Cannot fulfill order with fulfillment status %s", o.FulfillmentStatus)
	}
	now := time.Now()
	o.FulfillmentStatus = FulfillmentFulfilled
	o.FulfilledAt = &now
	o.bump()
	return nil
}

// Ship marks the order as handed to the carrier
func (o *Order) Ship() error {
	if err := o.ensureOpen("ship"); err != nil {
		return err
	}
	if o.FulfillmentStatus != FulfillmentFulfilled {
		return shared.NotAllowed("Cannot ship order with fulfillment status %s", o.FulfillmentStatus)
	}
	now := time.Now()
	o.FulfillmentStatus = FulfillmentShipped
	o.ShippedAt = &now
	o.bump()
	return nil
}

// Deliver marks the order as delivered; delivered_at opens the return window
func (o *Order) Deliver(at time.Time) error {
	if err := o.ensureOpen("deliver"); err != nil {
		return err
	}
	if o.FulfillmentStatus != FulfillmentShipped {
		return shared.NotAllowed("Cannot deliver order with fulfillment status %s", o.FulfillmentStatus)
	}
	o.FulfillmentStatus = FulfillmentDelivered
	o.DeliveredAt = &at
	o.bump()
	o.AddDomainEvent(NewOrderDeliveredEvent(o))
	return nil
}

// Capture captures the authorized payment
func (o *Order) Capture() error {
	if o.Status == StatusCanceled {
		return shared.NotAllowed("Cannot capture payment of a canceled order")
	}
	if o.PaymentStatus != PaymentAuthorized && o.PaymentStatus != PaymentPartiallyAuthorized {
		return shared.NotAllowed("Cannot capture payment with status %s", o.PaymentStatus)
	}
	o.PaymentStatus = PaymentCaptured
	o.bump()
	return nil
}

// Complete closes a delivered and captured order
func (o *Order) Complete() error {
	if err := o.ensureOpen("complete"); err != nil {
		return err
	}
	if o.FulfillmentStatus != FulfillmentDelivered {
		return shared.NotAllowed("Cannot complete order that has not been delivered")
	}
	if o.PaymentStatus != PaymentCaptured && o.PaymentStatus != PaymentPartiallyRefunded {
		return shared.NotAllowed("Cannot complete order with payment status %s", o.PaymentStatus)
	}
	now := time.Now()
	o.Status = StatusCompleted
	o.CompletedAt = &now
	o.bump()
	o.AddDomainEvent(NewOrderCompletedEvent(o))
	return nil
}

// Cancel cancels an order that has not been fulfilled yet
func (o *Order) Cancel() error {
	if err := o.ensureOpen("cancel"); err != nil {
		return err
	}
	if o.FulfillmentStatus != FulfillmentNotFulfilled {
		return shared.NotAllowed("Cannot cancel order with fulfillment status %s", o.FulfillmentStatus)
	}
	now := time.Now()
	o.Status = StatusCanceled
	o.FulfillmentStatus = FulfillmentCanceled
	if o.PaymentStatus == PaymentCaptured {
		o.PaymentStatus = PaymentRefunded
		o.RefundedTotal = o.Total
	} else {
		o.PaymentStatus = PaymentCanceled
	}
	o.CanceledAt = &now
	o.bump()
	o.AddDomainEvent(NewOrderCanceledEvent(o))
	return nil
}

// ReturnedLine is a quantity of one line item being returned
type ReturnedLine struct {
	LineItemID uuid.UUID
	Quantity   int
}

// ApplyReturn records returned quantities and refunds their share of the
// line total. It returns the refunded amount.
func (o *Order) ApplyReturn(lines []ReturnedLine) (decimal.Decimal, error) {
	if o.Status == StatusCanceled {
		return decimal.Zero, shared.NotAllowed("Cannot return items of a canceled order")
	}
	if o.PaymentStatus != PaymentCaptured && o.PaymentStatus != PaymentPartiallyRefunded {
		return decimal.Zero, shared.NotAllowed("Cannot refund order with payment status %s", o.PaymentStatus)
	}
	refund := decimal.Zero
	for _, line := range lines {
		item := o.Item(line.LineItemID)
		if item == nil {
			return decimal.Zero, shared.InvalidArgument("Line item %s does not belong to order %d", line.LineItemID, o.DisplayID)
		}
		if line.Quantity <= 0 || line.Quantity > item.ReturnableQuantity() {
			return decimal.Zero, shared.InvalidArgument("Cannot return %d of line item %s, %d returnable",
				line.Quantity, line.LineItemID, item.ReturnableQuantity())
		}
		share := item.Total.Mul(decimal.NewFromInt(int64(line.Quantity))).Div(decimal.NewFromInt(int64(item.Quantity)))
		refund = refund.Add(valueobject.RoundAmount(share))
		item.ReturnedQuantity += line.Quantity
	}

	o.RefundedTotal = o.RefundedTotal.Add(refund)
	if o.allItemsReturned() {
		o.PaymentStatus = PaymentRefunded
	} else {
		o.PaymentStatus = PaymentPartiallyRefunded
	}
	o.bump()
	return refund, nil
}

func (o *Order) allItemsReturned() bool {
	for _, item := range o.Items {
		if item.ReturnableQuantity() > 0 {
			return false
		}
	}
	return true
}

// Item returns the line item with the given id, or nil
func (o *Order) Item(id uuid.UUID) *LineItem {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i]
		}
	}
	return nil
}

// BelongsTo reports whether the order was placed by the customer
func (o *Order) BelongsTo(customerID uuid.UUID) bool {
	return o.CustomerID == customerID
}

// IsDelivered reports whether the order has a delivery date
func (o *Order) IsDelivered() bool {
	return o.DeliveredAt != nil
}

func (o *Order) ensureOpen(action string) error {
	if o.Status != StatusPending {
		return shared.NotAllowed("Cannot %s order in %s status", action, o.Status)
	}
	return nil
}

func (o *Order) bump() {
	o.Touch()
	o.IncrementVersion()
}
