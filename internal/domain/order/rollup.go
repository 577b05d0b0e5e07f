package order

import "github.com/shopspring/decimal"

// RollupStatus derives an order set status from its member orders.
// Canceled members are ignored unless every member is canceled.
func RollupStatus(statuses []Status) Status {
	if len(statuses) == 0 {
		return StatusPending
	}
	active := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		if s != StatusCanceled {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		return StatusCanceled
	}

	switch {
	case all(active, StatusCompleted):
		return StatusCompleted
	case anyOf(active, StatusRequiresAction):
		return StatusRequiresAction
	case all(active, StatusArchived):
		return StatusArchived
	}
	return StatusPending
}

// RollupPaymentStatus derives an order set payment status from its member orders
func RollupPaymentStatus(statuses []PaymentStatus) PaymentStatus {
	if len(statuses) == 0 {
		return PaymentNotPaid
	}
	if all(statuses, statuses[0]) {
		return statuses[0]
	}

	switch {
	case anyOf(statuses, PaymentRequiresAction):
		return PaymentRequiresAction
	case anyOf(statuses, PaymentCaptured, PaymentPartiallyCaptured):
		return PaymentPartiallyCaptured
	case anyOf(statuses, PaymentRefunded, PaymentPartiallyRefunded):
		return PaymentPartiallyRefunded
	case anyOf(statuses, PaymentAuthorized, PaymentPartiallyAuthorized):
		return PaymentPartiallyAuthorized
	case anyOf(statuses, PaymentAwaiting):
		return PaymentAwaiting
	}
	return PaymentNotPaid
}

// RollupFulfillmentStatus derives an order set fulfillment status from its
// member orders. A set is partially_shipped when some but not all members
// have shipped.
func RollupFulfillmentStatus(statuses []FulfillmentStatus) FulfillmentStatus {
	if len(statuses) == 0 {
		return FulfillmentNotFulfilled
	}
	if all(statuses, statuses[0]) {
		return statuses[0]
	}

	switch {
	case anyOf(statuses, FulfillmentDelivered, FulfillmentPartiallyDelivered):
		return FulfillmentPartiallyDelivered
	case anyOf(statuses, FulfillmentShipped, FulfillmentPartiallyShipped):
		return FulfillmentPartiallyShipped
	case anyOf(statuses, FulfillmentFulfilled, FulfillmentPartiallyFulfilled):
		return FulfillmentPartiallyFulfilled
	}
	return FulfillmentNotFulfilled
}

// RollupTotals sums the totals of the member orders
func RollupTotals(orders []Order) Totals {
	t := Totals{
		Subtotal:         decimal.Zero,
		TaxTotal:         decimal.Zero,
		ShippingTotal:    decimal.Zero,
		ShippingTaxTotal: decimal.Zero,
		DiscountTotal:    decimal.Zero,
		RefundedTotal:    decimal.Zero,
		Total:            decimal.Zero,
	}
	for i := range orders {
		o := &orders[i].Totals
		t.Subtotal = t.Subtotal.Add(o.Subtotal)
		t.TaxTotal = t.TaxTotal.Add(o.TaxTotal)
		t.ShippingTotal = t.ShippingTotal.Add(o.ShippingTotal)
		t.ShippingTaxTotal = t.ShippingTaxTotal.Add(o.ShippingTaxTotal)
		t.DiscountTotal = t.DiscountTotal.Add(o.DiscountTotal)
		t.RefundedTotal = t.RefundedTotal.Add(o.RefundedTotal)
		t.Total = t.Total.Add(o.Total)
	}
	return t
}

func all[T comparable](values []T, want T) bool {
	for _, v := range values {
		if v != want {
			return false
		}
	}
	return true
}

func anyOf[T comparable](values []T, wanted ...T) bool {
	for _, v := range values {
		for _, w := range wanted {
			if v == w {
				return true
			}
		}
	}
	return false
}
