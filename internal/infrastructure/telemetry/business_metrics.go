package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics records marketplace activity. A nil *BusinessMetrics is
// valid and records nothing, so services can take it as an optional
// dependency.
type BusinessMetrics struct {
	ordersPlaced      *Counter
	orderAmount       *AmountCounter
	checkoutDuration  *Histogram
	commissionAmount  *AmountCounter
	payouts           *Counter
	payoutAmount      *AmountCounter
	payoutReversed    *AmountCounter
	returnRequests    *Counter
	sellersRegistered *Counter
}

// NewBusinessMetrics creates every instrument on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var errs []error
	counter := func(name, desc, unit string) *Counter {
		c, err := NewCounter(meter, name, desc, unit)
		errs = append(errs, err)
		return c
	}
	amount := func(name, desc string) *AmountCounter {
		c, err := NewAmountCounter(meter, name, desc)
		errs = append(errs, err)
		return c
	}

	m.ordersPlaced = counter("marketplace.orders.placed", "Order sets placed at checkout", "{order_set}")
	m.orderAmount = amount("marketplace.orders.amount", "Gross amount of placed seller orders")
	m.commissionAmount = amount("marketplace.commission.amount", "Commission charged on seller orders")
	m.payouts = counter("marketplace.payouts", "Payout attempts by resulting status", "{payout}")
	m.payoutAmount = amount("marketplace.payouts.amount", "Amount transferred to sellers")
	m.payoutReversed = amount("marketplace.payouts.reversed", "Amount reversed from seller payouts")
	m.returnRequests = counter("marketplace.return_requests", "Return request transitions by status", "{return_request}")
	m.sellersRegistered = counter("marketplace.sellers.registered", "Sellers created", "{seller}")

	h, err := NewHistogram(meter, "marketplace.checkout.duration", "Time to complete a cart checkout", "s", DurationBuckets...)
	errs = append(errs, err)
	m.checkoutDuration = h

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// OrderSetPlaced records a completed checkout
func (m *BusinessMetrics) OrderSetPlaced(ctx context.Context, currency string, total decimal.Decimal, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := AttrCurrency.String(currency)
	m.ordersPlaced.Inc(ctx, attrs)
	m.orderAmount.Add(ctx, total.InexactFloat64(), attrs)
	m.checkoutDuration.RecordDuration(ctx, elapsed)
}

// CommissionCharged records the commission line created for an order
func (m *BusinessMetrics) CommissionCharged(ctx context.Context, currency string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.commissionAmount.Add(ctx, amount.InexactFloat64(), AttrCurrency.String(currency))
}

// PayoutProcessed records a payout attempt with its resulting status
func (m *BusinessMetrics) PayoutProcessed(ctx context.Context, status, currency string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.payouts.Inc(ctx, AttrStatus.String(status), AttrCurrency.String(currency))
	if status == "paid" {
		m.payoutAmount.Add(ctx, amount.InexactFloat64(), AttrCurrency.String(currency))
	}
}

// PayoutReversed records a reversal
func (m *BusinessMetrics) PayoutReversed(ctx context.Context, currency string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.payoutReversed.Add(ctx, amount.InexactFloat64(), AttrCurrency.String(currency))
}

// ReturnRequestTransitioned records a return request entering status
func (m *BusinessMetrics) ReturnRequestTransitioned(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.returnRequests.Inc(ctx, AttrStatus.String(status))
}

// SellerRegistered records a new seller
func (m *BusinessMetrics) SellerRegistered(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.sellersRegistered.Inc(ctx, AttrStatus.String(status))
}
