package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRollupStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusPending},
		{"all completed", []Status{StatusCompleted, StatusCompleted}, StatusCompleted},
		{"some completed", []Status{StatusCompleted, StatusPending}, StatusPending},
		{"all canceled", []Status{StatusCanceled, StatusCanceled}, StatusCanceled},
		{"canceled member ignored", []Status{StatusCompleted, StatusCanceled}, StatusCompleted},
		{"requires action wins", []Status{StatusCompleted, StatusRequiresAction, StatusPending}, StatusRequiresAction},
		{"all archived", []Status{StatusArchived, StatusArchived}, StatusArchived},
		{"archived and completed", []Status{StatusArchived, StatusCompleted}, StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RollupStatus(tt.statuses))
		})
	}
}

func TestRollupPaymentStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []PaymentStatus
		want     PaymentStatus
	}{
		{"empty", nil, PaymentNotPaid},
		{"uniform", []PaymentStatus{PaymentCaptured, PaymentCaptured}, PaymentCaptured},
		{"requires action", []PaymentStatus{PaymentCaptured, PaymentRequiresAction}, PaymentRequiresAction},
		{"some captured", []PaymentStatus{PaymentCaptured, PaymentAuthorized}, PaymentPartiallyCaptured},
		{"some refunded", []PaymentStatus{PaymentRefunded, PaymentAuthorized}, PaymentPartiallyRefunded},
		{"some authorized", []PaymentStatus{PaymentAuthorized, PaymentNotPaid}, PaymentPartiallyAuthorized},
		{"awaiting", []PaymentStatus{PaymentAwaiting, PaymentNotPaid}, PaymentAwaiting},
		{"canceled and not paid", []PaymentStatus{PaymentCanceled, PaymentNotPaid}, PaymentNotPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RollupPaymentStatus(tt.statuses))
		})
	}
}

func TestRollupFulfillmentStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []FulfillmentStatus
		want     FulfillmentStatus
	}{
		{"empty", nil, FulfillmentNotFulfilled},
		{"all shipped", []FulfillmentStatus{FulfillmentShipped, FulfillmentShipped}, FulfillmentShipped},
		{"some shipped", []FulfillmentStatus{FulfillmentShipped, FulfillmentNotFulfilled}, FulfillmentPartiallyShipped},
		{"shipped and fulfilled", []FulfillmentStatus{FulfillmentShipped, FulfillmentFulfilled}, FulfillmentPartiallyShipped},
		{"some delivered", []FulfillmentStatus{FulfillmentDelivered, FulfillmentShipped}, FulfillmentPartiallyDelivered},
		{"some fulfilled", []FulfillmentStatus{FulfillmentFulfilled, FulfillmentNotFulfilled}, FulfillmentPartiallyFulfilled},
		{"all delivered", []FulfillmentStatus{FulfillmentDelivered, FulfillmentDelivered}, FulfillmentDelivered},
		{"canceled and not fulfilled", []FulfillmentStatus{FulfillmentCanceled, FulfillmentNotFulfilled}, FulfillmentNotFulfilled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RollupFulfillmentStatus(tt.statuses))
		})
	}
}

func TestSummarize(t *testing.T) {
	set, err := NewOrderSet(uuid.New(), "cart_1", "key-1")
	assert.NoError(t, err)

	a := Order{Status: StatusCompleted, PaymentStatus: PaymentCaptured, FulfillmentStatus: FulfillmentDelivered, CurrencyCode: "eur"}
	a.Subtotal, a.TaxTotal, a.ShippingTotal, a.Total = dec("100"), dec("10"), dec("5"), dec("115")
	b := Order{Status: StatusPending, PaymentStatus: PaymentAuthorized, FulfillmentStatus: FulfillmentNotFulfilled, CurrencyCode: "eur"}
	b.Subtotal, b.TaxTotal, b.ShippingTotal, b.DiscountTotal, b.Total = dec("20"), dec("2"), dec("0"), dec("1"), dec("21")

	s := Summarize(*set, []Order{a, b})
	assert.Equal(t, StatusPending, s.Status)
	assert.Equal(t, PaymentPartiallyCaptured, s.PaymentStatus)
	assert.Equal(t, FulfillmentPartiallyDelivered, s.FulfillmentStatus)
	assert.True(t, s.Subtotal.Equal(dec("120")))
	assert.True(t, s.TaxTotal.Equal(dec("12")))
	assert.True(t, s.ShippingTotal.Equal(dec("5")))
	assert.True(t, s.DiscountTotal.Equal(dec("1")))
	assert.True(t, s.Total.Equal(dec("136")))
	assert.Equal(t, "eur", s.CurrencyCode())
	assert.Equal(t, "paycol_"+set.ID.String(), s.Set.PaymentCollectionID)
}
