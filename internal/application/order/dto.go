package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Checkout DTOs
// =============================================================================

// CompleteCartRequest is the customer cart turned into an order set.
// Items of different sellers are split into one order per seller; each
// seller in the cart needs exactly one of its shipping options.
type CompleteCartRequest struct {
	CartID            string            `json:"cart_id" binding:"max=100"`
	SalesChannelID    string            `json:"sales_channel_id" binding:"max=100"`
	Email             string            `json:"email" binding:"omitempty,email,max=200"`
	CurrencyCode      string            `json:"currency_code" binding:"required,len=3"`
	TaxRate           decimal.Decimal   `json:"tax_rate"`
	Items             []CartItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingOptionIDs []uuid.UUID       `json:"shipping_option_ids"`
}

// CartItemRequest is one product line of the cart
type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=10000"`
}

// =============================================================================
// Order DTOs
// =============================================================================

// OrderListFilter filters order lists
type OrderListFilter struct {
	SellerID          string `form:"seller_id" binding:"omitempty,uuid"`
	CustomerID        string `form:"customer_id" binding:"omitempty,uuid"`
	Status            string `form:"status" binding:"omitempty,oneof=pending completed canceled requires_action archived"`
	PaymentStatus     string `form:"payment_status"`
	FulfillmentStatus string `form:"fulfillment_status"`
}

// OrderSetListFilter filters order set lists
type OrderSetListFilter struct {
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
}

// LineItemResponse is the API view of an order line item
type LineItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	Title            string          `json:"title"`
	ProductTypeID    *uuid.UUID      `json:"product_type_id"`
	CategoryID       *uuid.UUID      `json:"category_id"`
	Quantity         int             `json:"quantity"`
	ReturnedQuantity int             `json:"returned_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TaxTotal         decimal.Decimal `json:"tax_total"`
	Total            decimal.Decimal `json:"total"`
}

// TotalsResponse carries the monetary sums of an order or order set
type TotalsResponse struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	TaxTotal         decimal.Decimal `json:"tax_total"`
	ShippingTotal    decimal.Decimal `json:"shipping_total"`
	ShippingTaxTotal decimal.Decimal `json:"shipping_tax_total"`
	DiscountTotal    decimal.Decimal `json:"discount_total"`
	RefundedTotal    decimal.Decimal `json:"refunded_total"`
	Total            decimal.Decimal `json:"total"`
}

func toTotalsResponse(t order.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:         t.Subtotal,
		TaxTotal:         t.TaxTotal,
		ShippingTotal:    t.ShippingTotal,
		ShippingTaxTotal: t.ShippingTaxTotal,
		DiscountTotal:    t.DiscountTotal,
		RefundedTotal:    t.RefundedTotal,
		Total:            t.Total,
	}
}

// OrderResponse is the API view of a seller order
type OrderResponse struct {
	ID                uuid.UUID          `json:"id"`
	DisplayID         int64              `json:"display_id"`
	OrderSetID        uuid.UUID          `json:"order_set_id"`
	SellerID          uuid.UUID          `json:"seller_id"`
	CustomerID        uuid.UUID          `json:"customer_id"`
	Email             string             `json:"email"`
	CurrencyCode      string             `json:"currency_code"`
	Status            string             `json:"status"`
	PaymentStatus     string             `json:"payment_status"`
	FulfillmentStatus string             `json:"fulfillment_status"`
	ShippingOptionID  *uuid.UUID         `json:"shipping_option_id"`
	Items             []LineItemResponse `json:"items"`
	TotalsResponse
	FulfilledAt *time.Time `json:"fulfilled_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CanceledAt  *time.Time `json:"canceled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]LineItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = LineItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			Title:            item.Title,
			ProductTypeID:    item.ProductTypeID,
			CategoryID:       item.CategoryID,
			Quantity:         item.Quantity,
			ReturnedQuantity: item.ReturnedQuantity,
			UnitPrice:        item.UnitPrice,
			Subtotal:         item.Subtotal,
			TaxTotal:         item.TaxTotal,
			Total:            item.Total,
		}
	}
	return OrderResponse{
		ID:                o.ID,
		DisplayID:         o.DisplayID,
		OrderSetID:        o.OrderSetID,
		SellerID:          o.SellerID,
		CustomerID:        o.CustomerID,
		Email:             o.Email,
		CurrencyCode:      o.CurrencyCode,
		Status:            string(o.Status),
		PaymentStatus:     string(o.PaymentStatus),
		FulfillmentStatus: string(o.FulfillmentStatus),
		ShippingOptionID:  o.ShippingOptionID,
		Items:             items,
		TotalsResponse:    toTotalsResponse(o.Totals),
		FulfilledAt:       o.FulfilledAt,
		ShippedAt:         o.ShippedAt,
		DeliveredAt:       o.DeliveredAt,
		CompletedAt:       o.CompletedAt,
		CanceledAt:        o.CanceledAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// OrderSetResponse is the API view of an order set with the status and
// totals rolled up from its seller orders
type OrderSetResponse struct {
	ID                  uuid.UUID       `json:"id"`
	DisplayID           int64           `json:"display_id"`
	CustomerID          uuid.UUID       `json:"customer_id"`
	CartID              string          `json:"cart_id"`
	SalesChannelID      string          `json:"sales_channel_id"`
	PaymentCollectionID string          `json:"payment_collection_id"`
	CurrencyCode        string          `json:"currency_code"`
	Status              string          `json:"status"`
	PaymentStatus       string          `json:"payment_status"`
	FulfillmentStatus   string          `json:"fulfillment_status"`
	Orders              []OrderResponse `json:"orders"`
	TotalsResponse
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToOrderSetResponse converts a rolled up order set summary
func ToOrderSetResponse(s *order.Summary) OrderSetResponse {
	orders := make([]OrderResponse, len(s.Orders))
	for i := range s.Orders {
		orders[i] = ToOrderResponse(&s.Orders[i])
	}
	return OrderSetResponse{
		ID:                  s.Set.ID,
		DisplayID:           s.Set.DisplayID,
		CustomerID:          s.Set.CustomerID,
		CartID:              s.Set.CartID,
		SalesChannelID:      s.Set.SalesChannelID,
		PaymentCollectionID: s.Set.PaymentCollectionID,
		CurrencyCode:        s.CurrencyCode(),
		Status:              string(s.Status),
		PaymentStatus:       string(s.PaymentStatus),
		FulfillmentStatus:   string(s.FulfillmentStatus),
		Orders:              orders,
		TotalsResponse:      toTotalsResponse(s.Totals),
		CreatedAt:           s.Set.CreatedAt,
		UpdatedAt:           s.Set.UpdatedAt,
	}
}
