package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderSetModel is the persistence model for checkout order sets
type OrderSetModel struct {
	AggregateModel
	DisplayID           int64     `gorm:"not null;uniqueIndex"`
	CustomerID          uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_order_set_idempotency,priority:1,where:idempotency_key <> ''"`
	CartID              string    `gorm:"type:varchar(100)"`
	SalesChannelID      string    `gorm:"type:varchar(100)"`
	PaymentCollectionID string    `gorm:"type:varchar(100)"`
	IdempotencyKey      string    `gorm:"type:varchar(255);uniqueIndex:idx_order_set_idempotency,priority:2,where:idempotency_key <> ''"`
}

// TableName returns the table name for GORM
func (OrderSetModel) TableName() string {
	return "order_sets"
}

// ToDomain converts the persistence model to a domain OrderSet
func (m *OrderSetModel) ToDomain() *order.OrderSet {
	return &order.OrderSet{
		BaseAggregateRoot:   m.ToAggregateRoot(),
		DisplayID:           m.DisplayID,
		CustomerID:          m.CustomerID,
		CartID:              m.CartID,
		SalesChannelID:      m.SalesChannelID,
		PaymentCollectionID: m.PaymentCollectionID,
		IdempotencyKey:      m.IdempotencyKey,
	}
}

// OrderSetModelFromDomain creates a persistence model from a domain OrderSet
func OrderSetModelFromDomain(s *order.OrderSet) *OrderSetModel {
	m := &OrderSetModel{
		DisplayID:           s.DisplayID,
		CustomerID:          s.CustomerID,
		CartID:              s.CartID,
		SalesChannelID:      s.SalesChannelID,
		PaymentCollectionID: s.PaymentCollectionID,
		IdempotencyKey:      s.IdempotencyKey,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// OrderModel is the persistence model for the per-seller Order aggregate
type OrderModel struct {
	SellerAggregateModel
	DisplayID         int64                   `gorm:"not null;uniqueIndex"`
	OrderSetID        uuid.UUID               `gorm:"type:uuid;not null;index"`
	CustomerID        uuid.UUID               `gorm:"type:uuid;not null;index"`
	Email             string                  `gorm:"type:varchar(255)"`
	CurrencyCode      string                  `gorm:"type:varchar(3);not null"`
	Status            order.Status            `gorm:"type:varchar(30);not null;index"`
	PaymentStatus     order.PaymentStatus     `gorm:"type:varchar(30);not null;index"`
	FulfillmentStatus order.FulfillmentStatus `gorm:"type:varchar(30);not null;index"`
	Items             []OrderLineItemModel    `gorm:"foreignKey:OrderID;references:ID"`
	ShippingOptionID  *uuid.UUID              `gorm:"type:uuid"`
	Subtotal          decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	TaxTotal          decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingTotal     decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingTaxTotal  decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountTotal     decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	RefundedTotal     decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Total             decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	FulfilledAt       *time.Time
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	CompletedAt       *time.Time `gorm:"index"`
	CanceledAt        *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		SellerAggregateRoot: m.ToSellerAggregateRoot(),
		DisplayID:           m.DisplayID,
		OrderSetID:          m.OrderSetID,
		CustomerID:          m.CustomerID,
		Email:               m.Email,
		CurrencyCode:        m.CurrencyCode,
		Status:              m.Status,
		PaymentStatus:       m.PaymentStatus,
		FulfillmentStatus:   m.FulfillmentStatus,
		Items:               make([]order.LineItem, len(m.Items)),
		ShippingOptionID:    m.ShippingOptionID,
		Totals: order.Totals{
			Subtotal:         m.Subtotal,
			TaxTotal:         m.TaxTotal,
			ShippingTotal:    m.ShippingTotal,
			ShippingTaxTotal: m.ShippingTaxTotal,
			DiscountTotal:    m.DiscountTotal,
			RefundedTotal:    m.RefundedTotal,
			Total:            m.Total,
		},
		FulfilledAt: m.FulfilledAt,
		ShippedAt:   m.ShippedAt,
		DeliveredAt: m.DeliveredAt,
		CompletedAt: m.CompletedAt,
		CanceledAt:  m.CanceledAt,
	}
	for i, item := range m.Items {
		o.Items[i] = item.ToDomain()
	}
	return o
}

// OrderModelFromDomain creates a persistence model from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		DisplayID:         o.DisplayID,
		OrderSetID:        o.OrderSetID,
		CustomerID:        o.CustomerID,
		Email:             o.Email,
		CurrencyCode:      o.CurrencyCode,
		Status:            o.Status,
		PaymentStatus:     o.PaymentStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		Items:             make([]OrderLineItemModel, len(o.Items)),
		ShippingOptionID:  o.ShippingOptionID,
		Subtotal:          o.Subtotal,
		TaxTotal:          o.TaxTotal,
		ShippingTotal:     o.ShippingTotal,
		ShippingTaxTotal:  o.ShippingTaxTotal,
		DiscountTotal:     o.DiscountTotal,
		RefundedTotal:     o.RefundedTotal,
		Total:             o.Total,
		FulfilledAt:       o.FulfilledAt,
		ShippedAt:         o.ShippedAt,
		DeliveredAt:       o.DeliveredAt,
		CompletedAt:       o.CompletedAt,
		CanceledAt:        o.CanceledAt,
	}
	m.FromDomainSellerAggregateRoot(o.SellerAggregateRoot)
	for i, item := range o.Items {
		m.Items[i] = OrderLineItemModelFromDomain(o.ID, item)
	}
	return m
}

// OrderLineItemModel is one line of a seller order
type OrderLineItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title            string          `gorm:"type:varchar(255);not null"`
	ProductTypeID    *uuid.UUID      `gorm:"type:uuid"`
	CategoryID       *uuid.UUID      `gorm:"type:uuid"`
	Quantity         int             `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxTotal         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReturnedQuantity int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderLineItemModel) TableName() string {
	return "order_line_items"
}

// ToDomain converts the persistence model to a domain LineItem
func (m OrderLineItemModel) ToDomain() order.LineItem {
	return order.LineItem{
		ID:               m.ID,
		ProductID:        m.ProductID,
		Title:            m.Title,
		ProductTypeID:    m.ProductTypeID,
		CategoryID:       m.CategoryID,
		Quantity:         m.Quantity,
		UnitPrice:        m.UnitPrice,
		Subtotal:         m.Subtotal,
		TaxTotal:         m.TaxTotal,
		Total:            m.Total,
		ReturnedQuantity: m.ReturnedQuantity,
	}
}

// OrderLineItemModelFromDomain creates a persistence model for an order line
func OrderLineItemModelFromDomain(orderID uuid.UUID, item order.LineItem) OrderLineItemModel {
	return OrderLineItemModel{
		ID:               item.ID,
		OrderID:          orderID,
		ProductID:        item.ProductID,
		Title:            item.Title,
		ProductTypeID:    item.ProductTypeID,
		CategoryID:       item.CategoryID,
		Quantity:         item.Quantity,
		UnitPrice:        item.UnitPrice,
		Subtotal:         item.Subtotal,
		TaxTotal:         item.TaxTotal,
		Total:            item.Total,
		ReturnedQuantity: item.ReturnedQuantity,
	}
}

// DisplayIDSequenceModel hands out human readable display ids per scope
type DisplayIDSequenceModel struct {
	Scope string `gorm:"type:varchar(50);primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DisplayIDSequenceModel) TableName() string {
	return "display_id_sequences"
}
