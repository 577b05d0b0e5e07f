package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/returnrequest"
	"github.com/shopspring/decimal"
)

// ReturnRequestModel is the persistence model for order return requests
type ReturnRequestModel struct {
	SellerAggregateModel
	CustomerID         uuid.UUID                `gorm:"type:uuid;not null;index"`
	OrderID            uuid.UUID                `gorm:"type:uuid;not null;index"`
	CustomerNote       string                   `gorm:"type:text"`
	ShippingOptionID   *uuid.UUID               `gorm:"type:uuid"`
	LineItems          []ReturnRequestLineModel `gorm:"foreignKey:ReturnRequestID;references:ID"`
	VendorReviewerID   *uuid.UUID               `gorm:"type:uuid"`
	VendorReviewerNote string                   `gorm:"type:text"`
	VendorReviewDate   *time.Time
	AdminReviewerID    *uuid.UUID `gorm:"type:uuid"`
	AdminReviewerNote  string     `gorm:"type:text"`
	AdminReviewDate    *time.Time
	Status             returnrequest.Status `gorm:"type:varchar(20);not null;index"`
	RefundAmount       decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ReturnRequestModel) TableName() string {
	return "return_requests"
}

// ToDomain converts the persistence model to a domain ReturnRequest
func (m *ReturnRequestModel) ToDomain() *returnrequest.ReturnRequest {
	r := &returnrequest.ReturnRequest{
		SellerAggregateRoot: m.ToSellerAggregateRoot(),
		CustomerID:          m.CustomerID,
		OrderID:             m.OrderID,
		CustomerNote:        m.CustomerNote,
		ShippingOptionID:    m.ShippingOptionID,
		LineItems:           make([]returnrequest.LineItem, len(m.LineItems)),
		VendorReviewerID:    m.VendorReviewerID,
		VendorReviewerNote:  m.VendorReviewerNote,
		VendorReviewDate:    m.VendorReviewDate,
		AdminReviewerID:     m.AdminReviewerID,
		AdminReviewerNote:   m.AdminReviewerNote,
		AdminReviewDate:     m.AdminReviewDate,
		Status:              m.Status,
		RefundAmount:        m.RefundAmount,
	}
	for i, l := range m.LineItems {
		r.LineItems[i] = returnrequest.LineItem{
			ID:         l.ID,
			LineItemID: l.LineItemID,
			Quantity:   l.Quantity,
			ReasonID:   l.ReasonID,
		}
	}
	return r
}

// ReturnRequestModelFromDomain creates a persistence model from a domain ReturnRequest
func ReturnRequestModelFromDomain(r *returnrequest.ReturnRequest) *ReturnRequestModel {
	m := &ReturnRequestModel{
		CustomerID:         r.CustomerID,
		OrderID:            r.OrderID,
		CustomerNote:       r.CustomerNote,
		ShippingOptionID:   r.ShippingOptionID,
		LineItems:          make([]ReturnRequestLineModel, len(r.LineItems)),
		VendorReviewerID:   r.VendorReviewerID,
		VendorReviewerNote: r.VendorReviewerNote,
		VendorReviewDate:   r.VendorReviewDate,
		AdminReviewerID:    r.AdminReviewerID,
		AdminReviewerNote:  r.AdminReviewerNote,
		AdminReviewDate:    r.AdminReviewDate,
		Status:             r.Status,
		RefundAmount:       r.RefundAmount,
	}
	m.FromDomainSellerAggregateRoot(r.SellerAggregateRoot)
	for i, l := range r.LineItems {
		m.LineItems[i] = ReturnRequestLineModel{
			ID:              l.ID,
			ReturnRequestID: r.ID,
			LineItemID:      l.LineItemID,
			Quantity:        l.Quantity,
			ReasonID:        l.ReasonID,
		}
	}
	return m
}

// ReturnRequestLineModel is one line of a return request
type ReturnRequestLineModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ReturnRequestID uuid.UUID  `gorm:"type:uuid;not null;index"`
	LineItemID      uuid.UUID  `gorm:"type:uuid;not null"`
	Quantity        int        `gorm:"not null"`
	ReasonID        *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ReturnRequestLineModel) TableName() string {
	return "return_request_lines"
}
