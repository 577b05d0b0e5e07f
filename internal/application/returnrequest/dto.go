package returnrequest

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/returnrequest"
	"github.com/shopspring/decimal"
)

// ReturnLineRequest is one item the customer sends back
type ReturnLineRequest struct {
	LineItemID uuid.UUID  `json:"line_item_id" binding:"required"`
	Quantity   int        `json:"quantity" binding:"required,min=1"`
	ReasonID   *uuid.UUID `json:"reason_id"`
}

// CreateReturnRequest opens a return request for an order
type CreateReturnRequest struct {
	OrderID          uuid.UUID           `json:"order_id" binding:"required"`
	CustomerNote     string              `json:"customer_note" binding:"max=2000"`
	ShippingOptionID *uuid.UUID          `json:"shipping_option_id"`
	LineItems        []ReturnLineRequest `json:"line_items" binding:"required,min=1,dive"`
}

func (r CreateReturnRequest) toDomain(customerID uuid.UUID) returnrequest.Request {
	lines := make([]returnrequest.LineInput, len(r.LineItems))
	for i, l := range r.LineItems {
		lines[i] = returnrequest.LineInput{LineItemID: l.LineItemID, Quantity: l.Quantity, ReasonID: l.ReasonID}
	}
	return returnrequest.Request{
		CustomerID:       customerID,
		CustomerNote:     r.CustomerNote,
		ShippingOptionID: r.ShippingOptionID,
		Lines:            lines,
	}
}

// VendorReviewRequest accepts (refunded) or rejects (escalated) a request
type VendorReviewRequest struct {
	Status string `json:"status" binding:"required,oneof=refunded escalated"`
	Note   string `json:"vendor_reviewer_note" binding:"max=2000"`
}

// AdminReviewRequest settles an escalated request
type AdminReviewRequest struct {
	Status string `json:"status" binding:"required,oneof=refunded canceled"`
	Note   string `json:"admin_reviewer_note" binding:"max=2000"`
}

// ListFilter filters return request lists
type ListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending refunded withdrawn escalated canceled"`
	OrderID    string `form:"order_id" binding:"omitempty,uuid"`
	SellerID   string `form:"seller_id" binding:"omitempty,uuid"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
}

// LineResponse is the API view of a returned line
type LineResponse struct {
	ID         uuid.UUID  `json:"id"`
	LineItemID uuid.UUID  `json:"line_item_id"`
	Quantity   int        `json:"quantity"`
	ReasonID   *uuid.UUID `json:"reason_id"`
}

// ReturnRequestResponse is the API view of a return request
type ReturnRequestResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	OrderID            uuid.UUID       `json:"order_id"`
	SellerID           uuid.UUID       `json:"seller_id"`
	CustomerNote       string          `json:"customer_note"`
	ShippingOptionID   *uuid.UUID      `json:"shipping_option_id"`
	LineItems          []LineResponse  `json:"line_items"`
	VendorReviewerID   *uuid.UUID      `json:"vendor_reviewer_id"`
	VendorReviewerNote string          `json:"vendor_reviewer_note"`
	VendorReviewDate   *time.Time      `json:"vendor_review_date"`
	AdminReviewerID    *uuid.UUID      `json:"admin_reviewer_id"`
	AdminReviewerNote  string          `json:"admin_reviewer_note"`
	AdminReviewDate    *time.Time      `json:"admin_review_date"`
	Status             string          `json:"status"`
	RefundAmount       decimal.Decimal `json:"refund_amount"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToReturnRequestResponse converts a domain return request
func ToReturnRequestResponse(r *returnrequest.ReturnRequest) ReturnRequestResponse {
	lines := make([]LineResponse, len(r.LineItems))
	for i, l := range r.LineItems {
		lines[i] = LineResponse{ID: l.ID, LineItemID: l.LineItemID, Quantity: l.Quantity, ReasonID: l.ReasonID}
	}
	return ReturnRequestResponse{
		ID:                 r.ID,
		CustomerID:         r.CustomerID,
		OrderID:            r.OrderID,
		SellerID:           r.SellerID,
		CustomerNote:       r.CustomerNote,
		ShippingOptionID:   r.ShippingOptionID,
		LineItems:          lines,
		VendorReviewerID:   r.VendorReviewerID,
		VendorReviewerNote: r.VendorReviewerNote,
		VendorReviewDate:   r.VendorReviewDate,
		AdminReviewerID:    r.AdminReviewerID,
		AdminReviewerNote:  r.AdminReviewerNote,
		AdminReviewDate:    r.AdminReviewDate,
		Status:             string(r.Status),
		RefundAmount:       r.RefundAmount,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}
