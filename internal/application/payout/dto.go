package payout

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest opens a payout account for the seller
type CreateAccountRequest struct {
	Context map[string]any `json:"context"`
}

// AccountResponse is the API view of a payout account
type AccountResponse struct {
	ID          uuid.UUID      `json:"id"`
	SellerID    uuid.UUID      `json:"seller_id"`
	Status      string         `json:"status"`
	ReferenceID string         `json:"reference_id"`
	Data        map[string]any `json:"data"`
	Context     map[string]any `json:"context"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ToAccountResponse converts a domain payout account
func ToAccountResponse(a *payout.PayoutAccount) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		SellerID:    a.SellerID,
		Status:      string(a.Status),
		ReferenceID: a.ReferenceID,
		Data:        a.Data,
		Context:     a.Context,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// OnboardingResponse is a provider-hosted onboarding link
type OnboardingResponse struct {
	ID              uuid.UUID `json:"id"`
	PayoutAccountID uuid.UUID `json:"payout_account_id"`
	URL             string    `json:"url"`
	ExpiresAt       time.Time `json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// PayoutListFilter filters payout lists
type PayoutListFilter struct {
	SellerID string `form:"seller_id" binding:"omitempty,uuid"`
	OrderID  string `form:"order_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=pending paid failed reversed partially_reversed canceled"`
}

// ReversalResponse is the API view of a payout reversal
type ReversalResponse struct {
	ID           uuid.UUID       `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	ReferenceID  string          `json:"reference_id"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PayoutResponse is the API view of a payout
type PayoutResponse struct {
	ID              uuid.UUID          `json:"id"`
	SellerID        uuid.UUID          `json:"seller_id"`
	PayoutAccountID uuid.UUID          `json:"payout_account_id"`
	OrderID         uuid.UUID          `json:"order_id"`
	Amount          decimal.Decimal    `json:"amount"`
	CurrencyCode    string             `json:"currency_code"`
	Status          string             `json:"status"`
	ReferenceID     string             `json:"reference_id,omitempty"`
	FailureReason   string             `json:"failure_reason,omitempty"`
	Attempts        int                `json:"attempts"`
	PaidAt          *time.Time         `json:"paid_at"`
	Reversals       []ReversalResponse `json:"reversals"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToPayoutResponse converts a domain payout
func ToPayoutResponse(p *payout.Payout) PayoutResponse {
	reversals := make([]ReversalResponse, len(p.Reversals))
	for i, r := range p.Reversals {
		reversals[i] = ReversalResponse{
			ID:           r.ID,
			Amount:       r.Amount,
			CurrencyCode: r.CurrencyCode,
			ReferenceID:  r.ReferenceID,
			CreatedAt:    r.CreatedAt,
		}
	}
	return PayoutResponse{
		ID:              p.ID,
		SellerID:        p.SellerID,
		PayoutAccountID: p.PayoutAccountID,
		OrderID:         p.OrderID,
		Amount:          p.Amount,
		CurrencyCode:    p.CurrencyCode,
		Status:          string(p.Status),
		ReferenceID:     p.ReferenceID,
		FailureReason:   p.FailureReason,
		Attempts:        p.Attempts,
		PaidAt:          p.PaidAt,
		Reversals:       reversals,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// RunResult summarizes one payout run
type RunResult struct {
	Paid    int `json:"paid"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// StatementRequest selects the statement period. Dates accept RFC 3339 or
// YYYY-MM-DD; from defaults to the start of the current month and to to now.
type StatementRequest struct {
	From         string `form:"from"`
	To           string `form:"to"`
	CurrencyCode string `form:"currency_code" binding:"omitempty,len=3"`
}

// StatementResponse points at the rendered statement PDF
type StatementResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Lines     int       `json:"lines"`
}
