package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppayout "github.com/marketplace/backend/internal/application/payout"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/shared"
)

// PayoutService is the payout account and transfer use case set
type PayoutService interface {
	CreatePayoutAccount(ctx context.Context, sellerID uuid.UUID, req apppayout.CreateAccountRequest) (*apppayout.AccountResponse, error)
	GetPayoutAccount(ctx context.Context, sellerID uuid.UUID) (*apppayout.AccountResponse, error)
	CreateOnboarding(ctx context.Context, sellerID uuid.UUID) (*apppayout.OnboardingResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ProcessPayouts(ctx context.Context) (*apppayout.RunResult, error)
	ListPayouts(ctx context.Context, query appshared.ListQuery, f apppayout.PayoutListFilter) (shared.ListResult[apppayout.PayoutResponse], error)
	ListPayoutsForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f apppayout.PayoutListFilter) (shared.ListResult[apppayout.PayoutResponse], error)
	GenerateStatement(ctx context.Context, sellerID uuid.UUID, req apppayout.StatementRequest) (*apppayout.StatementResponse, error)
}

// PayoutHandler serves payout accounts, payouts and statements
type PayoutHandler struct {
	BaseHandler
	payoutService PayoutService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payoutService PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

// CreateAccount handles POST /vendor/payout-account. The body is optional.
func (h *PayoutHandler) CreateAccount(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var req apppayout.CreateAccountRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}
	account, err := h.payoutService.CreatePayoutAccount(c.Request.Context(), actor.SellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "payout_account", account)
}

// GetAccount handles GET /vendor/payout-account
func (h *PayoutHandler) GetAccount(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	account, err := h.payoutService.GetPayoutAccount(c.Request.Context(), actor.SellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "payout_account", account)
}

// CreateOnboarding handles POST /vendor/payout-account/onboarding
func (h *PayoutHandler) CreateOnboarding(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	onboarding, err := h.payoutService.CreateOnboarding(c.Request.Context(), actor.SellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "onboarding", onboarding)
}

// VendorList handles GET /vendor/payouts
func (h *PayoutHandler) VendorList(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var query appshared.ListQuery
	var filter apppayout.PayoutListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.payoutService.ListPayoutsForSeller(c.Request.Context(), actor.SellerID, query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "payouts", result)
}

// Statement handles GET /vendor/payouts/statement?from=&to=&currency_code=
func (h *PayoutHandler) Statement(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var req apppayout.StatementRequest
	if !h.BindQuery(c, &req) {
		return
	}
	statement, err := h.payoutService.GenerateStatement(c.Request.Context(), actor.SellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "statement", statement)
}

// AdminList handles GET /admin/payouts
func (h *PayoutHandler) AdminList(c *gin.Context) {
	var query appshared.ListQuery
	var filter apppayout.PayoutListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.payoutService.ListPayouts(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "payouts", result)
}

// Run handles POST /admin/payouts/run and processes payouts immediately
func (h *PayoutHandler) Run(c *gin.Context) {
	result, err := h.payoutService.ProcessPayouts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "run", result)
}
