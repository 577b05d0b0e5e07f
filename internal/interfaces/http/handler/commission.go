package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcommission "github.com/marketplace/backend/internal/application/commission"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// CommissionService is the commission rule and line use case set
type CommissionService interface {
	CreateRule(ctx context.Context, req appcommission.CreateRuleRequest) (*appcommission.RuleResponse, error)
	GetRule(ctx context.Context, id uuid.UUID) (*appcommission.RuleResponse, error)
	ListRules(ctx context.Context, query appshared.ListQuery, f appcommission.RuleListFilter) (shared.ListResult[appcommission.RuleResponse], error)
	UpdateRule(ctx context.Context, id uuid.UUID, req appcommission.UpdateRuleRequest) (*appcommission.RuleResponse, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
	ListLines(ctx context.Context, query appshared.ListQuery, f appcommission.LineListFilter) (*appcommission.LineListResult, error)
	ListLinesForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f appcommission.LineListFilter) (*appcommission.LineListResult, error)
}

// CommissionHandler serves commission rules and computed lines
type CommissionHandler struct {
	BaseHandler
	commissionService CommissionService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissionService CommissionService) *CommissionHandler {
	return &CommissionHandler{commissionService: commissionService}
}

// ListRules handles GET /admin/commission/rules
func (h *CommissionHandler) ListRules(c *gin.Context) {
	var query appshared.ListQuery
	var filter appcommission.RuleListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.commissionService.ListRules(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "commission_rules", result)
}

// CreateRule handles POST /admin/commission/rules
func (h *CommissionHandler) CreateRule(c *gin.Context) {
	var req appcommission.CreateRuleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rule, err := h.commissionService.CreateRule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "commission_rule", rule)
}

// GetRule handles GET /admin/commission/rules/:id
func (h *CommissionHandler) GetRule(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	rule, err := h.commissionService.GetRule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "commission_rule", rule)
}

// UpdateRule handles POST /admin/commission/rules/:id
func (h *CommissionHandler) UpdateRule(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appcommission.UpdateRuleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rule, err := h.commissionService.UpdateRule(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "commission_rule", rule)
}

// DeleteRule handles DELETE /admin/commission/rules/:id
func (h *CommissionHandler) DeleteRule(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.commissionService.DeleteRule(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, id, "commission_rule")
}

// ListLines handles GET /admin/commission/lines
func (h *CommissionHandler) ListLines(c *gin.Context) {
	var query appshared.ListQuery
	var filter appcommission.LineListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.commissionService.ListLines(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeLines(c, result)
}

// VendorListLines handles GET /vendor/commission/lines
func (h *CommissionHandler) VendorListLines(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var query appshared.ListQuery
	var filter appcommission.LineListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.commissionService.ListLinesForSeller(c.Request.Context(), actor.SellerID, query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeLines(c, result)
}

// writeLines adds the per-currency totals of every matching line to the page
func writeLines(c *gin.Context, result *appcommission.LineListResult) {
	body := dto.NewListResponse("commission_lines", result.ListResult)
	totals := result.Totals
	if totals == nil {
		totals = []appcommission.CurrencyTotalResponse{}
	}
	body["totals"] = totals
	c.JSON(http.StatusOK, body)
}
