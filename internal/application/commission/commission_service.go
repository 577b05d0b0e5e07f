package commission

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/commission"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CommissionService manages commission rules and computes order commission
type CommissionService struct {
	ruleRepo  commission.RuleRepository
	lineRepo  commission.LineRepository
	orderRepo order.OrderRepository
	lookup    commission.ReferenceLookup
	metrics   appshared.BusinessMetrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(
	ruleRepo commission.RuleRepository,
	lineRepo commission.LineRepository,
	orderRepo order.OrderRepository,
	lookup commission.ReferenceLookup,
	metrics appshared.BusinessMetrics,
	logger *zap.Logger,
) *CommissionService {
	return &CommissionService{
		ruleRepo:  ruleRepo,
		lineRepo:  lineRepo,
		orderRepo: orderRepo,
		lookup:    lookup,
		metrics:   appshared.MetricsOrNoop(metrics),
		logger:    logger,
		now:       time.Now,
	}
}

// =============================================================================
// Rules
// =============================================================================

// CreateRule creates a commission rule
func (s *CommissionService) CreateRule(ctx context.Context, req CreateRuleRequest) (*RuleResponse, error) {
	rule, err := commission.NewRule(req.Name, commission.ReferenceType(req.Reference), req.ReferenceID, req.Rate.toDomain())
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil && !*req.IsActive {
		if err := rule.Update(commission.RuleUpdate{IsActive: req.IsActive}); err != nil {
			return nil, err
		}
	}
	if err := s.ensureSingleActive(ctx, rule); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	s.logger.Info("Commission rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("reference", string(rule.Reference)),
		zap.String("reference_id", rule.ReferenceID))
	return s.withDisplay(ctx, rule)
}

// GetRule retrieves a commission rule
func (s *CommissionService) GetRule(ctx context.Context, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withDisplay(ctx, rule)
}

// ListRules lists commission rules with their reference labels resolved
// in one batch for the whole page
func (s *CommissionService) ListRules(ctx context.Context, query appshared.ListQuery, f RuleListFilter) (shared.ListResult[RuleResponse], error) {
	filter := query.Filter().With("reference", f.Reference)
	if f.IsActive != nil {
		filter = filter.With("is_active", *f.IsActive)
	}
	rules, total, err := s.ruleRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[RuleResponse]{}, err
	}
	display, err := commission.ResolveReferences(ctx, rules, s.lookup)
	if err != nil {
		return shared.ListResult[RuleResponse]{}, err
	}
	return appshared.MapList(rules, total, filter, func(r *commission.Rule) RuleResponse {
		return ToRuleResponse(r, display[r.ID])
	}), nil
}

// UpdateRule changes the name, rate or activation of a rule
func (s *CommissionService) UpdateRule(ctx context.Context, id uuid.UUID, req UpdateRuleRequest) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	update := commission.RuleUpdate{Name: req.Name, IsActive: req.IsActive}
	if req.Rate != nil {
		rate := req.Rate.toDomain()
		update.Rate = &rate
	}
	if err := rule.Update(update); err != nil {
		return nil, err
	}
	if err := s.ensureSingleActive(ctx, rule); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	return s.withDisplay(ctx, rule)
}

// DeleteRule removes a commission rule. Lines already computed keep it.
func (s *CommissionService) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return s.ruleRepo.Delete(ctx, id)
}

func (s *CommissionService) ensureSingleActive(ctx context.Context, rule *commission.Rule) error {
	if !rule.IsActive {
		return nil
	}
	exists, err := s.ruleRepo.ExistsActive(ctx, rule.Reference, rule.ReferenceID, rule.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.Duplicate("An active commission rule for %s %q already exists", rule.Reference, rule.ReferenceID)
	}
	return nil
}

func (s *CommissionService) withDisplay(ctx context.Context, rule *commission.Rule) (*RuleResponse, error) {
	display, err := commission.ResolveReferences(ctx, []commission.Rule{*rule}, s.lookup)
	if err != nil {
		return nil, err
	}
	resp := ToRuleResponse(rule, display[rule.ID])
	return &resp, nil
}

// =============================================================================
// Lines
// =============================================================================

// ListLines lists commission lines with the per-currency total of all
// matching lines
func (s *CommissionService) ListLines(ctx context.Context, query appshared.ListQuery, f LineListFilter) (*LineListResult, error) {
	filter := query.Filter()
	for key, raw := range map[string]string{"seller_id": f.SellerID, "order_id": f.OrderID} {
		id, err := appshared.ParseOptionalUUID(key, raw)
		if err != nil {
			return nil, err
		}
		if id != nil {
			filter = filter.With(key, *id)
		}
	}
	for key, raw := range map[string]string{"start_date": f.StartDate, "end_date": f.EndDate} {
		at, err := parseDate(key, raw, key == "end_date")
		if err != nil {
			return nil, err
		}
		if !at.IsZero() {
			filter = filter.With(key, at)
		}
	}

	lines, total, err := s.lineRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	totals, err := s.lineRepo.Totals(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := &LineListResult{
		ListResult: appshared.MapList(lines, total, filter, ToLineResponse),
		Totals:     make([]CurrencyTotalResponse, len(totals)),
	}
	for i, t := range totals {
		result.Totals[i] = CurrencyTotalResponse{CurrencyCode: t.CurrencyCode, Total: t.Total}
	}
	return result, nil
}

// ListLinesForSeller lists the seller's commission lines
func (s *CommissionService) ListLinesForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f LineListFilter) (*LineListResult, error) {
	f.SellerID = sellerID.String()
	return s.ListLines(ctx, query, f)
}

// parseDate accepts RFC 3339 timestamps and plain dates. A plain end date
// covers the whole day.
func parseDate(name, raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, shared.InvalidArgument("Invalid %s: %s", name, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// =============================================================================
// Calculation
// =============================================================================

// CalculateOrderCommission computes and stores the commission lines of an
// order. Orders that already have lines are left untouched, so redelivered
// events do not double charge.
func (s *CommissionService) CalculateOrderCommission(ctx context.Context, orderID uuid.UUID) ([]LineResponse, error) {
	exists, err := s.lineRepo.ExistsForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.Debug("Commission already calculated", zap.String("order_id", orderID.String()))
		return nil, nil
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	rules, err := s.ruleRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	lines := commission.Calculate(orderInput(o), commission.NewRuleSet(rules), s.now())
	if err := s.lineRepo.SaveBatch(ctx, lines); err != nil {
		return nil, err
	}

	total := commission.Sum(lines)
	s.metrics.CommissionCharged(ctx, o.CurrencyCode, total)
	s.logger.Info("Commission calculated",
		zap.String("order_id", o.ID.String()),
		zap.String("seller_id", o.SellerID.String()),
		zap.Int("lines", len(lines)),
		zap.String("total", total.String()))

	out := make([]LineResponse, len(lines))
	for i := range lines {
		out[i] = ToLineResponse(&lines[i])
	}
	return out, nil
}

func orderInput(o *order.Order) commission.OrderInput {
	items := make([]commission.ItemInput, len(o.Items))
	for i, item := range o.Items {
		items[i] = commission.ItemInput{
			LineItemID:    item.ID,
			ProductTypeID: item.ProductTypeID,
			CategoryID:    item.CategoryID,
			Quantity:      item.Quantity,
			Subtotal:      item.Subtotal,
			TaxTotal:      item.TaxTotal,
		}
	}
	return commission.OrderInput{
		OrderID:          o.ID,
		SellerID:         o.SellerID,
		CurrencyCode:     o.CurrencyCode,
		Items:            items,
		ShippingTotal:    o.ShippingTotal,
		ShippingTaxTotal: o.ShippingTaxTotal,
	}
}
