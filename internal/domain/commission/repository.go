package commission

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RuleRepository defines persistence for commission rules
type RuleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Rule, error)
	// FindAll supports filters: reference, is_active
	FindAll(ctx context.Context, filter shared.Filter) ([]Rule, int64, error)
	FindActive(ctx context.Context) ([]Rule, error)
	// ExistsActive reports whether another active rule uses the reference
	ExistsActive(ctx context.Context, ref ReferenceType, referenceID string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CurrencyTotal is a sum of commission values in one currency
type CurrencyTotal struct {
	CurrencyCode string
	Total        decimal.Decimal
}

// LineRepository defines persistence for commission lines
type LineRepository interface {
	// FindAll supports filters: seller_id, order_id, start_date, end_date
	FindAll(ctx context.Context, filter shared.Filter) ([]Line, int64, error)
	// Totals sums line values per currency for the same filters as FindAll
	Totals(ctx context.Context, filter shared.Filter) ([]CurrencyTotal, error)
	ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	// SumByOrders sums line values per order in one query
	SumByOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	SaveBatch(ctx context.Context, lines []Line) error
}
