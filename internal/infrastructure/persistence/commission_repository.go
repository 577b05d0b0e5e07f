package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/commission"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommissionRuleRepository implements commission.RuleRepository using GORM
type GormCommissionRuleRepository struct {
	db *gorm.DB
}

// NewGormCommissionRuleRepository creates a new GormCommissionRuleRepository
func NewGormCommissionRuleRepository(db *gorm.DB) *GormCommissionRuleRepository {
	return &GormCommissionRuleRepository{db: db}
}

// FindByID finds a commission rule by ID
func (r *GormCommissionRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*commission.Rule, error) {
	var model models.CommissionRuleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "CommissionRule", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists rules. Supported filters: reference and is_active.
func (r *GormCommissionRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]commission.Rule, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CommissionRuleModel{})
	if ref, ok := filterString(filter, "reference"); ok {
		query = query.Where("reference = ?", ref)
	}
	if active, ok := filterBool(filter, "is_active"); ok {
		query = query.Where("is_active = ?", active)
	}

	var rows []models.CommissionRuleModel
	q := listQuery{sortFields: CommissionRuleSortFields, defaultSort: "created_at", searchFields: []string{"name", "reference_id"}}
	total, err := q.find(query, filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.CommissionRuleModel).ToDomain), total, nil
}

// FindActive returns every active rule
func (r *GormCommissionRuleRepository) FindActive(ctx context.Context) ([]commission.Rule, error) {
	var rows []models.CommissionRuleModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.CommissionRuleModel).ToDomain), nil
}

// ExistsActive reports whether another active rule targets the same reference
func (r *GormCommissionRuleRepository) ExistsActive(ctx context.Context, ref commission.ReferenceType, referenceID string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CommissionRuleModel{}).
		Where("reference = ? AND reference_id = ? AND is_active = ?", ref, referenceID, true)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Save creates or updates a commission rule
func (r *GormCommissionRuleRepository) Save(ctx context.Context, rule *commission.Rule) error {
	return persist(r.db.WithContext(ctx), models.CommissionRuleModelFromDomain(rule), rule.ID, rule.Version)
}

// Delete soft deletes a commission rule
func (r *GormCommissionRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CommissionRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("CommissionRule", id)
	}
	return nil
}

// GormCommissionLineRepository implements commission.LineRepository using GORM
type GormCommissionLineRepository struct {
	db *gorm.DB
}

// NewGormCommissionLineRepository creates a new GormCommissionLineRepository
func NewGormCommissionLineRepository(db *gorm.DB) *GormCommissionLineRepository {
	return &GormCommissionLineRepository{db: db}
}

func (r *GormCommissionLineRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CommissionLineModel{})
	if sellerID, ok := filterUUID(filter, "seller_id"); ok {
		query = query.Scopes(sellerScope(sellerID))
	}
	if orderID, ok := filterUUID(filter, "order_id"); ok {
		query = query.Where("order_id = ?", orderID)
	}
	if start, ok := filterTime(filter, "start_date"); ok {
		query = query.Where("created_at >= ?", start)
	}
	if end, ok := filterTime(filter, "end_date"); ok {
		query = query.Where("created_at <= ?", end)
	}
	return query
}

// FindAll lists commission lines. Supported filters: seller_id, order_id,
// start_date and end_date.
func (r *GormCommissionLineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]commission.Line, int64, error) {
	var rows []models.CommissionLineModel
	q := listQuery{sortFields: CommissionLineSortFields, defaultSort: "created_at"}
	total, err := q.find(r.filtered(ctx, filter), filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.CommissionLineModel).ToDomain), total, nil
}

// Totals sums the lines matching filter per currency
func (r *GormCommissionLineRepository) Totals(ctx context.Context, filter shared.Filter) ([]commission.CurrencyTotal, error) {
	var totals []commission.CurrencyTotal
	err := r.filtered(ctx, filter).
		Select("currency_code, COALESCE(SUM(value), 0) AS total").
		Group("currency_code").
		Order("currency_code").
		Scan(&totals).Error
	return totals, err
}

// ExistsForOrder reports whether commission was already computed for an order
func (r *GormCommissionLineRepository) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommissionLineModel{}).Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, err
}

// SumByOrder sums the commission of one order
func (r *GormCommissionLineRepository) SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	sums, err := r.SumByOrders(ctx, []uuid.UUID{orderID})
	if err != nil {
		return decimal.Zero, err
	}
	return sums[orderID], nil
}

// SumByOrders sums the commission of many orders in one query. Orders
// without lines are absent from the result.
func (r *GormCommissionLineRepository) SumByOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	sums := make(map[uuid.UUID]decimal.Decimal, len(orderIDs))
	if len(orderIDs) == 0 {
		return sums, nil
	}
	var rows []struct {
		OrderID uuid.UUID
		Total   decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.CommissionLineModel{}).
		Select("order_id, COALESCE(SUM(value), 0) AS total").
		Where("order_id IN ?", orderIDs).
		Group("order_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		sums[row.OrderID] = row.Total
	}
	return sums, nil
}

// SaveBatch inserts lines, skipping lines already stored for the same
// order and item line
func (r *GormCommissionLineRepository) SaveBatch(ctx context.Context, lines []commission.Line) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.CommissionLineModel, len(lines))
	for i := range lines {
		rows[i] = *models.CommissionLineModelFromDomain(&lines[i])
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "item_line_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

// GormReferenceLookup implements commission.ReferenceLookup with one query
// per reference kind
type GormReferenceLookup struct {
	db *gorm.DB
}

// NewGormReferenceLookup creates a new GormReferenceLookup
func NewGormReferenceLookup(db *gorm.DB) *GormReferenceLookup {
	return &GormReferenceLookup{db: db}
}

type idLabel struct {
	ID    uuid.UUID
	Label string
}

func (l *GormReferenceLookup) labels(ctx context.Context, model any, column string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []idLabel
	err := l.db.WithContext(ctx).Model(model).
		Select("id, "+column+" AS label").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Label
	}
	return out, nil
}

// SellerNames returns seller names by id
func (l *GormReferenceLookup) SellerNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return l.labels(ctx, &models.SellerModel{}, "name", ids)
}

// ProductTypeValues returns product type values by id
func (l *GormReferenceLookup) ProductTypeValues(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return l.labels(ctx, &models.ProductTypeModel{}, "value", ids)
}

// CategoryNames returns category names by id
func (l *GormReferenceLookup) CategoryNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return l.labels(ctx, &models.ProductCategoryModel{}, "name", ids)
}

var _ commission.ReferenceLookup = (*GormReferenceLookup)(nil)
