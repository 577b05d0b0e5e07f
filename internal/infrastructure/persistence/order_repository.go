package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Display id sequence scopes
const (
	sequenceOrder    = "order"
	sequenceOrderSet = "order_set"
)

// nextSequence increments and returns the counter of scope. The row update
// holds a lock until the surrounding transaction ends.
func nextSequence(ctx context.Context, db *gorm.DB, scope string) (int64, error) {
	var seq models.DisplayIDSequenceModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}},
			DoUpdates: clause.Assignments(map[string]any{"value": gorm.Expr("display_id_sequences.value + 1")}),
		}).Create(&models.DisplayIDSequenceModel{Scope: scope, Value: 1}).Error
		if err != nil {
			return err
		}
		return tx.Where("scope = ?", scope).Take(&seq).Error
	})
	return seq.Value, err
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items")
}

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	outboxWriter
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its line items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(preloadItems).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Order", id)
	}
	return model.ToDomain(), nil
}

// FindByIDForSeller finds an order sold by sellerID. Orders of other
// sellers are reported as not found.
func (r *GormOrderRepository) FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(preloadItems, sellerScope(sellerID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Order", id)
	}
	return model.ToDomain(), nil
}

// FindByOrderSet returns the seller orders of one order set
func (r *GormOrderRepository) FindByOrderSet(ctx context.Context, orderSetID uuid.UUID) ([]order.Order, error) {
	return r.FindByOrderSets(ctx, []uuid.UUID{orderSetID})
}

// FindByOrderSets returns the seller orders of many order sets in one query
func (r *GormOrderRepository) FindByOrderSets(ctx context.Context, orderSetIDs []uuid.UUID) ([]order.Order, error) {
	if len(orderSetIDs) == 0 {
		return []order.Order{}, nil
	}
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(preloadItems).
		Where("order_set_id IN ?", orderSetIDs).
		Order("display_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.OrderModel).ToDomain), nil
}

// FindAll lists orders. Supported filters: seller_id, customer_id, status,
// payment_status and fulfillment_status.
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if sellerID, ok := filterUUID(filter, "seller_id"); ok {
		query = query.Scopes(sellerScope(sellerID))
	}
	if customerID, ok := filterUUID(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", customerID)
	}
	for _, column := range []string{"status", "payment_status", "fulfillment_status"} {
		if v, ok := filterString(filter, column); ok {
			query = query.Where(column+" = ?", v)
		}
	}

	var rows []models.OrderModel
	q := listQuery{sortFields: OrderSortFields, defaultSort: "created_at", searchFields: []string{"email"}, preload: preloadItems}
	total, err := q.find(query, filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.OrderModel).ToDomain), total, nil
}

// FindCompletedWithoutPayout returns completed orders finished before
// completedBefore that have no payout yet, oldest first.
func (r *GormOrderRepository) FindCompletedWithoutPayout(ctx context.Context, completedBefore time.Time, limit int) ([]order.Order, error) {
	var rows []models.OrderModel
	err := r.db.WithContext(ctx).Scopes(preloadItems).
		Where("status = ? AND completed_at <= ?", order.StatusCompleted, completedBefore).
		Where("NOT EXISTS (SELECT 1 FROM payouts p WHERE p.order_id = orders.id)").
		Order("completed_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.OrderModel).ToDomain), nil
}

// FindBySellerBetween returns the orders of a seller created in [from, to)
func (r *GormOrderRepository) FindBySellerBetween(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]order.Order, error) {
	var rows []models.OrderModel
	err := r.db.WithContext(ctx).Scopes(preloadItems, sellerScope(sellerID)).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.OrderModel).ToDomain), nil
}

// NextDisplayID returns the next human readable order number
func (r *GormOrderRepository) NextDisplayID(ctx context.Context) (int64, error) {
	return nextSequence(ctx, r.db, sequenceOrder)
}

// Save creates or updates an order, its line items and pending events
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	return r.save(ctx, r.db, o, model, func(tx *gorm.DB) error {
		return replaceChildren(tx, "order_id", o.ID, model.Items)
	})
}

// GormOrderSetRepository implements order.OrderSetRepository using GORM
type GormOrderSetRepository struct {
	db *gorm.DB
}

// NewGormOrderSetRepository creates a new GormOrderSetRepository
func NewGormOrderSetRepository(db *gorm.DB) *GormOrderSetRepository {
	return &GormOrderSetRepository{db: db}
}

// FindByID finds an order set by ID
func (r *GormOrderSetRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.OrderSet, error) {
	var model models.OrderSetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "OrderSet", id)
	}
	return model.ToDomain(), nil
}

// FindByIdempotencyKey finds the order set a customer checkout key created
func (r *GormOrderSetRepository) FindByIdempotencyKey(ctx context.Context, customerID uuid.UUID, key string) (*order.OrderSet, error) {
	var model models.OrderSetModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND idempotency_key = ?", customerID, key).
		First(&model).Error; err != nil {
		return nil, notFound(err, "OrderSet", key)
	}
	return model.ToDomain(), nil
}

// FindAll lists order sets, optionally for one customer_id
func (r *GormOrderSetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.OrderSet, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderSetModel{})
	if customerID, ok := filterUUID(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", customerID)
	}

	var rows []models.OrderSetModel
	q := listQuery{sortFields: OrderSetSortFields, defaultSort: "created_at"}
	total, err := q.find(query, filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.OrderSetModel).ToDomain), total, nil
}

// NextDisplayID returns the next human readable order set number
func (r *GormOrderSetRepository) NextDisplayID(ctx context.Context) (int64, error) {
	return nextSequence(ctx, r.db, sequenceOrderSet)
}

// Save creates or updates an order set
func (r *GormOrderSetRepository) Save(ctx context.Context, s *order.OrderSet) error {
	return persist(r.db.WithContext(ctx), models.OrderSetModelFromDomain(s), s.ID, s.Version)
}
