package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/returnrequest"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReturnRequestRepository implements returnrequest.Repository using GORM
type GormReturnRequestRepository struct {
	outboxWriter
	db *gorm.DB
}

// NewGormReturnRequestRepository creates a new GormReturnRequestRepository
func NewGormReturnRequestRepository(db *gorm.DB) *GormReturnRequestRepository {
	return &GormReturnRequestRepository{db: db}
}

func preloadReturnLines(db *gorm.DB) *gorm.DB {
	return db.Preload("LineItems")
}

// FindByID finds a return request with its lines
func (r *GormReturnRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*returnrequest.ReturnRequest, error) {
	var model models.ReturnRequestModel
	if err := r.db.WithContext(ctx).Scopes(preloadReturnLines).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "ReturnRequest", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists return requests. Supported filters: customer_id, seller_id,
// order_id and status.
func (r *GormReturnRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returnrequest.ReturnRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReturnRequestModel{})
	if customerID, ok := filterUUID(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if sellerID, ok := filterUUID(filter, "seller_id"); ok {
		query = query.Scopes(sellerScope(sellerID))
	}
	if orderID, ok := filterUUID(filter, "order_id"); ok {
		query = query.Where("order_id = ?", orderID)
	}
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}

	var rows []models.ReturnRequestModel
	q := listQuery{sortFields: ReturnRequestSortFields, defaultSort: "created_at", searchFields: []string{"customer_note"}, preload: preloadReturnLines}
	total, err := q.find(query, filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.ReturnRequestModel).ToDomain), total, nil
}

// HasOpenForOrder reports whether an order has a pending or escalated request
func (r *GormReturnRequestRepository) HasOpenForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReturnRequestModel{}).
		Where("order_id = ? AND status IN ?", orderID, []returnrequest.Status{returnrequest.StatusPending, returnrequest.StatusEscalated}).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a return request, its lines and pending events
func (r *GormReturnRequestRepository) Save(ctx context.Context, req *returnrequest.ReturnRequest) error {
	model := models.ReturnRequestModelFromDomain(req)
	return r.save(ctx, r.db, req, model, func(tx *gorm.DB) error {
		return replaceChildren(tx, "return_request_id", req.ID, model.LineItems)
	})
}
