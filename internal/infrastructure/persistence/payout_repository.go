package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPayoutAccountRepository implements payout.AccountRepository using GORM
type GormPayoutAccountRepository struct {
	outboxWriter
	db *gorm.DB
}

// NewGormPayoutAccountRepository creates a new GormPayoutAccountRepository
func NewGormPayoutAccountRepository(db *gorm.DB) *GormPayoutAccountRepository {
	return &GormPayoutAccountRepository{db: db}
}

// FindByID finds a payout account by ID
func (r *GormPayoutAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*payout.PayoutAccount, error) {
	var model models.PayoutAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "PayoutAccount", id)
	}
	return model.ToDomain(), nil
}

// FindBySeller finds the payout account of a seller
func (r *GormPayoutAccountRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) (*payout.PayoutAccount, error) {
	var model models.PayoutAccountModel
	if err := r.db.WithContext(ctx).First(&model, "seller_id = ?", sellerID).Error; err != nil {
		return nil, notFound(err, "PayoutAccount", sellerID)
	}
	return model.ToDomain(), nil
}

// FindByReference finds a payout account by its provider account id
func (r *GormPayoutAccountRepository) FindByReference(ctx context.Context, referenceID string) (*payout.PayoutAccount, error) {
	var model models.PayoutAccountModel
	if err := r.db.WithContext(ctx).First(&model, "reference_id = ?", referenceID).Error; err != nil {
		return nil, notFound(err, "PayoutAccount", referenceID)
	}
	return model.ToDomain(), nil
}

// FindBySellers loads the accounts of many sellers in one query, keyed by seller
func (r *GormPayoutAccountRepository) FindBySellers(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]*payout.PayoutAccount, error) {
	accounts := make(map[uuid.UUID]*payout.PayoutAccount, len(sellerIDs))
	if len(sellerIDs) == 0 {
		return accounts, nil
	}
	var rows []models.PayoutAccountModel
	if err := r.db.WithContext(ctx).Where("seller_id IN ?", sellerIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		accounts[rows[i].SellerID] = rows[i].ToDomain()
	}
	return accounts, nil
}

// Save creates or updates a payout account with its pending events
func (r *GormPayoutAccountRepository) Save(ctx context.Context, a *payout.PayoutAccount) error {
	return r.save(ctx, r.db, a, models.PayoutAccountModelFromDomain(a), nil)
}

// SaveOnboarding stores a provider onboarding link
func (r *GormPayoutAccountRepository) SaveOnboarding(ctx context.Context, o *payout.Onboarding) error {
	return translateError(r.db.WithContext(ctx).Create(models.PayoutOnboardingModelFromDomain(o)).Error)
}

func preloadReversals(db *gorm.DB) *gorm.DB {
	return db.Preload("Reversals", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
}

// GormPayoutRepository implements payout.PayoutRepository using GORM
type GormPayoutRepository struct {
	outboxWriter
	db *gorm.DB
}

// NewGormPayoutRepository creates a new GormPayoutRepository
func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// FindByID finds a payout with its reversals
func (r *GormPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*payout.Payout, error) {
	var model models.PayoutModel
	if err := r.db.WithContext(ctx).Scopes(preloadReversals).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Payout", id)
	}
	return model.ToDomain(), nil
}

// FindByOrder finds the payout of an order
func (r *GormPayoutRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*payout.Payout, error) {
	var model models.PayoutModel
	if err := r.db.WithContext(ctx).Scopes(preloadReversals).First(&model, "order_id = ?", orderID).Error; err != nil {
		return nil, notFound(err, "Payout", orderID)
	}
	return model.ToDomain(), nil
}

// FindAll lists payouts. Supported filters: seller_id, status and order_id.
func (r *GormPayoutRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payout.Payout, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PayoutModel{})
	if sellerID, ok := filterUUID(filter, "seller_id"); ok {
		query = query.Scopes(sellerScope(sellerID))
	}
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if orderID, ok := filterUUID(filter, "order_id"); ok {
		query = query.Where("order_id = ?", orderID)
	}

	var rows []models.PayoutModel
	q := listQuery{sortFields: PayoutSortFields, defaultSort: "created_at", preload: preloadReversals}
	total, err := q.find(query, filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.PayoutModel).ToDomain), total, nil
}

// FindRetryable returns failed payouts and pending payouts abandoned by an
// earlier run, oldest first
func (r *GormPayoutRepository) FindRetryable(ctx context.Context, staleBefore time.Time, limit int) ([]payout.Payout, error) {
	var rows []models.PayoutModel
	err := r.db.WithContext(ctx).Scopes(preloadReversals).
		Where("status = ? OR (status = ? AND updated_at < ?)", payout.StatusFailed, payout.StatusPending, staleBefore).
		Order("updated_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.PayoutModel).ToDomain), nil
}

// FindBySellerBetween returns the payouts of a seller created in [from, to)
func (r *GormPayoutRepository) FindBySellerBetween(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]payout.Payout, error) {
	var rows []models.PayoutModel
	err := r.db.WithContext(ctx).Scopes(preloadReversals, sellerScope(sellerID)).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.PayoutModel).ToDomain), nil
}

// Save creates or updates a payout, its reversals and pending events
func (r *GormPayoutRepository) Save(ctx context.Context, p *payout.Payout) error {
	model := models.PayoutModelFromDomain(p)
	return r.save(ctx, r.db, p, model, func(tx *gorm.DB) error {
		return replaceChildren(tx, "payout_id", p.ID, model.Reversals)
	})
}
