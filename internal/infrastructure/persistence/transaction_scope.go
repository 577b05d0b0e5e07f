package persistence

import (
	"context"

	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/commission"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/domain/returnrequest"
	"github.com/marketplace/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransactionScope implements appshared.TransactionScope. Repositories
// handed to fn are bound to the transaction, so their own nested
// transactions become savepoints.
type GormTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormTransactionScope creates a new GormTransactionScope. saver may be nil.
func NewGormTransactionScope(db *gorm.DB, saver shared.OutboxEventSaver) *GormTransactionScope {
	return &GormTransactionScope{db: db, outboxSaver: saver}
}

// Execute runs fn in a transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appshared.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.repositories(tx))
	})
}

func (s *GormTransactionScope) repositories(tx *gorm.DB) *gormTransactionalRepositories {
	products := NewGormProductRepository(tx)
	orders := NewGormOrderRepository(tx)
	payouts := NewGormPayoutRepository(tx)
	returns := NewGormReturnRequestRepository(tx)
	if s.outboxSaver != nil {
		products.SetOutboxEventSaver(s.outboxSaver)
		orders.SetOutboxEventSaver(s.outboxSaver)
		payouts.SetOutboxEventSaver(s.outboxSaver)
		returns.SetOutboxEventSaver(s.outboxSaver)
	}
	return &gormTransactionalRepositories{
		products:        products,
		orderSets:       NewGormOrderSetRepository(tx),
		orders:          orders,
		commissionLines: NewGormCommissionLineRepository(tx),
		payouts:         payouts,
		returnRequests:  returns,
	}
}

type gormTransactionalRepositories struct {
	products        *GormProductRepository
	orderSets       *GormOrderSetRepository
	orders          *GormOrderRepository
	commissionLines *GormCommissionLineRepository
	payouts         *GormPayoutRepository
	returnRequests  *GormReturnRequestRepository
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository { return r.products }
func (r *gormTransactionalRepositories) OrderSets() order.OrderSetRepository { return r.orderSets }
func (r *gormTransactionalRepositories) Orders() order.OrderRepository       { return r.orders }
func (r *gormTransactionalRepositories) CommissionLines() commission.LineRepository {
	return r.commissionLines
}
func (r *gormTransactionalRepositories) Payouts() payout.PayoutRepository         { return r.payouts }
func (r *gormTransactionalRepositories) ReturnRequests() returnrequest.Repository { return r.returnRequests }

var _ appshared.TransactionScope = (*GormTransactionScope)(nil)
