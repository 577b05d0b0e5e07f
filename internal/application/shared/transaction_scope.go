package shared

import (
	"context"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/commission"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/domain/returnrequest"
)

// TransactionScope runs a unit of work in one database transaction.
// If fn returns an error the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to the repositories that take part
// in multi-aggregate writes. All of them share the scope's transaction.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	OrderSets() order.OrderSetRepository
	Orders() order.OrderRepository
	CommissionLines() commission.LineRepository
	Payouts() payout.PayoutRepository
	ReturnRequests() returnrequest.Repository
}
