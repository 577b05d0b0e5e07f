package returnrequest

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Repository defines persistence for return requests
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnRequest, error)
	// FindAll supports filters: customer_id, seller_id, order_id, status
	FindAll(ctx context.Context, filter shared.Filter) ([]ReturnRequest, int64, error)
	// HasOpenForOrder reports whether a pending or escalated request exists
	HasOpenForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	Save(ctx context.Context, request *ReturnRequest) error
}
