package returnrequest

import (
	"context"
	"time"

	"github.com/google/uuid"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/returnrequest"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultWindowDays is the return window used when none is configured
const DefaultWindowDays = 14

// Config contains the return settings
type Config struct {
	WindowDays int
}

// ReturnRequestService handles customer returns and their review by sellers
// and admins
type ReturnRequestService struct {
	requests returnrequest.Repository
	orders   order.OrderRepository
	scope    appshared.TransactionScope
	metrics  appshared.BusinessMetrics
	config   Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewReturnRequestService creates a new ReturnRequestService
func NewReturnRequestService(
	requests returnrequest.Repository,
	orders order.OrderRepository,
	scope appshared.TransactionScope,
	metrics appshared.BusinessMetrics,
	config Config,
	logger *zap.Logger,
) *ReturnRequestService {
	if config.WindowDays <= 0 {
		config.WindowDays = DefaultWindowDays
	}
	return &ReturnRequestService{
		requests: requests,
		orders:   orders,
		scope:    scope,
		metrics:  appshared.MetricsOrNoop(metrics),
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// =============================================================================
// Customer
// =============================================================================

// Create opens a return request after checking the order is eligible
func (s *ReturnRequestService) Create(ctx context.Context, customerID uuid.UUID, req CreateReturnRequest) (*ReturnRequestResponse, error) {
	o, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	hasOpen, err := s.requests.HasOpenForOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	input := req.toDomain(customerID)
	if err := returnrequest.CheckEligibility(o, input, hasOpen, s.config.WindowDays, s.now()); err != nil {
		return nil, err
	}

	r := returnrequest.NewReturnRequest(o, input)
	if err := s.requests.Save(ctx, r); err != nil {
		return nil, err
	}
	r.ClearDomainEvents()

	s.metrics.ReturnRequestTransitioned(ctx, string(r.Status))
	s.logger.Info("Return request created",
		zap.String("return_request_id", r.ID.String()),
		zap.String("order_id", o.ID.String()),
		zap.String("seller_id", o.SellerID.String()))
	resp := ToReturnRequestResponse(r)
	return &resp, nil
}

// GetForCustomer returns one of the customer's requests
func (s *ReturnRequestService) GetForCustomer(ctx context.Context, customerID, id uuid.UUID) (*ReturnRequestResponse, error) {
	r, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.CustomerID != customerID {
		return nil, shared.NotFound("ReturnRequest", id)
	}
	resp := ToReturnRequestResponse(r)
	return &resp, nil
}

// ListForCustomer lists the customer's requests
func (s *ReturnRequestService) ListForCustomer(ctx context.Context, customerID uuid.UUID, query appshared.ListQuery, f ListFilter) (shared.ListResult[ReturnRequestResponse], error) {
	f.CustomerID = customerID.String()
	return s.List(ctx, query, f)
}

// Withdraw retracts a pending request
func (s *ReturnRequestService) Withdraw(ctx context.Context, customerID, id uuid.UUID) (*ReturnRequestResponse, error) {
	r, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Withdraw(customerID); err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, r); err != nil {
		return nil, err
	}
	s.metrics.ReturnRequestTransitioned(ctx, string(r.Status))
	resp := ToReturnRequestResponse(r)
	return &resp, nil
}

// =============================================================================
// Vendor
// =============================================================================

// GetForSeller returns a request made for one of the seller's orders
func (s *ReturnRequestService) GetForSeller(ctx context.Context, sellerID, id uuid.UUID) (*ReturnRequestResponse, error) {
	r, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.SellerID != sellerID {
		return nil, shared.NotFound("ReturnRequest", id)
	}
	resp := ToReturnRequestResponse(r)
	return &resp, nil
}

// ListForSeller lists the requests made for the seller's orders
func (s *ReturnRequestService) ListForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f ListFilter) (shared.ListResult[ReturnRequestResponse], error) {
	f.SellerID = sellerID.String()
	return s.List(ctx, query, f)
}

// VendorReview accepts or rejects a pending request. Accepting refunds the
// returned lines on the order in the same transaction.
func (s *ReturnRequestService) VendorReview(ctx context.Context, sellerID, memberID, id uuid.UUID, req VendorReviewRequest) (*ReturnRequestResponse, error) {
	accept := req.Status == string(returnrequest.StatusRefunded)
	return s.review(ctx, id, func(r *returnrequest.ReturnRequest, o *order.Order) error {
		if r.SellerID != sellerID {
			return shared.NotFound("ReturnRequest", id)
		}
		return r.VendorReview(o, memberID, accept, req.Note, s.now())
	})
}

// =============================================================================
// Admin
// =============================================================================

// Get returns any request
func (s *ReturnRequestService) Get(ctx context.Context, id uuid.UUID) (*ReturnRequestResponse, error) {
	r, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToReturnRequestResponse(r)
	return &resp, nil
}

// List lists requests. Supported filters: status, order_id, seller_id, customer_id.
func (s *ReturnRequestService) List(ctx context.Context, query appshared.ListQuery, f ListFilter) (shared.ListResult[ReturnRequestResponse], error) {
	filter := query.Filter().With("status", f.Status)
	for key, raw := range map[string]string{"order_id": f.OrderID, "seller_id": f.SellerID, "customer_id": f.CustomerID} {
		id, err := appshared.ParseOptionalUUID(key, raw)
		if err != nil {
			return shared.ListResult[ReturnRequestResponse]{}, err
		}
		if id != nil {
			filter = filter.With(key, *id)
		}
	}
	requests, total, err := s.requests.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[ReturnRequestResponse]{}, err
	}
	return appshared.MapList(requests, total, filter, ToReturnRequestResponse), nil
}

// AdminReview refunds or cancels an escalated request
func (s *ReturnRequestService) AdminReview(ctx context.Context, userID, id uuid.UUID, req AdminReviewRequest) (*ReturnRequestResponse, error) {
	refund := req.Status == string(returnrequest.StatusRefunded)
	return s.review(ctx, id, func(r *returnrequest.ReturnRequest, o *order.Order) error {
		return r.AdminReview(o, userID, refund, req.Note, s.now())
	})
}

// review loads the request with its order, applies decide and stores both.
// The order only changes, and is only saved, when the request is refunded.
func (s *ReturnRequestService) review(ctx context.Context, id uuid.UUID, decide func(*returnrequest.ReturnRequest, *order.Order) error) (*ReturnRequestResponse, error) {
	var r *returnrequest.ReturnRequest
	err := s.scope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		if r, err = repos.ReturnRequests().FindByID(ctx, id); err != nil {
			return err
		}
		o, err := repos.Orders().FindByID(ctx, r.OrderID)
		if err != nil {
			return err
		}
		if err := decide(r, o); err != nil {
			return err
		}
		if r.Status == returnrequest.StatusRefunded {
			if err := repos.Orders().Save(ctx, o); err != nil {
				return err
			}
			o.ClearDomainEvents()
		}
		if err := repos.ReturnRequests().Save(ctx, r); err != nil {
			return err
		}
		r.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ReturnRequestTransitioned(ctx, string(r.Status))
	s.logger.Info("Return request reviewed",
		zap.String("return_request_id", r.ID.String()),
		zap.String("status", string(r.Status)),
		zap.String("refund_amount", r.RefundAmount.String()))
	resp := ToReturnRequestResponse(r)
	return &resp, nil
}
