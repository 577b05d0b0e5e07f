package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/returnrequest"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReturnRefundedHandler reverses the seller payout of refunded returns
type ReturnRefundedHandler struct {
	service *PayoutService
	logger  *zap.Logger
}

// NewReturnRefundedHandler creates a new ReturnRefundedHandler
func NewReturnRefundedHandler(service *PayoutService, logger *zap.Logger) *ReturnRefundedHandler {
	return &ReturnRefundedHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ReturnRefundedHandler) EventTypes() []string {
	return []string{returnrequest.EventTypeReturnRequestRefunded}
}

// Handle reverses the refunded amount. The reversal is keyed by the return
// request so redelivery does not reverse twice at the provider.
func (h *ReturnRefundedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	refunded, ok := event.(*returnrequest.ReturnRequestRefundedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s", returnrequest.EventTypeReturnRequestRefunded, event.EventType())
	}
	if !refunded.RefundAmount.IsPositive() {
		return nil
	}

	key := "reversal-" + refunded.ReturnRequestID.String()
	if _, err := h.service.ReversePayout(ctx, refunded.OrderID, refunded.RefundAmount, key); err != nil {
		h.logger.Error("failed to reverse payout",
			zap.String("return_request_id", refunded.ReturnRequestID.String()),
			zap.String("order_id", refunded.OrderID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to reverse payout for order %s: %w", refunded.OrderID, err)
	}
	return nil
}

// OrderCompletedHandler records when a completed order becomes payable
type OrderCompletedHandler struct {
	hold   time.Duration
	logger *zap.Logger
}

// NewOrderCompletedHandler creates a new OrderCompletedHandler
func NewOrderCompletedHandler(service *PayoutService, logger *zap.Logger) *OrderCompletedHandler {
	return &OrderCompletedHandler{hold: service.config.HoldPeriod, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderCompletedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderCompleted}
}

// Handle logs the payout eligibility date; the scheduled run picks the order up
func (h *OrderCompletedHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*order.OrderCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s", order.EventTypeOrderCompleted, event.EventType())
	}
	h.logger.Info("Order eligible for payout",
		zap.String("order_id", completed.OrderID.String()),
		zap.String("seller_id", completed.SellerID.String()),
		zap.Time("eligible_at", completed.OccurredAt().Add(h.hold)))
	return nil
}
