package commission

import (
	"context"
	"fmt"

	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderPlacedHandler computes commission for every placed seller order
type OrderPlacedHandler struct {
	service *CommissionService
	logger  *zap.Logger
}

// NewOrderPlacedHandler creates a new OrderPlacedHandler
func NewOrderPlacedHandler(service *CommissionService, logger *zap.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle calculates the order's commission lines
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*order.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s", order.EventTypeOrderPlaced, event.EventType())
	}

	h.logger.Info("Calculating order commission",
		zap.String("event_id", placed.EventID().String()),
		zap.String("order_id", placed.OrderID.String()),
		zap.String("seller_id", placed.SellerID.String()))

	if _, err := h.service.CalculateOrderCommission(ctx, placed.OrderID); err != nil {
		h.logger.Error("failed to calculate order commission",
			zap.String("order_id", placed.OrderID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to calculate commission for order %s: %w", placed.OrderID, err)
	}
	return nil
}
