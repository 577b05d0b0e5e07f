package shipping

import (
	"context"
	"fmt"

	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SellerCreatedHandler gives every new seller its default shipping profile
type SellerCreatedHandler struct {
	service *ShippingService
	logger  *zap.Logger
}

// NewSellerCreatedHandler creates a new handler for seller created events
func NewSellerCreatedHandler(service *ShippingService, logger *zap.Logger) *SellerCreatedHandler {
	return &SellerCreatedHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *SellerCreatedHandler) EventTypes() []string {
	return []string{seller.EventTypeSellerCreated}
}

// Handle creates the default shipping profile of the seller
func (h *SellerCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*seller.SellerCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s", seller.EventTypeSellerCreated, event.EventType())
	}
	if _, err := h.service.EnsureDefaultProfile(ctx, created.SellerID); err != nil {
		h.logger.Error("failed to create default shipping profile",
			zap.String("seller_id", created.SellerID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create default shipping profile: %w", err)
	}
	return nil
}
