package seller

import (
	"context"
	"fmt"

	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PayoutAccountStatusHandler refreshes the onboarding checklist when a payout
// account changes status
type PayoutAccountStatusHandler struct {
	service *SellerService
	logger  *zap.Logger
}

// NewPayoutAccountStatusHandler creates a new PayoutAccountStatusHandler
func NewPayoutAccountStatusHandler(service *SellerService, logger *zap.Logger) *PayoutAccountStatusHandler {
	return &PayoutAccountStatusHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *PayoutAccountStatusHandler) EventTypes() []string {
	return []string{payout.EventTypePayoutAccountStatusChanged}
}

// Handle recomputes the seller's onboarding flags
func (h *PayoutAccountStatusHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*payout.PayoutAccountStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s", payout.EventTypePayoutAccountStatusChanged, event.EventType())
	}

	h.logger.Info("Payout account status changed",
		zap.String("seller_id", changed.SellerID.String()),
		zap.String("previous_status", string(changed.PreviousStatus)),
		zap.String("status", string(changed.Status)))

	if _, err := h.service.RecomputeOnboarding(ctx, changed.SellerID); err != nil {
		h.logger.Error("failed to recompute seller onboarding",
			zap.String("seller_id", changed.SellerID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to recompute onboarding for seller %s: %w", changed.SellerID, err)
	}
	return nil
}
