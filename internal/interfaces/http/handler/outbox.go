package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/application/event"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/shared"
)

// DeadLetterService inspects and requeues domain events that exhausted
// their delivery attempts
type DeadLetterService interface {
	ListDead(ctx context.Context, query appshared.ListQuery) (shared.ListResult[event.OutboxEntryResponse], error)
	Retry(ctx context.Context, id uuid.UUID) error
	RetryAll(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (*event.OutboxStatsResponse, error)
}

// OutboxHandler serves /admin/events
type OutboxHandler struct {
	BaseHandler
	outboxService DeadLetterService
}

// NewOutboxHandler creates a new outbox handler
func NewOutboxHandler(outboxService DeadLetterService) *OutboxHandler {
	return &OutboxHandler{outboxService: outboxService}
}

// ListDead handles GET /admin/events/dead
func (h *OutboxHandler) ListDead(c *gin.Context) {
	var query appshared.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	result, err := h.outboxService.ListDead(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "events", result)
}

// Retry handles POST /admin/events/:id/retry
func (h *OutboxHandler) Retry(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.outboxService.Retry(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "event", gin.H{"id": id, "status": string(shared.OutboxStatusPending)})
}

// RetryAll handles POST /admin/events/retry
func (h *OutboxHandler) RetryAll(c *gin.Context) {
	count, err := h.outboxService.RetryAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "requeued", count)
}

// Stats handles GET /admin/events/stats
func (h *OutboxHandler) Stats(c *gin.Context) {
	stats, err := h.outboxService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "stats", stats)
}
