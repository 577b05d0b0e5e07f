package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// Maximum webhook payload size (64KB, provider notifications are small)
const maxWebhookPayloadSize = 65536

// StripeSignatureHeader carries the provider's payload signature
const StripeSignatureHeader = "Stripe-Signature"

// WebhookProcessor verifies and applies a payout provider notification
type WebhookProcessor interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// WebhookHandler receives payout provider notifications. The routes are
// authenticated by the payload signature, not by a token.
type WebhookHandler struct {
	BaseHandler
	processor WebhookProcessor
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(processor WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// WebhookResponse acknowledges a notification
type WebhookResponse struct {
	Received bool `json:"received"`
}

// HandleStripe handles POST /hooks/payout/stripe
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	// The signature covers the raw bytes, so the body is read before any decoding
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
			dto.ErrorTypePayloadTooLarge, "PAYLOAD_TOO_LARGE", "Payload too large", middleware.GetRequestID(c)))
		return
	}

	signature := c.GetHeader(StripeSignatureHeader)
	if signature == "" {
		h.Unauthorized(c, "Missing "+StripeSignatureHeader+" header")
		return
	}

	if err := h.processor.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, WebhookResponse{Received: true})
}
