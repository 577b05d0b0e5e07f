package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/marketplace/backend/internal/domain/shared"
)

type mockWebhookProcessor struct {
	mock.Mock
}

func (m *mockWebhookProcessor) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return m.Called(ctx, payload, signature).Error(0)
}

func TestWebhookHandler_HandleStripe(t *testing.T) {
	payload := `{"id":"evt_1","type":"account.updated"}`

	t.Run("verified payload", func(t *testing.T) {
		processor := new(mockWebhookProcessor)
		processor.On("HandleWebhook", mock.Anything, []byte(payload), "t=1,v1=abc").Return(nil).Once()
		r := newEngine(nil)
		r.POST("/hooks/payout/stripe", NewWebhookHandler(processor).HandleStripe)

		req := jsonRequest(t, http.MethodPost, "/hooks/payout/stripe", payload)
		req.Header.Set(StripeSignatureHeader, "t=1,v1=abc")
		w := serve(r, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["received"])
		processor.AssertExpectations(t)
	})

	t.Run("missing signature", func(t *testing.T) {
		processor := new(mockWebhookProcessor)
		r := newEngine(nil)
		r.POST("/hooks/payout/stripe", NewWebhookHandler(processor).HandleStripe)

		w := serve(r, jsonRequest(t, http.MethodPost, "/hooks/payout/stripe", payload))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		processor.AssertNotCalled(t, "HandleWebhook")
	})

	t.Run("bad signature", func(t *testing.T) {
		processor := new(mockWebhookProcessor)
		processor.On("HandleWebhook", mock.Anything, mock.Anything, "forged").
			Return(shared.NewDomainError(shared.CodeUnauthorized, "Webhook signature verification failed")).Once()
		r := newEngine(nil)
		r.POST("/hooks/payout/stripe", NewWebhookHandler(processor).HandleStripe)

		req := jsonRequest(t, http.MethodPost, "/hooks/payout/stripe", payload)
		req.Header.Set(StripeSignatureHeader, "forged")
		w := serve(r, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("oversized payload", func(t *testing.T) {
		processor := new(mockWebhookProcessor)
		r := newEngine(nil)
		r.POST("/hooks/payout/stripe", NewWebhookHandler(processor).HandleStripe)

		req := jsonRequest(t, http.MethodPost, "/hooks/payout/stripe", strings.Repeat("a", maxWebhookPayloadSize+1))
		req.Header.Set(StripeSignatureHeader, "t=1,v1=abc")
		w := serve(r, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		processor.AssertNotCalled(t, "HandleWebhook")
	})
}
