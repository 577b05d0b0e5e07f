package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to typed and wildcard handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		typed := &recordingHandler{types: []string{testEventType}}
		other := &recordingHandler{types: []string{"other.event"}}
		wildcard := &recordingHandler{}
		bus.Subscribe(typed)
		bus.Subscribe(other)
		bus.Subscribe(wildcard)

		require.NoError(t, bus.Publish(ctx, newTestEvent("a")))

		assert.Equal(t, 1, typed.count())
		assert.Equal(t, 0, other.count())
		assert.Equal(t, 1, wildcard.count())
	})

	t.Run("returns handler errors after running every handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{testEventType}, err: errors.New("db down")}
		healthy := &recordingHandler{types: []string{testEventType}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(ctx, newTestEvent("a"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
		assert.Equal(t, 1, healthy.count())
	})

	t.Run("turns a panic into an error", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(&recordingHandler{types: []string{testEventType}, panics: true})

		err := bus.Publish(ctx, newTestEvent("a"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panicked")
	})

	t.Run("unsubscribed handlers stop receiving events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{types: []string{testEventType}}
		bus.Subscribe(h)
		bus.Unsubscribe(h)

		require.NoError(t, bus.Publish(ctx, newTestEvent("a")))
		assert.Equal(t, 0, h.count())
	})
}

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	a := &recordingHandler{}
	b := &recordingHandler{}
	r.Register(a, "x", "y")
	r.Register(b)

	assert.Len(t, r.Handlers("x"), 2)
	assert.Len(t, r.Handlers("z"), 1)
	assert.ElementsMatch(t, []string{"x", "y"}, r.EventTypes())

	r.Unregister(a)
	assert.Empty(t, r.EventTypes())
	assert.Len(t, r.Handlers("x"), 1)
}
