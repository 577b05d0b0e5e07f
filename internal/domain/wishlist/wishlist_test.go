package wishlist

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist(t *testing.T) {
	w := NewWishlist(uuid.New())
	first, second := uuid.New(), uuid.New()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, w.Add(first, t0))
	assert.True(t, w.Add(second, t0.Add(time.Hour)))
	assert.False(t, w.Add(first, t0.Add(2*time.Hour)), "adding twice is a no-op")
	assert.Len(t, w.Items, 2)

	assert.Equal(t, []uuid.UUID{second, first}, w.ProductIDs())

	require.NoError(t, w.Remove(first))
	assert.False(t, w.Contains(first))
	assert.True(t, errors.Is(w.Remove(first), shared.ErrNotFound))
}
