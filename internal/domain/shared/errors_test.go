package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NotFound("Seller", "sel_1")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrNotAllowed))
	assert.Equal(t, "Seller with id: sel_1 was not found", err.Error())
}

func TestDomainError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("loading order: %w", NotAllowed("order %s is canceled", "o1"))

	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeNotAllowed, domainErr.Code)
	assert.True(t, errors.Is(err, ErrNotAllowed))
}

func TestWrapDomainError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapDomainError(CodeUnexpected, "failed to reach provider", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNewFilter(t *testing.T) {
	tests := []struct {
		name      string
		offset    int
		limit     int
		order     string
		wantLimit int
		wantBy    string
		wantDir   string
	}{
		{"defaults", 0, 0, "", DefaultLimit, "created_at", "desc"},
		{"ascending", 10, 5, "name", 5, "name", "asc"},
		{"descending", 0, 50, "-updated_at", 50, "updated_at", "desc"},
		{"limit capped", 0, 1000, "", MaxLimit, "created_at", "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter(tt.offset, tt.limit, tt.order, "  shoes ")
			assert.Equal(t, tt.offset, f.Offset)
			assert.Equal(t, tt.wantLimit, f.Limit)
			assert.Equal(t, tt.wantBy, f.OrderBy)
			assert.Equal(t, tt.wantDir, f.OrderDir)
			assert.Equal(t, "shoes", f.Search)
		})
	}
}

func TestFilter_WithSkipsEmptyValues(t *testing.T) {
	f := DefaultFilter().With("status", "").With("seller_id", "s1").With("q", nil)

	assert.Len(t, f.Filters, 1)
	assert.Equal(t, "s1", f.Filters["seller_id"])
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Acme Shoes":        "acme-shoes",
		"  Café & Co.  ":    "caf-co",
		"Big---Store!!":     "big-store",
		"123 Numbers Inc":   "123-numbers-inc",
		"---":               "",
		"Mixed_CASE handle": "mixed-case-handle",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}
