package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"ASC", "ASC"},
		{"asc", "ASC"},
		{"  asc  ", "ASC"},
		{"desc", "DESC"},
		{"sideways", "DESC"},
		{"ASC; DROP TABLE sellers;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run("order "+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty uses default", "", "created_at"},
		{"whitelisted field", "store_status", "store_status"},
		{"trims whitespace", "  name ", "name"},
		{"unknown field uses default", "password", "created_at"},
		{"case sensitive", "NAME", "created_at"},
		{"injection uses default", "name; DROP TABLE sellers;--", "created_at"},
		{"subquery uses default", "id, (SELECT email FROM users)", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, SellerSortFields, "created_at"))
		})
	}
}

func TestSortFieldsIncludeCommonColumns(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"sellers":          SellerSortFields,
		"products":         ProductSortFields,
		"orders":           OrderSortFields,
		"commission_rules": CommissionRuleSortFields,
		"payouts":          PayoutSortFields,
		"return_requests":  ReturnRequestSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			for field := range CommonSortFields {
				assert.True(t, whitelist[field], "%s should allow %s", name, field)
			}
		})
	}

	assert.True(t, OrderSortFields["display_id"])
	assert.False(t, OrderSortFields["email"])
}
