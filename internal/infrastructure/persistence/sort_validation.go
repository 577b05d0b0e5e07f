package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// sortFields builds a whitelist from the common fields plus extra
func sortFields(extra ...string) map[string]bool {
	m := make(map[string]bool, len(CommonSortFields)+len(extra))
	for f := range CommonSortFields {
		m[f] = true
	}
	for _, f := range extra {
		m[f] = true
	}
	return m
}

// Allowed sort fields per resource
var (
	SellerSortFields          = sortFields("name", "handle", "store_status")
	MemberSortFields          = sortFields("name", "email", "role")
	UserSortFields            = sortFields("email", "first_name", "last_name")
	CustomerSortFields        = sortFields("email", "first_name", "last_name")
	ProductSortFields         = sortFields("title", "handle", "status", "price", "inventory_quantity")
	ProductTypeSortFields     = sortFields("value")
	CategorySortFields        = sortFields("name", "handle", "rank", "level")
	AttributeSortFields       = sortFields("name", "handle")
	PriceListSortFields       = sortFields("title", "status", "starts_at", "ends_at")
	ShippingProfileSortFields = sortFields("name", "type")
	ShippingOptionSortFields  = sortFields("name", "amount")
	OrderSortFields           = sortFields("display_id", "status", "payment_status", "fulfillment_status", "total", "completed_at")
	OrderSetSortFields        = sortFields("display_id")
	CommissionRuleSortFields  = sortFields("name", "reference", "is_active")
	CommissionLineSortFields  = sortFields("value", "currency_code")
	PayoutSortFields          = sortFields("amount", "status", "paid_at")
	ReturnRequestSortFields   = sortFields("status")
	InviteSortFields          = sortFields("email", "expires_at")
)
