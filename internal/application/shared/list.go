package shared

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ListQuery holds the pagination parameters every list endpoint accepts
type ListQuery struct {
	Offset int    `form:"offset" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0,max=100"`
	Order  string `form:"order"`
	Q      string `form:"q" binding:"max=200"`
}

// Filter converts the query into a domain filter
func (q ListQuery) Filter() shared.Filter {
	return shared.NewFilter(q.Offset, q.Limit, q.Order, q.Q)
}

// MapList converts a page of domain items into response items
func MapList[T, R any](items []T, count int64, filter shared.Filter, convert func(*T) R) shared.ListResult[R] {
	out := make([]R, len(items))
	for i := range items {
		out[i] = convert(&items[i])
	}
	return shared.NewListResult(out, count, filter)
}

// ParseOptionalUUID parses a query parameter that may be empty
func ParseOptionalUUID(name, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, shared.InvalidArgument("Invalid %s: %s", name, value)
	}
	return &id, nil
}
