package shared

import "strings"

// Pagination limits for list queries
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Filter represents query filter options for list endpoints
type Filter struct {
	Offset   int
	Limit    int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Offset:   0,
		Limit:    DefaultLimit,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}

// NewFilter builds a filter from raw list parameters. Order uses the
// "-field" convention for descending sorts; an empty order keeps the default.
func NewFilter(offset, limit int, order, search string) Filter {
	f := DefaultFilter()
	if offset > 0 {
		f.Offset = offset
	}
	if limit > 0 {
		f.Limit = limit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if order != "" {
		if strings.HasPrefix(order, "-") {
			f.OrderBy = strings.TrimPrefix(order, "-")
			f.OrderDir = "desc"
		} else {
			f.OrderBy = order
			f.OrderDir = "asc"
		}
	}
	f.Search = strings.TrimSpace(search)
	return f
}

// With sets a resource-specific filter value and returns the filter for chaining.
// Empty strings and nil values are ignored.
func (f Filter) With(key string, value any) Filter {
	if value == nil {
		return f
	}
	if s, ok := value.(string); ok && s == "" {
		return f
	}
	if f.Filters == nil {
		f.Filters = make(map[string]any)
	}
	f.Filters[key] = value
	return f
}

// ListResult is a page of items plus the total count matching the filter
type ListResult[T any] struct {
	Items  []T
	Count  int64
	Offset int
	Limit  int
}

// NewListResult creates a list result for the given filter window
func NewListResult[T any](items []T, count int64, filter Filter) ListResult[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return ListResult[T]{
		Items:  items,
		Count:  count,
		Offset: filter.Offset,
		Limit:  filter.Limit,
	}
}
