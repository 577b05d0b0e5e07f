package dto

import (
	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/domain/shared"
)

// NewListResponse builds the list envelope
//
//	{"<resource>": [...], "count": N, "offset": O, "limit": L}
func NewListResponse[T any](resource string, result shared.ListResult[T]) gin.H {
	items := result.Items
	if items == nil {
		items = make([]T, 0)
	}
	return gin.H{
		resource: items,
		"count":  result.Count,
		"offset": result.Offset,
		"limit":  result.Limit,
	}
}

// NewResourceResponse wraps a single resource: {"<resource>": {...}}
func NewResourceResponse(resource string, data any) gin.H {
	return gin.H{resource: data}
}

// DeleteResponse confirms a deletion
type DeleteResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// NewDeleteResponse creates a deletion confirmation
func NewDeleteResponse(id, object string) DeleteResponse {
	return DeleteResponse{ID: id, Object: object, Deleted: true}
}
