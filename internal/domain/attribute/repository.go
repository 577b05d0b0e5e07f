package attribute

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// AttributeRepository defines persistence for attributes and their possible values
type AttributeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Attribute, error)
	// FindAll supports filters: category_id (global attributes always included), is_filterable
	FindAll(ctx context.Context, filter shared.Filter) ([]Attribute, int64, error)
	// FindApplicable returns global attributes and those linked to the category
	FindApplicable(ctx context.Context, categoryID *uuid.UUID) ([]Attribute, error)
	ExistsByHandle(ctx context.Context, handle string) (bool, error)
	Save(ctx context.Context, attribute *Attribute) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ValueRepository stores product attribute values
type ValueRepository interface {
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Value, error)
	// ReplaceForProduct deletes existing values of the product and inserts values
	ReplaceForProduct(ctx context.Context, productID uuid.UUID, values []Value) error
}
