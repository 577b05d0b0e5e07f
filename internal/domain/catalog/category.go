package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// MaxCategoryDepth is the maximum depth of the category tree
const MaxCategoryDepth = 5

// ProductCategory groups products in a tree. Path is a materialized path of
// ancestor ids ("root/child/grandchild") used for subtree queries.
type ProductCategory struct {
	shared.BaseAggregateRoot
	Name        string
	Handle      string
	Description string
	ParentID    *uuid.UUID
	Path        string
	Level       int
	Rank        int
	IsActive    bool
}

// NewProductCategory creates a root category, or a child when parent is non-nil
func NewProductCategory(name, handle string, parent *ProductCategory) (*ProductCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidArgument("Category name is required")
	}
	if len(name) > 100 {
		return nil, shared.InvalidArgument("Category name cannot exceed 100 characters")
	}
	if handle = shared.Slugify(handle); handle == "" {
		handle = shared.Slugify(name)
	}

	c := &ProductCategory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Handle:            handle,
		IsActive:          true,
	}
	c.Path = c.ID.String()
	if parent != nil {
		if parent.Level >= MaxCategoryDepth-1 {
			return nil, shared.InvalidArgument("Category depth cannot exceed %d levels", MaxCategoryDepth)
		}
		c.ParentID = &parent.ID
		c.Level = parent.Level + 1
		c.Path = parent.Path + "/" + c.ID.String()
	}
	c.AddDomainEvent(NewCategoryCreatedEvent(c))
	return c, nil
}

// Update changes the descriptive fields of the category
func (c *ProductCategory) Update(name, description *string, rank *int, active *bool) error {
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return shared.InvalidArgument("Category name cannot be empty")
		}
		c.Name = n
	}
	if description != nil {
		c.Description = *description
	}
	if rank != nil {
		c.Rank = *rank
	}
	if active != nil {
		c.IsActive = *active
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}

// AncestorIDs returns the ids of all ancestors, root first
func (c *ProductCategory) AncestorIDs() []uuid.UUID {
	parts := strings.Split(c.Path, "/")
	if len(parts) <= 1 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		if id, err := uuid.Parse(p); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsAncestorOf returns true if this category is an ancestor of other
func (c *ProductCategory) IsAncestorOf(other *ProductCategory) bool {
	if other == nil || other.Path == "" {
		return false
	}
	return strings.HasPrefix(other.Path, c.Path+"/")
}

// ProductType is a free-form classification used by commission rules
type ProductType struct {
	shared.BaseAggregateRoot
	Value string
}

// NewProductType creates a product type
func NewProductType(value string) (*ProductType, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, shared.InvalidArgument("Product type value is required")
	}
	if len(value) > 100 {
		return nil, shared.InvalidArgument("Product type value cannot exceed 100 characters")
	}
	return &ProductType{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Value:             value,
	}, nil
}

// Rename changes the product type value
func (t *ProductType) Rename(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return shared.InvalidArgument("Product type value is required")
	}
	t.Value = value
	t.Touch()
	t.IncrementVersion()
	return nil
}
