package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService manages the admin product taxonomy: product types and the
// category tree
type CategoryService struct {
	typeRepo     catalog.ProductTypeRepository
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(typeRepo catalog.ProductTypeRepository, categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		typeRepo:     typeRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// CreateType creates a product type
func (s *CategoryService) CreateType(ctx context.Context, req ProductTypeRequest) (*ProductTypeResponse, error) {
	t, err := catalog.NewProductType(req.Value)
	if err != nil {
		return nil, err
	}
	if err := s.typeRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToProductTypeResponse(t)
	return &resp, nil
}

// GetType retrieves a product type
func (s *CategoryService) GetType(ctx context.Context, id uuid.UUID) (*ProductTypeResponse, error) {
	t, err := s.typeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductTypeResponse(t)
	return &resp, nil
}

// ListTypes lists product types
func (s *CategoryService) ListTypes(ctx context.Context, query appshared.ListQuery) (shared.ListResult[ProductTypeResponse], error) {
	filter := query.Filter()
	types, total, err := s.typeRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[ProductTypeResponse]{}, err
	}
	return appshared.MapList(types, total, filter, ToProductTypeResponse), nil
}

// UpdateType renames a product type
func (s *CategoryService) UpdateType(ctx context.Context, id uuid.UUID, req ProductTypeRequest) (*ProductTypeResponse, error) {
	t, err := s.typeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Rename(req.Value); err != nil {
		return nil, err
	}
	if err := s.typeRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToProductTypeResponse(t)
	return &resp, nil
}

// DeleteType deletes a product type
func (s *CategoryService) DeleteType(ctx context.Context, id uuid.UUID) error {
	return s.typeRepo.Delete(ctx, id)
}

// CreateCategory creates a category, nested under parent_id when given
func (s *CategoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	var parent *catalog.ProductCategory
	if req.ParentID != nil {
		p, err := s.categoryRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.InvalidArgument("Unknown parent category: %s", *req.ParentID)
			}
			return nil, err
		}
		parent = p
	}

	c, err := catalog.NewProductCategory(req.Name, req.Handle, parent)
	if err != nil {
		return nil, err
	}
	rank, description := req.Rank, req.Description
	if err := c.Update(nil, &description, &rank, req.IsActive); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	c.ClearDomainEvents()

	s.logger.Info("Product category created", zap.String("category_id", c.ID.String()), zap.String("handle", c.Handle))
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// GetCategory retrieves a category
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// ListCategories lists categories
func (s *CategoryService) ListCategories(ctx context.Context, query appshared.ListQuery, f CategoryListFilter) (shared.ListResult[CategoryResponse], error) {
	filter := query.Filter()
	switch f.ParentID {
	case "":
	case "null":
		filter = filter.With("parent_id", "null")
	default:
		id, err := appshared.ParseOptionalUUID("parent_id", f.ParentID)
		if err != nil {
			return shared.ListResult[CategoryResponse]{}, err
		}
		filter = filter.With("parent_id", *id)
	}
	if f.IsActive != nil {
		filter = filter.With("is_active", *f.IsActive)
	}

	categories, total, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[CategoryResponse]{}, err
	}
	return appshared.MapList(categories, total, filter, ToCategoryResponse), nil
}

// UpdateCategory changes a category
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.Name, req.Description, req.Rank, req.IsActive); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// DeleteCategory deletes a leaf category
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NotAllowed("Category has child categories and cannot be deleted")
	}
	return s.categoryRepo.Delete(ctx, id)
}
