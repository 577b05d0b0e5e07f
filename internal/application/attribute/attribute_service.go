package attribute

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/attribute"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AttributeService manages admin-defined product attributes and the values
// sellers attach to their products
type AttributeService struct {
	attributeRepo attribute.AttributeRepository
	valueRepo     attribute.ValueRepository
	categoryRepo  catalog.CategoryRepository
	productRepo   catalog.ProductRepository
	logger        *zap.Logger
}

// NewAttributeService creates a new AttributeService
func NewAttributeService(
	attributeRepo attribute.AttributeRepository,
	valueRepo attribute.ValueRepository,
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *AttributeService {
	return &AttributeService{
		attributeRepo: attributeRepo,
		valueRepo:     valueRepo,
		categoryRepo:  categoryRepo,
		productRepo:   productRepo,
		logger:        logger,
	}
}

// Create creates an attribute with its initial possible values
func (s *AttributeService) Create(ctx context.Context, req CreateAttributeRequest) (*AttributeResponse, error) {
	a, err := attribute.NewAttribute(req.Name, req.Handle, attribute.UIComponent(req.UIComponent))
	if err != nil {
		return nil, err
	}
	exists, err := s.attributeRepo.ExistsByHandle(ctx, a.Handle)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.Duplicate("Attribute with handle %s already exists", a.Handle)
	}
	if err := s.validateCategories(ctx, req.ProductCategoryIDs); err != nil {
		return nil, err
	}

	description := req.Description
	if err := a.Update(attribute.AttributeUpdate{
		Description:        &description,
		IsRequired:         &req.IsRequired,
		IsFilterable:       &req.IsFilterable,
		ProductCategoryIDs: &req.ProductCategoryIDs,
	}); err != nil {
		return nil, err
	}
	for _, pv := range req.PossibleValues {
		if _, err := a.AddPossibleValue(pv.Value, pv.Rank, pv.Metadata); err != nil {
			return nil, err
		}
	}

	if err := s.attributeRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("Attribute created", zap.String("attribute_id", a.ID.String()), zap.String("handle", a.Handle))
	resp := ToAttributeResponse(a)
	return &resp, nil
}

// GetByID retrieves an attribute
func (s *AttributeService) GetByID(ctx context.Context, id uuid.UUID) (*AttributeResponse, error) {
	a, err := s.attributeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAttributeResponse(a)
	return &resp, nil
}

// List lists attributes. With category_id only attributes applying to that
// category are returned, global attributes included.
func (s *AttributeService) List(ctx context.Context, query appshared.ListQuery, f AttributeListFilter) (shared.ListResult[AttributeResponse], error) {
	filter := query.Filter()
	categoryID, err := appshared.ParseOptionalUUID("category_id", f.CategoryID)
	if err != nil {
		return shared.ListResult[AttributeResponse]{}, err
	}
	if categoryID != nil {
		filter = filter.With("category_id", *categoryID)
	}
	if f.IsFilterable != nil {
		filter = filter.With("is_filterable", *f.IsFilterable)
	}

	attributes, total, err := s.attributeRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[AttributeResponse]{}, err
	}
	return appshared.MapList(attributes, total, filter, ToAttributeResponse), nil
}

// Update changes an attribute
func (s *AttributeService) Update(ctx context.Context, id uuid.UUID, req UpdateAttributeRequest) (*AttributeResponse, error) {
	a, err := s.attributeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ProductCategoryIDs != nil {
		if err := s.validateCategories(ctx, *req.ProductCategoryIDs); err != nil {
			return nil, err
		}
	}
	if err := a.Update(attribute.AttributeUpdate{
		Name:               req.Name,
		Description:        req.Description,
		IsRequired:         req.IsRequired,
		IsFilterable:       req.IsFilterable,
		ProductCategoryIDs: req.ProductCategoryIDs,
	}); err != nil {
		return nil, err
	}
	if err := s.attributeRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAttributeResponse(a)
	return &resp, nil
}

// Delete removes an attribute and every product value of it
func (s *AttributeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.attributeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Attribute deleted", zap.String("attribute_id", id.String()))
	return nil
}

// AddPossibleValue adds an allowed value to a select or multivalue attribute
func (s *AttributeService) AddPossibleValue(ctx context.Context, id uuid.UUID, req PossibleValueRequest) (*AttributeResponse, error) {
	a, err := s.attributeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := a.AddPossibleValue(req.Value, req.Rank, req.Metadata); err != nil {
		return nil, err
	}
	if err := s.attributeRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAttributeResponse(a)
	return &resp, nil
}

// RemovePossibleValue removes an allowed value. Product values already using
// it are kept until the product's attributes are set again.
func (s *AttributeService) RemovePossibleValue(ctx context.Context, id, valueID uuid.UUID) (*AttributeResponse, error) {
	a, err := s.attributeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.RemovePossibleValue(valueID); err != nil {
		return nil, err
	}
	if err := s.attributeRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAttributeResponse(a)
	return &resp, nil
}

// GetProductAttributes returns the attribute values of a seller's product
func (s *AttributeService) GetProductAttributes(ctx context.Context, sellerID, productID uuid.UUID) ([]ProductAttributeValueResponse, error) {
	product, err := s.productRepo.FindByIDForSeller(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	values, err := s.valueRepo.FindByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	attributes, err := s.attributeRepo.FindApplicable(ctx, product.CategoryID)
	if err != nil {
		return nil, err
	}
	return toValueResponses(values, attributes), nil
}

// SetProductAttributes validates and replaces the full set of attribute
// values of a seller's product
func (s *AttributeService) SetProductAttributes(ctx context.Context, sellerID, productID uuid.UUID, req SetProductAttributesRequest) ([]ProductAttributeValueResponse, error) {
	product, err := s.productRepo.FindByIDForSeller(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	raw := make(map[uuid.UUID]string, len(req.Values))
	for _, v := range req.Values {
		if _, dup := raw[v.AttributeID]; dup {
			return nil, shared.InvalidArgument("Attribute %s is given more than once", v.AttributeID)
		}
		raw[v.AttributeID] = v.Value
	}

	// Attributes that exist but do not apply are reported separately from unknown ids
	applicable, err := s.attributeRepo.FindApplicable(ctx, product.CategoryID)
	if err != nil {
		return nil, err
	}
	known := make([]attribute.Attribute, 0, len(applicable)+len(raw))
	known = append(known, applicable...)
	for attrID := range raw {
		if containsAttribute(applicable, attrID) {
			continue
		}
		a, err := s.attributeRepo.FindByID(ctx, attrID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.InvalidArgument("Unknown attribute %s", attrID)
			}
			return nil, err
		}
		known = append(known, *a)
	}

	values, err := attribute.ProductAttributes(product.ID, product.CategoryID, known, raw)
	if err != nil {
		return nil, err
	}
	if err := s.valueRepo.ReplaceForProduct(ctx, product.ID, values); err != nil {
		return nil, err
	}

	s.logger.Info("Product attributes set",
		zap.String("product_id", product.ID.String()),
		zap.Int("values", len(values)))
	return toValueResponses(values, known), nil
}

func (s *AttributeService) validateCategories(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.InvalidArgument("Unknown product category: %s", id)
			}
			return err
		}
	}
	return nil
}

func containsAttribute(attributes []attribute.Attribute, id uuid.UUID) bool {
	for i := range attributes {
		if attributes[i].ID == id {
			return true
		}
	}
	return false
}

func toValueResponses(values []attribute.Value, attributes []attribute.Attribute) []ProductAttributeValueResponse {
	byID := make(map[uuid.UUID]*attribute.Attribute, len(attributes))
	for i := range attributes {
		byID[attributes[i].ID] = &attributes[i]
	}
	out := make([]ProductAttributeValueResponse, len(values))
	for i, v := range values {
		out[i] = ProductAttributeValueResponse{
			ID:          v.ID,
			ProductID:   v.ProductID,
			AttributeID: v.AttributeID,
			Value:       v.Value,
		}
		if a, ok := byID[v.AttributeID]; ok {
			out[i].Name = a.Name
			out[i].Handle = a.Handle
		}
	}
	return out
}
