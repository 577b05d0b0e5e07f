package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const maxHandleAttempts = 20

// ProductService handles vendor product management, admin review and the
// storefront product listing
type ProductService struct {
	productRepo  catalog.ProductRepository
	typeRepo     catalog.ProductTypeRepository
	categoryRepo catalog.CategoryRepository
	sellerRepo   seller.SellerRepository
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	typeRepo catalog.ProductTypeRepository,
	categoryRepo catalog.CategoryRepository,
	sellerRepo seller.SellerRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		typeRepo:     typeRepo,
		categoryRepo: categoryRepo,
		sellerRepo:   sellerRepo,
		logger:       logger,
	}
}

// Create creates a product for a seller
func (s *ProductService) Create(ctx context.Context, sellerID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.ensureSellerCanOperate(ctx, sellerID); err != nil {
		return nil, err
	}
	if err := s.validateClassification(ctx, req.TypeID, req.CategoryID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(sellerID, req.Title, req.CurrencyCode, req.Price)
	if err != nil {
		return nil, err
	}
	description, thumbnail, inventory := req.Description, req.Thumbnail, req.InventoryQuantity
	if err := product.Update(catalog.ProductUpdate{
		Description:       &description,
		TypeID:            req.TypeID,
		CategoryID:        req.CategoryID,
		Thumbnail:         &thumbnail,
		InventoryQuantity: &inventory,
	}); err != nil {
		return nil, err
	}
	if req.Status == catalog.ProductStatusProposed.String() {
		if err := product.ChangeStatus(catalog.ProductStatusProposed, ""); err != nil {
			return nil, err
		}
	}

	if err := s.saveNew(ctx, product); err != nil {
		return nil, err
	}
	product.ClearDomainEvents()

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", sellerID.String()))
	resp := ToProductResponse(product)
	return &resp, nil
}

// saveNew stores a new product, numbering its handle while it collides
// with another product's
func (s *ProductService) saveNew(ctx context.Context, product *catalog.Product) error {
	err := s.productRepo.Save(ctx, product)
	for n := 2; errors.Is(err, shared.ErrDuplicate) && n <= maxHandleAttempts; n++ {
		product.RenumberHandle(n)
		err = s.productRepo.Save(ctx, product)
	}
	return err
}

// GetForSeller retrieves a product owned by the seller
func (s *ProductService) GetForSeller(ctx context.Context, sellerID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForSeller(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves any product for the admin panel
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListForSeller lists the seller's own products
func (s *ProductService) ListForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f ProductListFilter) (shared.ListResult[ProductResponse], error) {
	f.SellerID = sellerID.String()
	return s.list(ctx, query, f, false)
}

// List lists products of every seller for the admin panel
func (s *ProductService) List(ctx context.Context, query appshared.ListQuery, f ProductListFilter) (shared.ListResult[ProductResponse], error) {
	return s.list(ctx, query, f, false)
}

// ListStore lists published products of active sellers
func (s *ProductService) ListStore(ctx context.Context, query appshared.ListQuery, f ProductListFilter) (shared.ListResult[ProductResponse], error) {
	f.Status = ""
	return s.list(ctx, query, f, true)
}

// GetStore retrieves a product visible in the storefront
func (s *ProductService) GetStore(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsPublished() {
		return nil, shared.NotFound("Product", id)
	}
	sel, err := s.sellerRepo.FindByID(ctx, product.SellerID)
	if err != nil {
		return nil, err
	}
	if !sel.IsActive() {
		return nil, shared.NotFound("Product", id)
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Update changes a product owned by the seller
func (s *ProductService) Update(ctx context.Context, sellerID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if err := s.ensureSellerCanOperate(ctx, sellerID); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForSeller(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateClassification(ctx, req.TypeID, req.CategoryID); err != nil {
		return nil, err
	}

	if err := product.Update(catalog.ProductUpdate{
		Title:             req.Title,
		Description:       req.Description,
		TypeID:            req.TypeID,
		CategoryID:        req.CategoryID,
		Thumbnail:         req.Thumbnail,
		CurrencyCode:      req.CurrencyCode,
		Price:             req.Price,
		InventoryQuantity: req.InventoryQuantity,
	}); err != nil {
		return nil, err
	}
	if req.Status != nil && *req.Status != product.Status.String() {
		target := catalog.ProductStatus(*req.Status)
		if target != catalog.ProductStatusDraft && target != catalog.ProductStatusProposed {
			return nil, shared.NotAllowed("Vendors can only move products between draft and proposed")
		}
		if err := product.ChangeStatus(target, ""); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	product.ClearDomainEvents()

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product owned by the seller
func (s *ProductService) Delete(ctx context.Context, sellerID, id uuid.UUID) error {
	if err := s.ensureSellerCanOperate(ctx, sellerID); err != nil {
		return err
	}
	product, err := s.productRepo.FindByIDForSeller(ctx, sellerID, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()), zap.String("seller_id", sellerID.String()))
	return nil
}

// Review publishes, rejects or returns a product to draft
func (s *ProductService) Review(ctx context.Context, id uuid.UUID, req ReviewProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target := catalog.ProductStatus(req.Status)
	if target == catalog.ProductStatusRejected && strings.TrimSpace(req.Reason) == "" {
		return nil, shared.InvalidArgument("A reason is required to reject a product")
	}
	if err := product.ChangeStatus(target, req.Reason); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	product.ClearDomainEvents()

	s.logger.Info("Product reviewed",
		zap.String("product_id", id.String()),
		zap.String("status", product.Status.String()))
	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) list(ctx context.Context, query appshared.ListQuery, f ProductListFilter, storefront bool) (shared.ListResult[ProductResponse], error) {
	filter := query.Filter().With("status", f.Status)
	for key, raw := range map[string]string{"seller_id": f.SellerID, "type_id": f.TypeID, "category_id": f.CategoryID} {
		id, err := appshared.ParseOptionalUUID(key, raw)
		if err != nil {
			return shared.ListResult[ProductResponse]{}, err
		}
		if id != nil {
			filter = filter.With(key, *id)
		}
	}
	if storefront {
		filter = filter.With("published_only", true).With("active_sellers", true)
	}

	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[ProductResponse]{}, err
	}
	return appshared.MapList(products, total, filter, ToProductResponse), nil
}

func (s *ProductService) ensureSellerCanOperate(ctx context.Context, sellerID uuid.UUID) error {
	sel, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return err
	}
	return sel.EnsureCanOperate()
}

func (s *ProductService) validateClassification(ctx context.Context, typeID, categoryID *uuid.UUID) error {
	if typeID != nil {
		if _, err := s.typeRepo.FindByID(ctx, *typeID); err != nil {
			return invalidReference(err, "product type", *typeID)
		}
	}
	if categoryID != nil {
		category, err := s.categoryRepo.FindByID(ctx, *categoryID)
		if err != nil {
			return invalidReference(err, "product category", *categoryID)
		}
		if !category.IsActive {
			return shared.InvalidArgument("Product category %s is inactive", category.Handle)
		}
	}
	return nil
}

// invalidReference turns a missing referenced entity into invalid_data
func invalidReference(err error, what string, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.InvalidArgument("Unknown %s: %s", what, id)
	}
	return err
}
