package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/marketplace/backend/internal/application/catalog"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ProductService is the product use case set
type ProductService interface {
	Create(ctx context.Context, sellerID uuid.UUID, req appcatalog.CreateProductRequest) (*appcatalog.ProductResponse, error)
	GetForSeller(ctx context.Context, sellerID, id uuid.UUID) (*appcatalog.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appcatalog.ProductResponse, error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f appcatalog.ProductListFilter) (shared.ListResult[appcatalog.ProductResponse], error)
	List(ctx context.Context, query appshared.ListQuery, f appcatalog.ProductListFilter) (shared.ListResult[appcatalog.ProductResponse], error)
	ListStore(ctx context.Context, query appshared.ListQuery, f appcatalog.ProductListFilter) (shared.ListResult[appcatalog.ProductResponse], error)
	GetStore(ctx context.Context, id uuid.UUID) (*appcatalog.ProductResponse, error)
	Update(ctx context.Context, sellerID, id uuid.UUID, req appcatalog.UpdateProductRequest) (*appcatalog.ProductResponse, error)
	Delete(ctx context.Context, sellerID, id uuid.UUID) error
	Review(ctx context.Context, id uuid.UUID, req appcatalog.ReviewProductRequest) (*appcatalog.ProductResponse, error)
}

// CategoryService manages product types and categories
type CategoryService interface {
	CreateType(ctx context.Context, req appcatalog.ProductTypeRequest) (*appcatalog.ProductTypeResponse, error)
	GetType(ctx context.Context, id uuid.UUID) (*appcatalog.ProductTypeResponse, error)
	ListTypes(ctx context.Context, query appshared.ListQuery) (shared.ListResult[appcatalog.ProductTypeResponse], error)
	UpdateType(ctx context.Context, id uuid.UUID, req appcatalog.ProductTypeRequest) (*appcatalog.ProductTypeResponse, error)
	DeleteType(ctx context.Context, id uuid.UUID) error
	CreateCategory(ctx context.Context, req appcatalog.CreateCategoryRequest) (*appcatalog.CategoryResponse, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*appcatalog.CategoryResponse, error)
	ListCategories(ctx context.Context, query appshared.ListQuery, f appcatalog.CategoryListFilter) (shared.ListResult[appcatalog.CategoryResponse], error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req appcatalog.UpdateCategoryRequest) (*appcatalog.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// ProductHandler serves products on all three surfaces
type ProductHandler struct {
	BaseHandler
	productService ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// VendorList handles GET /vendor/products
func (h *ProductHandler) VendorList(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var query appshared.ListQuery
	var filter appcatalog.ProductListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.productService.ListForSeller(c.Request.Context(), actor.SellerID, query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "products", result)
}

// VendorCreate handles POST /vendor/products
func (h *ProductHandler) VendorCreate(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var req appcatalog.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), actor.SellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "product", product)
}

// VendorGet handles GET /vendor/products/:id
func (h *ProductHandler) VendorGet(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetForSeller(c.Request.Context(), actor.SellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "product", product)
}

// VendorUpdate handles POST /vendor/products/:id
func (h *ProductHandler) VendorUpdate(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), actor.SellerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "product", product)
}

// VendorDelete handles DELETE /vendor/products/:id
func (h *ProductHandler) VendorDelete(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), actor.SellerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, id, "product")
}

// AdminList handles GET /admin/products
func (h *ProductHandler) AdminList(c *gin.Context) {
	var query appshared.ListQuery
	var filter appcatalog.ProductListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.productService.List(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "products", result)
}

// AdminGet handles GET /admin/products/:id
func (h *ProductHandler) AdminGet(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "product", product)
}

// Review handles POST /admin/products/:id/status
func (h *ProductHandler) Review(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.ReviewProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.productService.Review(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "product", product)
}

// StoreList handles GET /store/products: published products of active sellers
func (h *ProductHandler) StoreList(c *gin.Context) {
	var query appshared.ListQuery
	var filter appcatalog.ProductListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.productService.ListStore(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "products", result)
}

// StoreGet handles GET /store/products/:id
func (h *ProductHandler) StoreGet(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetStore(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "product", product)
}

// CategoryHandler serves the admin managed product types and categories
type CategoryHandler struct {
	BaseHandler
	categoryService CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListTypes handles GET /admin/product-types
func (h *CategoryHandler) ListTypes(c *gin.Context) {
	var query appshared.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	result, err := h.categoryService.ListTypes(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "product_types", result)
}

// CreateType handles POST /admin/product-types
func (h *CategoryHandler) CreateType(c *gin.Context) {
	var req appcatalog.ProductTypeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	productType, err := h.categoryService.CreateType(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "product_type", productType)
}

// GetType handles GET /admin/product-types/:id
func (h *CategoryHandler) GetType(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	productType, err := h.categoryService.GetType(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "product_type", productType)
}

// UpdateType handles POST /admin/product-types/:id
func (h *CategoryHandler) UpdateType(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.ProductTypeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	productType, err := h.categoryService.UpdateType(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "product_type", productType)
}

// DeleteType handles DELETE /admin/product-types/:id
func (h *CategoryHandler) DeleteType(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.DeleteType(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, id, "product_type")
}

// ListCategories handles GET /admin/product-categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var query appshared.ListQuery
	var filter appcatalog.CategoryListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.categoryService.ListCategories(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "product_categories", result)
}

// CreateCategory handles POST /admin/product-categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req appcatalog.CreateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "product_category", category)
}

// GetCategory handles GET /admin/product-categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "product_category", category)
}

// UpdateCategory handles POST /admin/product-categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.UpdateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "product_category", category)
}

// DeleteCategory handles DELETE /admin/product-categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, id, "product_category")
}
