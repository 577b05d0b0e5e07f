package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/wishlist"
	"go.uber.org/zap"
)

// WishlistService manages customer wishlists
type WishlistService struct {
	wishlists wishlist.Repository
	products  catalog.ProductRepository
	sellers   seller.SellerRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewWishlistService creates a new WishlistService
func NewWishlistService(
	wishlists wishlist.Repository,
	products catalog.ProductRepository,
	sellers seller.SellerRepository,
	logger *zap.Logger,
) *WishlistService {
	return &WishlistService{
		wishlists: wishlists,
		products:  products,
		sellers:   sellers,
		logger:    logger,
		now:       time.Now,
	}
}

// Get returns the customer's wishlist with product and seller details.
// Customers without a wishlist get an empty one.
func (s *WishlistService) Get(ctx context.Context, customerID uuid.UUID) (*WishlistResponse, error) {
	w, err := s.find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, w)
}

// Add saves a published product. Saving a product twice is a no-op.
func (s *WishlistService) Add(ctx context.Context, customerID uuid.UUID, req AddItemRequest) (*WishlistResponse, error) {
	product, err := s.products.FindByID(ctx, req.ReferenceID)
	if err != nil {
		return nil, err
	}
	if !product.IsPublished() {
		return nil, shared.NotAllowed("Product %s is not available", product.ID)
	}

	w, err := s.find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if w.Add(product.ID, s.now()) {
		if err := s.wishlists.Save(ctx, w); err != nil {
			return nil, err
		}
		s.logger.Debug("Product added to wishlist",
			zap.String("customer_id", customerID.String()),
			zap.String("product_id", product.ID.String()))
	}
	return s.toResponse(ctx, w)
}

// Remove deletes a product from the wishlist
func (s *WishlistService) Remove(ctx context.Context, customerID, productID uuid.UUID) (*WishlistResponse, error) {
	w, err := s.wishlists.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := w.Remove(productID); err != nil {
		return nil, err
	}
	if err := s.wishlists.Save(ctx, w); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, w)
}

func (s *WishlistService) find(ctx context.Context, customerID uuid.UUID) (*wishlist.Wishlist, error) {
	w, err := s.wishlists.FindByCustomer(ctx, customerID)
	if errors.Is(err, shared.ErrNotFound) {
		return wishlist.NewWishlist(customerID), nil
	}
	return w, err
}

// toResponse loads products and sellers in one query each. Products deleted
// since they were saved are left out.
func (s *WishlistService) toResponse(ctx context.Context, w *wishlist.Wishlist) (*WishlistResponse, error) {
	ids := w.ProductIDs()
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	sellerIDs := make([]uuid.UUID, 0, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
		sellerIDs = append(sellerIDs, products[i].SellerID)
	}
	sellers, err := s.sellers.FindByIDs(ctx, sellerIDs)
	if err != nil {
		return nil, err
	}
	sellerByID := make(map[uuid.UUID]*seller.Seller, len(sellers))
	for i := range sellers {
		sellerByID[sellers[i].ID] = &sellers[i]
	}
	added := make(map[uuid.UUID]time.Time, len(w.Items))
	for _, item := range w.Items {
		added[item.ProductID] = item.CreatedAt
	}

	resp := &WishlistResponse{
		ID:         w.ID,
		CustomerID: w.CustomerID,
		Items:      make([]ItemResponse, 0, len(ids)),
		UpdatedAt:  w.UpdatedAt,
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		item := ItemResponse{
			ProductID:    p.ID,
			Title:        p.Title,
			Handle:       p.Handle,
			Thumbnail:    p.Thumbnail,
			CurrencyCode: p.CurrencyCode,
			Price:        p.Price,
			Available:    p.IsPublished(),
			CreatedAt:    added[id],
		}
		if sel, ok := sellerByID[p.SellerID]; ok {
			item.Seller = &SellerSummary{ID: sel.ID, Name: sel.Name, Handle: sel.Handle}
			item.Available = item.Available && sel.StoreStatus == seller.StoreStatusActive
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}
