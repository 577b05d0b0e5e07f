package pricelist

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/pricelist"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// PriceListService manages seller price lists and resolves effective prices
type PriceListService struct {
	listRepo    pricelist.PriceListRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewPriceListService creates a new PriceListService
func NewPriceListService(listRepo pricelist.PriceListRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *PriceListService {
	return &PriceListService{listRepo: listRepo, productRepo: productRepo, logger: logger}
}

// Create creates a price list with optional initial prices
func (s *PriceListService) Create(ctx context.Context, sellerID uuid.UUID, req CreatePriceListRequest) (*PriceListResponse, error) {
	list, err := pricelist.NewPriceList(sellerID, req.Title, pricelist.Type(req.Type))
	if err != nil {
		return nil, err
	}
	description := req.Description
	update := pricelist.PriceListUpdate{Description: &description, StartsAt: req.StartsAt, EndsAt: req.EndsAt}
	if req.Status != "" {
		status := pricelist.Status(req.Status)
		update.Status = &status
	}
	if err := list.Update(update); err != nil {
		return nil, err
	}
	for _, p := range req.Prices {
		if err := s.addPrice(ctx, list, p); err != nil {
			return nil, err
		}
	}

	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, err
	}
	s.logger.Info("Price list created",
		zap.String("price_list_id", list.ID.String()),
		zap.String("seller_id", sellerID.String()),
		zap.Int("prices", len(list.Prices)))
	resp := ToPriceListResponse(list)
	return &resp, nil
}

// GetForSeller retrieves a price list owned by the seller
func (s *PriceListService) GetForSeller(ctx context.Context, sellerID, id uuid.UUID) (*PriceListResponse, error) {
	list, err := s.findForSeller(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPriceListResponse(list)
	return &resp, nil
}

// ListForSeller lists the seller's price lists
func (s *PriceListService) ListForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f PriceListFilter) (shared.ListResult[PriceListResponse], error) {
	f.SellerID = sellerID.String()
	return s.List(ctx, query, f)
}

// List lists price lists of every seller for the admin panel
func (s *PriceListService) List(ctx context.Context, query appshared.ListQuery, f PriceListFilter) (shared.ListResult[PriceListResponse], error) {
	filter := query.Filter().With("status", f.Status).With("type", f.Type)
	sellerID, err := appshared.ParseOptionalUUID("seller_id", f.SellerID)
	if err != nil {
		return shared.ListResult[PriceListResponse]{}, err
	}
	if sellerID != nil {
		filter = filter.With("seller_id", *sellerID)
	}

	lists, total, err := s.listRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[PriceListResponse]{}, err
	}
	return appshared.MapList(lists, total, filter, ToPriceListResponse), nil
}

// Update changes a price list owned by the seller
func (s *PriceListService) Update(ctx context.Context, sellerID, id uuid.UUID, req UpdatePriceListRequest) (*PriceListResponse, error) {
	list, err := s.findForSeller(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	update := pricelist.PriceListUpdate{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if req.Status != nil {
		status := pricelist.Status(*req.Status)
		update.Status = &status
	}
	if req.Type != nil {
		typ := pricelist.Type(*req.Type)
		update.Type = &typ
	}
	if err := list.Update(update); err != nil {
		return nil, err
	}
	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, err
	}
	resp := ToPriceListResponse(list)
	return &resp, nil
}

// Delete removes a price list owned by the seller
func (s *PriceListService) Delete(ctx context.Context, sellerID, id uuid.UUID) error {
	if _, err := s.findForSeller(ctx, sellerID, id); err != nil {
		return err
	}
	return s.listRepo.Delete(ctx, id)
}

// AddPrices appends price rows to a price list owned by the seller
func (s *PriceListService) AddPrices(ctx context.Context, sellerID, id uuid.UUID, prices []PriceRequest) (*PriceListResponse, error) {
	list, err := s.findForSeller(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	for _, p := range prices {
		if err := s.addPrice(ctx, list, p); err != nil {
			return nil, err
		}
	}
	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, err
	}
	resp := ToPriceListResponse(list)
	return &resp, nil
}

// RemovePrice deletes one price row
func (s *PriceListService) RemovePrice(ctx context.Context, sellerID, id, priceID uuid.UUID) (*PriceListResponse, error) {
	list, err := s.findForSeller(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	if err := list.RemovePrice(priceID); err != nil {
		return nil, err
	}
	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, err
	}
	resp := ToPriceListResponse(list)
	return &resp, nil
}

// PriceLine asks for the unit price of a quantity of one product
type PriceLine struct {
	Product  *catalog.Product
	Quantity int
}

// EffectivePrices resolves the unit price of every line at now, in currency.
// A product without a base price or list price in that currency is invalid.
func (s *PriceListService) EffectivePrices(ctx context.Context, currency string, lines []PriceLine, now time.Time) ([]pricelist.EffectivePrice, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.Product.ID)
	}
	lists, err := s.listRepo.FindEffectiveForProducts(ctx, ids, now)
	if err != nil {
		return nil, err
	}

	currency = valueobject.NormalizeCurrency(currency)
	out := make([]pricelist.EffectivePrice, len(lines))
	for i, l := range lines {
		price := pricelist.ResolvePrice(l.Product.ID, l.Product.Price, l.Product.CurrencyCode, currency, l.Quantity, sellerLists(lists, l.Product.SellerID), now)
		if price.Source == pricelist.PriceSourceBase && l.Product.CurrencyCode != currency {
			return nil, shared.InvalidArgument("Product %s is not priced in %s", l.Product.Title, strings.ToUpper(currency))
		}
		out[i] = price
	}
	return out, nil
}

// EffectivePrice resolves the unit price of a single product
func (s *PriceListService) EffectivePrice(ctx context.Context, product *catalog.Product, currency string, quantity int, now time.Time) (pricelist.EffectivePrice, error) {
	prices, err := s.EffectivePrices(ctx, currency, []PriceLine{{Product: product, Quantity: quantity}}, now)
	if err != nil {
		return pricelist.EffectivePrice{}, err
	}
	return prices[0], nil
}

func (s *PriceListService) addPrice(ctx context.Context, list *pricelist.PriceList, req PriceRequest) error {
	if _, err := s.productRepo.FindByIDForSeller(ctx, list.SellerID, req.ProductID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.InvalidArgument("Product %s does not belong to the seller", req.ProductID)
		}
		return err
	}
	_, err := list.AddPrice(req.ProductID, req.CurrencyCode, req.Amount, req.MinQuantity, req.MaxQuantity)
	return err
}

func (s *PriceListService) findForSeller(ctx context.Context, sellerID, id uuid.UUID) (*pricelist.PriceList, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if list.SellerID != sellerID {
		return nil, shared.NotFound("PriceList", id)
	}
	return list, nil
}

func sellerLists(lists []pricelist.PriceList, sellerID uuid.UUID) []pricelist.PriceList {
	out := make([]pricelist.PriceList, 0, len(lists))
	for _, l := range lists {
		if l.SellerID == sellerID {
			out = append(out, l)
		}
	}
	return out
}
