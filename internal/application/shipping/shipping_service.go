package shipping

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shipping"
	"go.uber.org/zap"
)

// ShippingService manages seller shipping profiles and options
type ShippingService struct {
	profileRepo shipping.ProfileRepository
	optionRepo  shipping.OptionRepository
	sellerRepo  seller.SellerRepository
	logger      *zap.Logger
}

// NewShippingService creates a new ShippingService
func NewShippingService(
	profileRepo shipping.ProfileRepository,
	optionRepo shipping.OptionRepository,
	sellerRepo seller.SellerRepository,
	logger *zap.Logger,
) *ShippingService {
	return &ShippingService{
		profileRepo: profileRepo,
		optionRepo:  optionRepo,
		sellerRepo:  sellerRepo,
		logger:      logger,
	}
}

// CreateProfile creates a custom shipping profile
func (s *ShippingService) CreateProfile(ctx context.Context, sellerID uuid.UUID, req ShippingProfileRequest) (*ShippingProfileResponse, error) {
	profile, err := shipping.NewShippingProfile(sellerID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, sellerID, profile.Name); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	resp := ToShippingProfileResponse(profile)
	return &resp, nil
}

// EnsureDefaultProfile creates the seller's default profile unless it exists.
// It returns true when a profile was created.
func (s *ShippingService) EnsureDefaultProfile(ctx context.Context, sellerID uuid.UUID) (bool, error) {
	filter := shared.NewFilter(0, 1, "", "").
		With("seller_id", sellerID).
		With("type", string(shipping.ProfileTypeDefault))
	_, total, err := s.profileRepo.FindAll(ctx, filter)
	if err != nil {
		return false, err
	}
	if total > 0 {
		return false, nil
	}
	if err := s.profileRepo.Save(ctx, shipping.NewDefaultShippingProfile(sellerID)); err != nil {
		return false, err
	}
	s.logger.Info("Default shipping profile created", zap.String("seller_id", sellerID.String()))
	return true, nil
}

// GetProfile retrieves a shipping profile owned by the seller
func (s *ShippingService) GetProfile(ctx context.Context, sellerID, id uuid.UUID) (*ShippingProfileResponse, error) {
	profile, err := s.findProfile(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToShippingProfileResponse(profile)
	return &resp, nil
}

// ListProfilesForSeller lists the seller's shipping profiles
func (s *ShippingService) ListProfilesForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f ShippingProfileFilter) (shared.ListResult[ShippingProfileResponse], error) {
	f.SellerID = sellerID.String()
	return s.ListProfiles(ctx, query, f)
}

// ListProfiles lists shipping profiles of every seller for the admin panel
func (s *ShippingService) ListProfiles(ctx context.Context, query appshared.ListQuery, f ShippingProfileFilter) (shared.ListResult[ShippingProfileResponse], error) {
	filter := query.Filter().With("type", f.Type)
	sellerID, err := appshared.ParseOptionalUUID("seller_id", f.SellerID)
	if err != nil {
		return shared.ListResult[ShippingProfileResponse]{}, err
	}
	if sellerID != nil {
		filter = filter.With("seller_id", *sellerID)
	}
	profiles, total, err := s.profileRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[ShippingProfileResponse]{}, err
	}
	return appshared.MapList(profiles, total, filter, ToShippingProfileResponse), nil
}

// UpdateProfile renames a shipping profile
func (s *ShippingService) UpdateProfile(ctx context.Context, sellerID, id uuid.UUID, req ShippingProfileRequest) (*ShippingProfileResponse, error) {
	profile, err := s.findProfile(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(req.Name); name != profile.Name {
		if err := s.ensureUniqueName(ctx, sellerID, name); err != nil {
			return nil, err
		}
	}
	if err := profile.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	resp := ToShippingProfileResponse(profile)
	return &resp, nil
}

// DeleteProfile removes a custom profile without options
func (s *ShippingService) DeleteProfile(ctx context.Context, sellerID, id uuid.UUID) error {
	profile, err := s.findProfile(ctx, sellerID, id)
	if err != nil {
		return err
	}
	count, err := s.optionRepo.CountByProfile(ctx, id)
	if err != nil {
		return err
	}
	if err := profile.EnsureDeletable(count); err != nil {
		return err
	}
	return s.profileRepo.Delete(ctx, id)
}

// CreateOption creates a shipping option in one of the seller's profiles
func (s *ShippingService) CreateOption(ctx context.Context, sellerID uuid.UUID, req CreateShippingOptionRequest) (*ShippingOptionResponse, error) {
	profile, err := s.findProfile(ctx, sellerID, req.ShippingProfileID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.InvalidArgument("Unknown shipping profile: %s", req.ShippingProfileID)
		}
		return nil, err
	}
	option, err := shipping.NewShippingOption(profile, req.Name, req.CurrencyCode, req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.optionRepo.Save(ctx, option); err != nil {
		return nil, err
	}
	s.logger.Info("Shipping option created",
		zap.String("shipping_option_id", option.ID.String()),
		zap.String("seller_id", sellerID.String()))
	resp := ToShippingOptionResponse(option)
	return &resp, nil
}

// GetOption retrieves a shipping option owned by the seller
func (s *ShippingService) GetOption(ctx context.Context, sellerID, id uuid.UUID) (*ShippingOptionResponse, error) {
	option, err := s.findOption(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToShippingOptionResponse(option)
	return &resp, nil
}

// ListOptionsForSeller lists the seller's shipping options
func (s *ShippingService) ListOptionsForSeller(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery, f ShippingOptionFilter) (shared.ListResult[ShippingOptionResponse], error) {
	f.SellerID = sellerID.String()
	return s.listOptions(ctx, query, f)
}

// ListStoreOptions lists the shipping options of an active seller
func (s *ShippingService) ListStoreOptions(ctx context.Context, query appshared.ListQuery, f ShippingOptionFilter) (shared.ListResult[ShippingOptionResponse], error) {
	sellerID, err := appshared.ParseOptionalUUID("seller_id", f.SellerID)
	if err != nil {
		return shared.ListResult[ShippingOptionResponse]{}, err
	}
	if sellerID == nil {
		return shared.ListResult[ShippingOptionResponse]{}, shared.InvalidArgument("seller_id is required")
	}
	sel, err := s.sellerRepo.FindByID(ctx, *sellerID)
	if err != nil {
		return shared.ListResult[ShippingOptionResponse]{}, err
	}
	if !sel.IsActive() {
		return shared.ListResult[ShippingOptionResponse]{}, shared.NotFound("Seller", *sellerID)
	}
	return s.listOptions(ctx, query, f)
}

// UpdateOption changes a shipping option owned by the seller
func (s *ShippingService) UpdateOption(ctx context.Context, sellerID, id uuid.UUID, req UpdateShippingOptionRequest) (*ShippingOptionResponse, error) {
	option, err := s.findOption(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	if err := option.Update(shipping.ShippingOptionUpdate{Name: req.Name, Amount: req.Amount}); err != nil {
		return nil, err
	}
	if err := s.optionRepo.Save(ctx, option); err != nil {
		return nil, err
	}
	resp := ToShippingOptionResponse(option)
	return &resp, nil
}

// DeleteOption removes a shipping option owned by the seller
func (s *ShippingService) DeleteOption(ctx context.Context, sellerID, id uuid.UUID) error {
	if _, err := s.findOption(ctx, sellerID, id); err != nil {
		return err
	}
	return s.optionRepo.Delete(ctx, id)
}

func (s *ShippingService) listOptions(ctx context.Context, query appshared.ListQuery, f ShippingOptionFilter) (shared.ListResult[ShippingOptionResponse], error) {
	filter := query.Filter().With("currency_code", strings.ToLower(f.CurrencyCode))
	for key, raw := range map[string]string{"seller_id": f.SellerID, "shipping_profile_id": f.ShippingProfileID} {
		id, err := appshared.ParseOptionalUUID(key, raw)
		if err != nil {
			return shared.ListResult[ShippingOptionResponse]{}, err
		}
		if id != nil {
			filter = filter.With(key, *id)
		}
	}
	options, total, err := s.optionRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[ShippingOptionResponse]{}, err
	}
	return appshared.MapList(options, total, filter, ToShippingOptionResponse), nil
}

func (s *ShippingService) ensureUniqueName(ctx context.Context, sellerID uuid.UUID, name string) error {
	exists, err := s.profileRepo.ExistsByName(ctx, sellerID, name)
	if err != nil {
		return err
	}
	if exists {
		return shared.Duplicate("Shipping profile %q already exists", name)
	}
	return nil
}

func (s *ShippingService) findProfile(ctx context.Context, sellerID, id uuid.UUID) (*shipping.ShippingProfile, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.SellerID != sellerID {
		return nil, shared.NotFound("ShippingProfile", id)
	}
	return profile, nil
}

func (s *ShippingService) findOption(ctx context.Context, sellerID, id uuid.UUID) (*shipping.ShippingOption, error) {
	option, err := s.optionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if option.SellerID != sellerID {
		return nil, shared.NotFound("ShippingOption", id)
	}
	return option, nil
}
