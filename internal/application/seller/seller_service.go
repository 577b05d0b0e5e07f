package seller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shipping"
	"go.uber.org/zap"
)

// MaxUploadSize is the largest file accepted by Upload
const MaxUploadSize = 10 << 20

var uploadContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Repositories groups the repositories used by the seller service
type Repositories struct {
	Sellers         seller.SellerRepository
	Members         seller.MemberRepository
	Invites         seller.InviteRepository
	Onboardings     seller.OnboardingRepository
	Products        catalog.ProductRepository
	ShippingOptions shipping.OptionRepository
	PayoutAccounts  payout.AccountRepository
}

// Config contains the marketplace settings the seller service depends on
type Config struct {
	ApprovalRequired bool
}

// SellerService handles seller registration, profile, members and onboarding
type SellerService struct {
	repos   Repositories
	auth    *identityapp.AuthService
	storage appshared.ObjectStorage
	metrics appshared.BusinessMetrics
	config  Config
	logger  *zap.Logger
}

// NewSellerService creates a new SellerService
func NewSellerService(
	repos Repositories,
	auth *identityapp.AuthService,
	storage appshared.ObjectStorage,
	metrics appshared.BusinessMetrics,
	config Config,
	logger *zap.Logger,
) *SellerService {
	return &SellerService{
		repos:   repos,
		auth:    auth,
		storage: storage,
		metrics: appshared.MetricsOrNoop(metrics),
		config:  config,
		logger:  logger,
	}
}

// Create registers a seller with its owner member and login credentials
func (s *SellerService) Create(ctx context.Context, req CreateSellerRequest) (*CreateSellerResult, error) {
	sel, err := seller.NewSeller(req.Name, req.Email, !s.config.ApprovalRequired)
	if err != nil {
		return nil, err
	}

	exists, err := s.repos.Sellers.ExistsByHandle(ctx, sel.Handle)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.Duplicate("Seller with handle %s already exists", sel.Handle)
	}
	if err := identity.ValidatePassword(req.Member.Password); err != nil {
		return nil, err
	}
	if err := s.auth.EnsureEmailAvailable(ctx, identity.ActorTypeSeller, req.Member.Email); err != nil {
		return nil, err
	}

	if req.Phone != "" || req.Description != "" {
		phone, description := req.Phone, req.Description
		if err := sel.UpdateDetails(seller.SellerUpdate{Phone: &phone, Description: &description}); err != nil {
			return nil, err
		}
	}

	owner, err := seller.NewMember(sel.ID, seller.MemberRoleOwner, req.Member.Name, req.Member.Email)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Sellers.Save(ctx, sel); err != nil {
		return nil, err
	}
	sel.ClearDomainEvents()
	if err := s.repos.Members.Save(ctx, owner); err != nil {
		return nil, err
	}
	if _, err := s.auth.RegisterIdentity(ctx, identity.ActorTypeSeller, owner.ID, owner.Email, req.Member.Password); err != nil {
		return nil, err
	}

	onboarding := seller.NewOnboarding(sel.ID)
	onboarding.Apply(seller.OnboardingFacts{HasStoreInformation: sel.HasStoreInformation()})
	if err := s.repos.Onboardings.Save(ctx, onboarding); err != nil {
		s.logger.Warn("Failed to create onboarding record", zap.String("seller_id", sel.ID.String()), zap.Error(err))
	}

	s.metrics.SellerRegistered(ctx, sel.StoreStatus.String())
	s.logger.Info("Seller registered",
		zap.String("seller_id", sel.ID.String()),
		zap.String("handle", sel.Handle),
		zap.String("store_status", sel.StoreStatus.String()))

	return &CreateSellerResult{
		Seller: ToSellerResponse(sel),
		Member: ToMemberResponse(owner),
	}, nil
}

// GetByID retrieves a seller
func (s *SellerService) GetByID(ctx context.Context, id uuid.UUID) (*SellerResponse, error) {
	sel, err := s.repos.Sellers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSellerResponse(sel)
	return &resp, nil
}

// GetStoreByHandle retrieves an active seller for the storefront
func (s *SellerService) GetStoreByHandle(ctx context.Context, handle string) (*StoreSellerResponse, error) {
	sel, err := s.repos.Sellers.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if !sel.IsActive() {
		return nil, shared.NotFound("Seller", handle)
	}
	resp := ToStoreSellerResponse(sel)
	return &resp, nil
}

// List retrieves sellers for the admin panel
func (s *SellerService) List(ctx context.Context, query appshared.ListQuery, f SellerListFilter) (shared.ListResult[SellerResponse], error) {
	filter := query.Filter().With("store_status", f.StoreStatus)
	sellers, total, err := s.repos.Sellers.FindAll(ctx, filter)
	if err != nil {
		return shared.ListResult[SellerResponse]{}, err
	}
	return appshared.MapList(sellers, total, filter, ToSellerResponse), nil
}

// Update changes the seller profile
func (s *SellerService) Update(ctx context.Context, id uuid.UUID, req UpdateSellerRequest) (*SellerResponse, error) {
	sel, err := s.repos.Sellers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := seller.SellerUpdate{
		Name:        req.Name,
		Description: req.Description,
		Email:       req.Email,
		Phone:       req.Phone,
		Photo:       req.Photo,
		TaxID:       req.TaxID,
	}
	if req.Address != nil {
		update.Address = &seller.Address{
			AddressLine: req.Address.AddressLine,
			City:        req.Address.City,
			PostalCode:  req.Address.PostalCode,
			CountryCode: req.Address.CountryCode,
		}
	}
	if err := sel.UpdateDetails(update); err != nil {
		return nil, err
	}
	if err := s.repos.Sellers.Save(ctx, sel); err != nil {
		return nil, err
	}
	sel.ClearDomainEvents()

	if _, err := s.RecomputeOnboarding(ctx, sel.ID); err != nil {
		s.logger.Warn("Failed to recompute onboarding", zap.String("seller_id", sel.ID.String()), zap.Error(err))
	}

	resp := ToSellerResponse(sel)
	return &resp, nil
}

// SetStoreStatus activates, deactivates or suspends a store
func (s *SellerService) SetStoreStatus(ctx context.Context, id uuid.UUID, req SetStoreStatusRequest) (*SellerResponse, error) {
	sel, err := s.repos.Sellers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sel.ChangeStoreStatus(seller.StoreStatus(req.Status), req.Reason); err != nil {
		return nil, err
	}
	if err := s.repos.Sellers.Save(ctx, sel); err != nil {
		return nil, err
	}
	sel.ClearDomainEvents()

	s.logger.Info("Store status changed",
		zap.String("seller_id", sel.ID.String()),
		zap.String("store_status", sel.StoreStatus.String()),
		zap.String("reason", req.Reason))
	resp := ToSellerResponse(sel)
	return &resp, nil
}

// EnsureCanOperate returns not_allowed when the seller is suspended
func (s *SellerService) EnsureCanOperate(ctx context.Context, sellerID uuid.UUID) error {
	sel, err := s.repos.Sellers.FindByID(ctx, sellerID)
	if err != nil {
		return err
	}
	return sel.EnsureCanOperate()
}

// GetOnboarding returns the seller's setup checklist, computing it on first access
func (s *SellerService) GetOnboarding(ctx context.Context, sellerID uuid.UUID) (*OnboardingResponse, error) {
	o, err := s.repos.Onboardings.FindBySeller(ctx, sellerID)
	if errors.Is(err, shared.ErrNotFound) {
		return s.RecomputeOnboarding(ctx, sellerID)
	}
	if err != nil {
		return nil, err
	}
	resp := ToOnboardingResponse(o)
	return &resp, nil
}

// RecomputeOnboarding derives every checklist flag from the current state
func (s *SellerService) RecomputeOnboarding(ctx context.Context, sellerID uuid.UUID) (*OnboardingResponse, error) {
	sel, err := s.repos.Sellers.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	facts := seller.OnboardingFacts{HasStoreInformation: sel.HasStoreInformation()}
	account, err := s.repos.PayoutAccounts.FindBySeller(ctx, sellerID)
	switch {
	case err == nil:
		facts.PayoutAccountActive = account.IsActive()
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}
	if facts.ShippingOptionsCount, err = s.repos.ShippingOptions.CountBySeller(ctx, sellerID); err != nil {
		return nil, err
	}
	if facts.ProductsCount, err = s.repos.Products.CountBySeller(ctx, sellerID); err != nil {
		return nil, err
	}

	o, err := s.repos.Onboardings.FindBySeller(ctx, sellerID)
	if errors.Is(err, shared.ErrNotFound) {
		o = seller.NewOnboarding(sellerID)
	} else if err != nil {
		return nil, err
	}
	o.Apply(facts)
	if err := s.repos.Onboardings.Save(ctx, o); err != nil {
		return nil, err
	}
	resp := ToOnboardingResponse(o)
	return &resp, nil
}

// Upload stores an image for the seller and returns its public URL
func (s *SellerService) Upload(ctx context.Context, sellerID uuid.UUID, contentType string, size int64, body io.Reader) (*UploadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.CodeUnexpected, "File storage is not configured")
	}
	if size <= 0 {
		return nil, shared.InvalidArgument("File is empty")
	}
	if size > MaxUploadSize {
		return nil, shared.InvalidArgument("File cannot exceed %d MB", MaxUploadSize>>20)
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := uploadContentTypes[contentType]
	if !ok {
		return nil, shared.InvalidArgument("Unsupported file type: %s", contentType)
	}

	key := fmt.Sprintf("sellers/%s/uploads/%s%s", sellerID, uuid.New(), ext)
	url, err := s.storage.Put(ctx, key, io.LimitReader(body, MaxUploadSize), size, contentType)
	if err != nil {
		s.logger.Error("Failed to store upload", zap.String("key", key), zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodeUnexpected, "Failed to store file", err)
	}
	return &UploadResponse{Key: key, URL: url, ContentType: contentType, Size: size}, nil
}

// =============================================================================
// Members and invites
// =============================================================================

// ListMembers lists the members of a seller
func (s *SellerService) ListMembers(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery) (shared.ListResult[MemberResponse], error) {
	filter := query.Filter()
	members, total, err := s.repos.Members.FindBySeller(ctx, sellerID, filter)
	if err != nil {
		return shared.ListResult[MemberResponse]{}, err
	}
	return appshared.MapList(members, total, filter, ToMemberResponse), nil
}

// GetMember retrieves a member of the seller
func (s *SellerService) GetMember(ctx context.Context, sellerID, memberID uuid.UUID) (*MemberResponse, error) {
	m, err := s.findMember(ctx, sellerID, memberID)
	if err != nil {
		return nil, err
	}
	resp := ToMemberResponse(m)
	return &resp, nil
}

// UpdateMember changes a member. Members may edit themselves; role changes
// and edits of other members need owner or admin rights.
func (s *SellerService) UpdateMember(ctx context.Context, sellerID, actorID uuid.UUID, actorRole string, memberID uuid.UUID, req UpdateMemberRequest) (*MemberResponse, error) {
	m, err := s.findMember(ctx, sellerID, memberID)
	if err != nil {
		return nil, err
	}
	role := seller.MemberRole(actorRole)
	if (memberID != actorID || req.Role != nil) && !role.CanManageMembers() {
		return nil, shared.NotAllowed("Only owners and admins can manage members")
	}

	update := seller.MemberUpdate{Name: req.Name, Phone: req.Phone, Photo: req.Photo, Bio: req.Bio}
	if req.Role != nil {
		r := seller.MemberRole(*req.Role)
		update.Role = &r
	}
	if err := m.Update(update); err != nil {
		return nil, err
	}
	if err := s.repos.Members.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMemberResponse(m)
	return &resp, nil
}

// DeleteMember removes a member. The owner cannot be removed.
func (s *SellerService) DeleteMember(ctx context.Context, sellerID uuid.UUID, actorRole string, memberID uuid.UUID) error {
	if !seller.MemberRole(actorRole).CanManageMembers() {
		return shared.NotAllowed("Only owners and admins can remove members")
	}
	m, err := s.findMember(ctx, sellerID, memberID)
	if err != nil {
		return err
	}
	if m.IsOwner() {
		return shared.NotAllowed("The store owner cannot be removed")
	}
	if err := s.repos.Members.Delete(ctx, m.ID); err != nil {
		return err
	}
	s.logger.Info("Member removed", zap.String("seller_id", sellerID.String()), zap.String("member_id", memberID.String()))
	return nil
}

// InviteMember creates an invite token for email
func (s *SellerService) InviteMember(ctx context.Context, sellerID uuid.UUID, actorRole string, req InviteMemberRequest) (*InviteResponse, error) {
	if !seller.MemberRole(actorRole).CanManageMembers() {
		return nil, shared.NotAllowed("Only owners and admins can invite members")
	}
	sel, err := s.repos.Sellers.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if err := sel.EnsureCanOperate(); err != nil {
		return nil, err
	}
	if err := s.auth.EnsureEmailAvailable(ctx, identity.ActorTypeSeller, req.Email); err != nil {
		return nil, err
	}

	invite, err := seller.NewMemberInvite(sellerID, req.Email, seller.MemberRole(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.repos.Invites.Save(ctx, invite); err != nil {
		return nil, err
	}
	invite.ClearDomainEvents()

	resp := ToInviteResponse(invite)
	return &resp, nil
}

// ListInvites lists the invites of a seller
func (s *SellerService) ListInvites(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery) (shared.ListResult[InviteResponse], error) {
	filter := query.Filter()
	invites, total, err := s.repos.Invites.FindBySeller(ctx, sellerID, filter)
	if err != nil {
		return shared.ListResult[InviteResponse]{}, err
	}
	return appshared.MapList(invites, total, filter, ToInviteResponse), nil
}

// AcceptInvite redeems an invite: the member and its credentials are created
func (s *SellerService) AcceptInvite(ctx context.Context, req AcceptInviteRequest) (*MemberResponse, error) {
	invite, err := s.repos.Invites.FindByToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if err := invite.Accept(time.Now()); err != nil {
		return nil, err
	}
	if err := identity.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.auth.EnsureEmailAvailable(ctx, identity.ActorTypeSeller, invite.Email); err != nil {
		return nil, err
	}

	member, err := seller.NewMember(invite.SellerID, invite.Role, req.Name, invite.Email)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Members.Save(ctx, member); err != nil {
		return nil, err
	}
	if _, err := s.auth.RegisterIdentity(ctx, identity.ActorTypeSeller, member.ID, member.Email, req.Password); err != nil {
		return nil, err
	}
	if err := s.repos.Invites.Save(ctx, invite); err != nil {
		return nil, err
	}

	s.logger.Info("Invite accepted",
		zap.String("seller_id", invite.SellerID.String()),
		zap.String("member_id", member.ID.String()))
	resp := ToMemberResponse(member)
	return &resp, nil
}

func (s *SellerService) findMember(ctx context.Context, sellerID, memberID uuid.UUID) (*seller.Member, error) {
	m, err := s.repos.Members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m.SellerID != sellerID {
		return nil, shared.NotFound("Member", memberID)
	}
	return m, nil
}
