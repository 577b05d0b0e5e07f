package seller

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/seller"
)

// =============================================================================
// Seller DTOs
// =============================================================================

// CreateSellerRequest registers a seller together with its owner member
type CreateSellerRequest struct {
	Name        string             `json:"name" binding:"required,min=1,max=200"`
	Email       string             `json:"email" binding:"required,email,max=200"`
	Phone       string             `json:"phone" binding:"max=50"`
	Description string             `json:"description"`
	Member      CreateOwnerRequest `json:"member" binding:"required"`
}

// CreateOwnerRequest describes the owner member created with a seller
type CreateOwnerRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UpdateSellerRequest is a partial update of the seller profile
type UpdateSellerRequest struct {
	Name        *string         `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string         `json:"description"`
	Email       *string         `json:"email" binding:"omitempty,email,max=200"`
	Phone       *string         `json:"phone" binding:"omitempty,max=50"`
	Photo       *string         `json:"photo" binding:"omitempty,max=1000"`
	Address     *AddressRequest `json:"address"`
	TaxID       *string         `json:"tax_id" binding:"omitempty,max=50"`
}

// AddressRequest is the seller's business address
type AddressRequest struct {
	AddressLine string `json:"address_line" binding:"max=500"`
	City        string `json:"city" binding:"max=100"`
	PostalCode  string `json:"postal_code" binding:"max=20"`
	CountryCode string `json:"country_code" binding:"omitempty,len=2"`
}

// SetStoreStatusRequest changes the store status
type SetStoreStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE SUSPENDED"`
	Reason string `json:"reason" binding:"max=500"`
}

// SellerListFilter filters the admin seller list
type SellerListFilter struct {
	StoreStatus string `form:"store_status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
}

// SellerResponse is the API view of a seller
type SellerResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Handle      string     `json:"handle"`
	Description string     `json:"description"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Photo       string     `json:"photo"`
	AddressLine string     `json:"address_line"`
	City        string     `json:"city"`
	PostalCode  string     `json:"postal_code"`
	CountryCode string     `json:"country_code"`
	TaxID       string     `json:"tax_id"`
	StoreStatus string     `json:"store_status"`
	SuspendedAt *time.Time `json:"suspended_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToSellerResponse converts a domain seller
func ToSellerResponse(s *seller.Seller) SellerResponse {
	return SellerResponse{
		ID:          s.ID,
		Name:        s.Name,
		Handle:      s.Handle,
		Description: s.Description,
		Email:       s.Email,
		Phone:       s.Phone,
		Photo:       s.Photo,
		AddressLine: s.Address.AddressLine,
		City:        s.Address.City,
		PostalCode:  s.Address.PostalCode,
		CountryCode: s.Address.CountryCode,
		TaxID:       s.TaxID,
		StoreStatus: s.StoreStatus.String(),
		SuspendedAt: s.SuspendedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// StoreSellerResponse is the public storefront view of a seller
type StoreSellerResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Handle      string    `json:"handle"`
	Description string    `json:"description"`
	Photo       string    `json:"photo"`
	City        string    `json:"city"`
	CountryCode string    `json:"country_code"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToStoreSellerResponse converts a domain seller for the storefront
func ToStoreSellerResponse(s *seller.Seller) StoreSellerResponse {
	return StoreSellerResponse{
		ID:          s.ID,
		Name:        s.Name,
		Handle:      s.Handle,
		Description: s.Description,
		Photo:       s.Photo,
		City:        s.Address.City,
		CountryCode: s.Address.CountryCode,
		CreatedAt:   s.CreatedAt,
	}
}

// CreateSellerResult is returned by vendor registration
type CreateSellerResult struct {
	Seller SellerResponse `json:"seller"`
	Member MemberResponse `json:"member"`
}

// =============================================================================
// Member DTOs
// =============================================================================

// UpdateMemberRequest is a partial update of a member
type UpdateMemberRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=200"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
	Photo *string `json:"photo" binding:"omitempty,max=1000"`
	Bio   *string `json:"bio"`
	Role  *string `json:"role" binding:"omitempty,oneof=owner admin member"`
}

// MemberResponse is the API view of a member
type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	SellerID  uuid.UUID `json:"seller_id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Photo     string    `json:"photo"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToMemberResponse converts a domain member
func ToMemberResponse(m *seller.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		SellerID:  m.SellerID,
		Role:      string(m.Role),
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Photo:     m.Photo,
		Bio:       m.Bio,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// InviteMemberRequest invites an email address to the seller
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email,max=200"`
	Role  string `json:"role" binding:"required,oneof=admin member"`
}

// AcceptInviteRequest redeems an invite token
type AcceptInviteRequest struct {
	Token    string `json:"token" binding:"required"`
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// InviteResponse is the API view of an invite. The token is only
// exposed to the seller that created it.
type InviteResponse struct {
	ID        uuid.UUID `json:"id"`
	SellerID  uuid.UUID `json:"seller_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	Accepted  bool      `json:"accepted"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ToInviteResponse converts a domain invite
func ToInviteResponse(i *seller.MemberInvite) InviteResponse {
	return InviteResponse{
		ID:        i.ID,
		SellerID:  i.SellerID,
		Email:     i.Email,
		Role:      string(i.Role),
		Token:     i.Token,
		Accepted:  i.Accepted,
		ExpiresAt: i.ExpiresAt,
		CreatedAt: i.CreatedAt,
	}
}

// =============================================================================
// Onboarding and upload DTOs
// =============================================================================

// OnboardingResponse is the seller's setup checklist
type OnboardingResponse struct {
	SellerID          uuid.UUID `json:"seller_id"`
	StoreInformation  bool      `json:"store_information"`
	StripeConnection  bool      `json:"stripe_connection"`
	LocationsShipping bool      `json:"locations_shipping"`
	Products          bool      `json:"products"`
	IsComplete        bool      `json:"is_complete"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToOnboardingResponse converts a domain onboarding record
func ToOnboardingResponse(o *seller.Onboarding) OnboardingResponse {
	return OnboardingResponse{
		SellerID:          o.SellerID,
		StoreInformation:  o.StoreInformation,
		StripeConnection:  o.StripeConnection,
		LocationsShipping: o.LocationsShipping,
		Products:          o.Products,
		IsComplete:        o.IsComplete(),
		UpdatedAt:         o.UpdatedAt,
	}
}

// UploadResponse describes a stored file
type UploadResponse struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
