package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/seller"
	"gorm.io/gorm"
)

// SellerModel is the persistence model for the Seller aggregate
type SellerModel struct {
	AggregateModel
	Name        string             `gorm:"type:varchar(200);not null"`
	Handle      string             `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string             `gorm:"type:text"`
	Email       string             `gorm:"type:varchar(255)"`
	Phone       string             `gorm:"type:varchar(50)"`
	Photo       string             `gorm:"type:varchar(500)"`
	AddressLine string             `gorm:"type:varchar(255)"`
	City        string             `gorm:"type:varchar(100)"`
	PostalCode  string             `gorm:"type:varchar(20)"`
	CountryCode string             `gorm:"type:varchar(2)"`
	TaxID       string             `gorm:"type:varchar(50)"`
	StoreStatus seller.StoreStatus `gorm:"type:varchar(20);not null;index"`
	SuspendedAt *time.Time
	Reason      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SellerModel) TableName() string {
	return "sellers"
}

// ToDomain converts the persistence model to a domain Seller
func (m *SellerModel) ToDomain() *seller.Seller {
	return &seller.Seller{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Handle:            m.Handle,
		Description:       m.Description,
		Email:             m.Email,
		Phone:             m.Phone,
		Photo:             m.Photo,
		Address: seller.Address{
			AddressLine: m.AddressLine,
			City:        m.City,
			PostalCode:  m.PostalCode,
			CountryCode: m.CountryCode,
		},
		TaxID:       m.TaxID,
		StoreStatus: m.StoreStatus,
		SuspendedAt: m.SuspendedAt,
		Reason:      m.Reason,
	}
}

// SellerModelFromDomain creates a persistence model from a domain Seller
func SellerModelFromDomain(s *seller.Seller) *SellerModel {
	m := &SellerModel{
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
		StoreStatus: s.StoreStatus,
		SuspendedAt: s.SuspendedAt,
		Reason:      s.Reason,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// MemberModel is the persistence model for seller team members
type MemberModel struct {
	AggregateModel
	SellerID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Role      seller.MemberRole `gorm:"type:varchar(20);not null"`
	Name      string            `gorm:"type:varchar(200)"`
	Email     string            `gorm:"type:varchar(255);not null;uniqueIndex:idx_member_email,where:deleted_at IS NULL"`
	Phone     string            `gorm:"type:varchar(50)"`
	Photo     string            `gorm:"type:varchar(500)"`
	Bio       string            `gorm:"type:text"`
	DeletedAt gorm.DeletedAt    `gorm:"index"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "members"
}

// ToDomain converts the persistence model to a domain Member
func (m *MemberModel) ToDomain() *seller.Member {
	return &seller.Member{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SellerID:          m.SellerID,
		Role:              m.Role,
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		Photo:             m.Photo,
		Bio:               m.Bio,
	}
}

// MemberModelFromDomain creates a persistence model from a domain Member
func MemberModelFromDomain(mem *seller.Member) *MemberModel {
	m := &MemberModel{
		SellerID: mem.SellerID,
		Role:     mem.Role,
		Name:     mem.Name,
		Email:    mem.Email,
		Phone:    mem.Phone,
		Photo:    mem.Photo,
		Bio:      mem.Bio,
	}
	m.FromDomainAggregateRoot(mem.BaseAggregateRoot)
	return m
}

// MemberInviteModel is the persistence model for pending member invitations
type MemberInviteModel struct {
	AggregateModel
	SellerID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Email     string            `gorm:"type:varchar(255);not null"`
	Role      seller.MemberRole `gorm:"type:varchar(20);not null"`
	Token     string            `gorm:"type:varchar(128);not null;uniqueIndex"`
	Accepted  bool              `gorm:"not null;default:false"`
	ExpiresAt time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MemberInviteModel) TableName() string {
	return "member_invites"
}

// ToDomain converts the persistence model to a domain MemberInvite
func (m *MemberInviteModel) ToDomain() *seller.MemberInvite {
	return &seller.MemberInvite{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SellerID:          m.SellerID,
		Email:             m.Email,
		Role:              m.Role,
		Token:             m.Token,
		Accepted:          m.Accepted,
		ExpiresAt:         m.ExpiresAt,
	}
}

// MemberInviteModelFromDomain creates a persistence model from a domain MemberInvite
func MemberInviteModelFromDomain(i *seller.MemberInvite) *MemberInviteModel {
	m := &MemberInviteModel{
		SellerID:  i.SellerID,
		Email:     i.Email,
		Role:      i.Role,
		Token:     i.Token,
		Accepted:  i.Accepted,
		ExpiresAt: i.ExpiresAt,
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}

// SellerOnboardingModel stores the onboarding checklist of a seller
type SellerOnboardingModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	SellerID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	StoreInformation  bool      `gorm:"not null;default:false"`
	StripeConnection  bool      `gorm:"not null;default:false"`
	LocationsShipping bool      `gorm:"not null;default:false"`
	Products          bool      `gorm:"not null;default:false"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SellerOnboardingModel) TableName() string {
	return "seller_onboardings"
}

// ToDomain converts the persistence model to a domain Onboarding
func (m *SellerOnboardingModel) ToDomain() *seller.Onboarding {
	return &seller.Onboarding{
		ID:                m.ID,
		SellerID:          m.SellerID,
		StoreInformation:  m.StoreInformation,
		StripeConnection:  m.StripeConnection,
		LocationsShipping: m.LocationsShipping,
		Products:          m.Products,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// SellerOnboardingModelFromDomain creates a persistence model from a domain Onboarding
func SellerOnboardingModelFromDomain(o *seller.Onboarding) *SellerOnboardingModel {
	return &SellerOnboardingModel{
		ID:                o.ID,
		SellerID:          o.SellerID,
		StoreInformation:  o.StoreInformation,
		StripeConnection:  o.StripeConnection,
		LocationsShipping: o.LocationsShipping,
		Products:          o.Products,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}
