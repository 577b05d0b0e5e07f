package seller

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// SellerRepository defines persistence for sellers
type SellerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Seller, error)
	// FindByIDs loads many sellers in one query; missing ids are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Seller, error)
	FindByHandle(ctx context.Context, handle string) (*Seller, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Seller, int64, error)
	ExistsByHandle(ctx context.Context, handle string) (bool, error)
	// Save persists the seller and writes its pending events to the outbox
	Save(ctx context.Context, seller *Seller) error
}

// MemberRepository defines persistence for seller members
type MemberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Member, int64, error)
	FindByEmail(ctx context.Context, email string) (*Member, error)
	Save(ctx context.Context, member *Member) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InviteRepository defines persistence for member invites
type InviteRepository interface {
	FindByToken(ctx context.Context, token string) (*MemberInvite, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]MemberInvite, int64, error)
	Save(ctx context.Context, invite *MemberInvite) error
}

// OnboardingRepository defines persistence for onboarding progress
type OnboardingRepository interface {
	FindBySeller(ctx context.Context, sellerID uuid.UUID) (*Onboarding, error)
	Save(ctx context.Context, onboarding *Onboarding) error
}
