package payout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// AccountRepository defines persistence for payout accounts
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PayoutAccount, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID) (*PayoutAccount, error)
	FindByReference(ctx context.Context, referenceID string) (*PayoutAccount, error)
	// FindBySellers loads accounts of many sellers in one query, keyed by seller id
	FindBySellers(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]*PayoutAccount, error)
	Save(ctx context.Context, account *PayoutAccount) error
	SaveOnboarding(ctx context.Context, onboarding *Onboarding) error
}

// PayoutRepository defines persistence for payouts and reversals
type PayoutRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payout, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Payout, error)
	// FindAll supports filters: seller_id, status, order_id
	FindAll(ctx context.Context, filter shared.Filter) ([]Payout, int64, error)
	// FindRetryable returns failed payouts and pending payouts last touched
	// before staleBefore, oldest first
	FindRetryable(ctx context.Context, staleBefore time.Time, limit int) ([]Payout, error)
	FindBySellerBetween(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]Payout, error)
	Save(ctx context.Context, payout *Payout) error
}
