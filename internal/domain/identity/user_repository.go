package identity

import (
	"context"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AuthIdentityRepository defines persistence for credentials
type AuthIdentityRepository interface {
	Save(ctx context.Context, identity *AuthIdentity) error
	// FindByEmail finds credentials by actor type and normalized email
	FindByEmail(ctx context.Context, actorType ActorType, email string) (*AuthIdentity, error)
	FindByActor(ctx context.Context, actorType ActorType, actorID uuid.UUID) (*AuthIdentity, error)
	ExistsByEmail(ctx context.Context, actorType ActorType, email string) (bool, error)
}

// UserRepository defines persistence for admin users
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)
}

// CustomerRepository defines persistence for customers
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, int64, error)
}
