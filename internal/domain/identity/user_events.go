package identity

import (
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeUser         = "User"
	AggregateTypeCustomer     = "Customer"
	AggregateTypeAuthIdentity = "AuthIdentity"
)

// Identity domain event types
const (
	EventTypeUserCreated         = "user.created"
	EventTypeCustomerCreated     = "customer.created"
	EventTypeAuthIdentityCreated = "auth_identity.created"
)

// UserCreatedEvent is published when an admin user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID),
		Email:           u.Email,
	}
}

// CustomerCreatedEvent is published when a customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID),
		Email:           c.Email,
	}
}

// AuthIdentityCreatedEvent is published when credentials are registered
type AuthIdentityCreatedEvent struct {
	shared.BaseDomainEvent
	ActorType ActorType `json:"actor_type"`
	ActorID   uuid.UUID `json:"actor_id"`
	Email     string    `json:"email"`
}

// NewAuthIdentityCreatedEvent creates a new AuthIdentityCreatedEvent
func NewAuthIdentityCreatedEvent(a *AuthIdentity) *AuthIdentityCreatedEvent {
	return &AuthIdentityCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAuthIdentityCreated, AggregateTypeAuthIdentity, a.ID),
		ActorType:       a.ActorType,
		ActorID:         a.ActorID,
		Email:           a.Email,
	}
}
