package seller

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeSeller       = "Seller"
	AggregateTypeMemberInvite = "MemberInvite"
)

// Seller domain event types
const (
	EventTypeSellerCreated       = "seller.created"
	EventTypeSellerUpdated       = "seller.updated"
	EventTypeSellerStatusChanged = "seller.status_changed"
	EventTypeMemberInvited       = "member_invite.created"
)

// SellerCreatedEvent is published when a seller registers
type SellerCreatedEvent struct {
	shared.BaseDomainEvent
	SellerID    uuid.UUID   `json:"seller_id"`
	Name        string      `json:"name"`
	Handle      string      `json:"handle"`
	StoreStatus StoreStatus `json:"store_status"`
}

// NewSellerCreatedEvent creates a new SellerCreatedEvent
func NewSellerCreatedEvent(s *Seller) *SellerCreatedEvent {
	return &SellerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSellerCreated, AggregateTypeSeller, s.ID),
		SellerID:        s.ID,
		Name:            s.Name,
		Handle:          s.Handle,
		StoreStatus:     s.StoreStatus,
	}
}

// SellerUpdatedEvent is published when the seller profile changes
type SellerUpdatedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
}

// NewSellerUpdatedEvent creates a new SellerUpdatedEvent
func NewSellerUpdatedEvent(s *Seller) *SellerUpdatedEvent {
	return &SellerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSellerUpdated, AggregateTypeSeller, s.ID),
		SellerID:        s.ID,
	}
}

// SellerStatusChangedEvent is published when an admin changes the store status
type SellerStatusChangedEvent struct {
	shared.BaseDomainEvent
	SellerID       uuid.UUID   `json:"seller_id"`
	PreviousStatus StoreStatus `json:"previous_status"`
	Status         StoreStatus `json:"status"`
	Reason         string      `json:"reason,omitempty"`
}

// NewSellerStatusChangedEvent creates a new SellerStatusChangedEvent
func NewSellerStatusChangedEvent(s *Seller, previous StoreStatus) *SellerStatusChangedEvent {
	return &SellerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSellerStatusChanged, AggregateTypeSeller, s.ID),
		SellerID:        s.ID,
		PreviousStatus:  previous,
		Status:          s.StoreStatus,
		Reason:          s.Reason,
	}
}

// MemberInvitedEvent is published when a member invite is issued
type MemberInvitedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID  `json:"seller_id"`
	Email    string     `json:"email"`
	Role     MemberRole `json:"role"`
}

// NewMemberInvitedEvent creates a new MemberInvitedEvent
func NewMemberInvitedEvent(i *MemberInvite) *MemberInvitedEvent {
	return &MemberInvitedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberInvited, AggregateTypeMemberInvite, i.ID),
		SellerID:        i.SellerID,
		Email:           i.Email,
		Role:            i.Role,
	}
}
