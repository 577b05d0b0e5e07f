package seller

import (
	"strings"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
)

// StoreStatus represents whether a seller's store is open for business
type StoreStatus string

const (
	StoreStatusActive    StoreStatus = "ACTIVE"
	StoreStatusInactive  StoreStatus = "INACTIVE"
	StoreStatusSuspended StoreStatus = "SUSPENDED"
)

// IsValid checks if the status is a valid StoreStatus
func (s StoreStatus) IsValid() bool {
	switch s {
	case StoreStatusActive, StoreStatusInactive, StoreStatusSuspended:
		return true
	}
	return false
}

// String returns the string representation of StoreStatus
func (s StoreStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// A suspended store can only be reactivated by an admin.
func (s StoreStatus) CanTransitionTo(target StoreStatus) bool {
	if s == target {
		return false
	}
	switch s {
	case StoreStatusActive:
		return target == StoreStatusInactive || target == StoreStatusSuspended
	case StoreStatusInactive:
		return target == StoreStatusActive || target == StoreStatusSuspended
	case StoreStatusSuspended:
		return target == StoreStatusActive
	}
	return false
}

// Address is the seller's business address
type Address struct {
	AddressLine string
	City        string
	PostalCode  string
	CountryCode string
}

// Seller is a marketplace merchant with its own products, orders and payout account
type Seller struct {
	shared.BaseAggregateRoot
	Name        string
	Handle      string
	Description string
	Email       string
	Phone       string
	Photo       string
	Address     Address
	TaxID       string
	StoreStatus StoreStatus
	SuspendedAt *time.Time
	Reason      string
}

// NewSeller creates a seller. The handle is derived from the name.
func NewSeller(name, email string, active bool) (*Seller, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidArgument("Seller name is required")
	}
	if len(name) > 200 {
		return nil, shared.InvalidArgument("Seller name cannot exceed 200 characters")
	}
	handle := shared.Slugify(name)
	if handle == "" {
		return nil, shared.InvalidArgument("Seller name must contain letters or digits")
	}

	status := StoreStatusInactive
	if active {
		status = StoreStatusActive
	}
	s := &Seller{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Handle:            handle,
		Email:             strings.ToLower(strings.TrimSpace(email)),
		StoreStatus:       status,
	}
	s.AddDomainEvent(NewSellerCreatedEvent(s))
	return s, nil
}

// UpdateDetails applies a partial update of the seller profile
func (s *Seller) UpdateDetails(u SellerUpdate) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return shared.InvalidArgument("Seller name cannot be empty")
		}
		s.Name = name
	}
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.Email != nil {
		s.Email = strings.ToLower(strings.TrimSpace(*u.Email))
	}
	if u.Phone != nil {
		s.Phone = strings.TrimSpace(*u.Phone)
	}
	if u.Photo != nil {
		s.Photo = *u.Photo
	}
	if u.Address != nil {
		if cc := u.Address.CountryCode; cc != "" && len(cc) != 2 {
			return shared.InvalidArgument("Country code must be ISO 3166-1 alpha-2")
		}
		u.Address.CountryCode = strings.ToLower(u.Address.CountryCode)
		s.Address = *u.Address
	}
	if u.TaxID != nil {
		s.TaxID = strings.TrimSpace(*u.TaxID)
	}
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewSellerUpdatedEvent(s))
	return nil
}

// SellerUpdate carries optional profile changes
type SellerUpdate struct {
	Name        *string
	Description *string
	Email       *string
	Phone       *string
	Photo       *string
	Address     *Address
	TaxID       *string
}

// ChangeStoreStatus moves the store to a new status
func (s *Seller) ChangeStoreStatus(target StoreStatus, reason string) error {
	if !target.IsValid() {
		return shared.InvalidArgument("Invalid store status: %s", target)
	}
	if !s.StoreStatus.CanTransitionTo(target) {
		return shared.NotAllowed("Cannot change store status from %s to %s", s.StoreStatus, target)
	}

	previous := s.StoreStatus
	now := time.Now()
	s.StoreStatus = target
	s.Reason = reason
	if target == StoreStatusSuspended {
		s.SuspendedAt = &now
	} else {
		s.SuspendedAt = nil
	}
	s.UpdatedAt = now
	s.IncrementVersion()
	s.AddDomainEvent(NewSellerStatusChangedEvent(s, previous))
	return nil
}

// IsActive returns true if the store accepts orders
func (s *Seller) IsActive() bool {
	return s.StoreStatus == StoreStatusActive
}

// IsSuspended returns true if the store was suspended by an admin
func (s *Seller) IsSuspended() bool {
	return s.StoreStatus == StoreStatusSuspended
}

// EnsureCanOperate returns an error when the seller may not mutate its catalog or orders
func (s *Seller) EnsureCanOperate() error {
	if s.IsSuspended() {
		return shared.NotAllowed("Seller %s is suspended", s.Handle)
	}
	return nil
}

// HasStoreInformation reports whether the seller filled in the store profile
func (s *Seller) HasStoreInformation() bool {
	return s.Name != "" && s.Email != "" && s.Address.CountryCode != ""
}
