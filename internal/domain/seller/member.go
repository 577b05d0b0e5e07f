package seller

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// MemberRole is the permission level of a member inside a seller
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// IsValid checks if the role is known
func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleOwner, MemberRoleAdmin, MemberRoleMember:
		return true
	}
	return false
}

// CanManageMembers reports whether the role may invite, edit or remove members
func (r MemberRole) CanManageMembers() bool {
	return r == MemberRoleOwner || r == MemberRoleAdmin
}

// Member is a person acting on behalf of a seller in the vendor panel
type Member struct {
	shared.BaseAggregateRoot
	SellerID uuid.UUID
	Role     MemberRole
	Name     string
	Email    string
	Phone    string
	Photo    string
	Bio      string
}

// NewMember creates a member of the given seller
func NewMember(sellerID uuid.UUID, role MemberRole, name, email string) (*Member, error) {
	if sellerID == uuid.Nil {
		return nil, shared.InvalidArgument("Seller ID is required")
	}
	if !role.IsValid() {
		return nil, shared.InvalidArgument("Invalid member role: %s", role)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.InvalidArgument("Member email is required")
	}
	return &Member{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		Role:              role,
		Name:              strings.TrimSpace(name),
		Email:             email,
	}, nil
}

// MemberUpdate carries optional member changes
type MemberUpdate struct {
	Name  *string
	Phone *string
	Photo *string
	Bio   *string
	Role  *MemberRole
}

// Update applies a partial update. Role changes are validated by the caller's
// permissions and may never demote the owner.
func (m *Member) Update(u MemberUpdate) error {
	if u.Role != nil {
		if !u.Role.IsValid() {
			return shared.InvalidArgument("Invalid member role: %s", *u.Role)
		}
		if m.Role == MemberRoleOwner && *u.Role != MemberRoleOwner {
			return shared.NotAllowed("The store owner role cannot be changed")
		}
		if *u.Role == MemberRoleOwner && m.Role != MemberRoleOwner {
			return shared.NotAllowed("A seller can only have one owner")
		}
		m.Role = *u.Role
	}
	if u.Name != nil {
		m.Name = strings.TrimSpace(*u.Name)
	}
	if u.Phone != nil {
		m.Phone = strings.TrimSpace(*u.Phone)
	}
	if u.Photo != nil {
		m.Photo = *u.Photo
	}
	if u.Bio != nil {
		m.Bio = *u.Bio
	}
	m.Touch()
	m.IncrementVersion()
	return nil
}

// IsOwner returns true for the seller owner
func (m *Member) IsOwner() bool {
	return m.Role == MemberRoleOwner
}

// InviteTTL is how long an invite token stays valid
const InviteTTL = 7 * 24 * time.Hour

// MemberInvite invites an email address to join a seller
type MemberInvite struct {
	shared.BaseAggregateRoot
	SellerID  uuid.UUID
	Email     string
	Role      MemberRole
	Token     string
	Accepted  bool
	ExpiresAt time.Time
}

// NewMemberInvite creates an invite with a random token
func NewMemberInvite(sellerID uuid.UUID, email string, role MemberRole) (*MemberInvite, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.InvalidArgument("Invite email is required")
	}
	if !role.IsValid() || role == MemberRoleOwner {
		return nil, shared.InvalidArgument("Invites can only grant admin or member roles")
	}
	token, err := newInviteToken()
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeUnexpected, "Failed to generate invite token", err)
	}
	inv := &MemberInvite{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		Email:             email,
		Role:              role,
		Token:             token,
		ExpiresAt:         time.Now().Add(InviteTTL),
	}
	inv.AddDomainEvent(NewMemberInvitedEvent(inv))
	return inv, nil
}

// Accept marks the invite as used
func (i *MemberInvite) Accept(now time.Time) error {
	if i.Accepted {
		return shared.NotAllowed("Invite has already been accepted")
	}
	if now.After(i.ExpiresAt) {
		return shared.NotAllowed("Invite has expired")
	}
	i.Accepted = true
	i.UpdatedAt = now
	i.IncrementVersion()
	return nil
}

func newInviteToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
