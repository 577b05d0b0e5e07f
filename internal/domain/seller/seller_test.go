package seller

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeller(t *testing.T) {
	t.Run("derives handle and starts active when approval is not required", func(t *testing.T) {
		s, err := NewSeller("Acme Shoes", "Sales@Acme.io", true)
		require.NoError(t, err)

		assert.Equal(t, "acme-shoes", s.Handle)
		assert.Equal(t, "sales@acme.io", s.Email)
		assert.Equal(t, StoreStatusActive, s.StoreStatus)
		require.Len(t, s.GetDomainEvents(), 1)
		assert.IsType(t, &SellerCreatedEvent{}, s.GetDomainEvents()[0])
	})

	t.Run("starts inactive when approval is required", func(t *testing.T) {
		s, err := NewSeller("Acme", "a@acme.io", false)
		require.NoError(t, err)
		assert.Equal(t, StoreStatusInactive, s.StoreStatus)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := NewSeller("   ", "a@acme.io", true)
		assert.True(t, errors.Is(err, shared.ErrInvalidArgument))

		_, err = NewSeller("!!!", "a@acme.io", true)
		assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
	})
}

func TestSeller_ChangeStoreStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    StoreStatus
		to      StoreStatus
		allowed bool
	}{
		{"active to suspended", StoreStatusActive, StoreStatusSuspended, true},
		{"active to inactive", StoreStatusActive, StoreStatusInactive, true},
		{"inactive to active", StoreStatusInactive, StoreStatusActive, true},
		{"suspended to active", StoreStatusSuspended, StoreStatusActive, true},
		{"suspended to inactive", StoreStatusSuspended, StoreStatusInactive, false},
		{"same status", StoreStatusActive, StoreStatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSeller("Acme", "a@acme.io", true)
			require.NoError(t, err)
			s.StoreStatus = tt.from
			s.ClearDomainEvents()

			err = s.ChangeStoreStatus(tt.to, "policy review")
			if !tt.allowed {
				assert.True(t, errors.Is(err, shared.ErrNotAllowed))
				assert.Equal(t, tt.from, s.StoreStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, s.StoreStatus)
			assert.Equal(t, tt.to == StoreStatusSuspended, s.SuspendedAt != nil)
			require.Len(t, s.GetDomainEvents(), 1)
			evt := s.GetDomainEvents()[0].(*SellerStatusChangedEvent)
			assert.Equal(t, tt.from, evt.PreviousStatus)
		})
	}
}

func TestSeller_EnsureCanOperate(t *testing.T) {
	s, err := NewSeller("Acme", "a@acme.io", true)
	require.NoError(t, err)
	assert.NoError(t, s.EnsureCanOperate())

	require.NoError(t, s.ChangeStoreStatus(StoreStatusSuspended, "fraud"))
	assert.True(t, errors.Is(s.EnsureCanOperate(), shared.ErrNotAllowed))
}

func TestSeller_UpdateDetails(t *testing.T) {
	s, err := NewSeller("Acme", "a@acme.io", true)
	require.NoError(t, err)
	assert.False(t, s.HasStoreInformation())

	name := "Acme Outlet"
	err = s.UpdateDetails(SellerUpdate{
		Name:    &name,
		Address: &Address{AddressLine: "1 Main St", City: "Berlin", CountryCode: "DE"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Outlet", s.Name)
	assert.Equal(t, "acme", s.Handle, "handle stays stable after rename")
	assert.Equal(t, "de", s.Address.CountryCode)
	assert.True(t, s.HasStoreInformation())

	err = s.UpdateDetails(SellerUpdate{Address: &Address{CountryCode: "DEU"}})
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestMember_Update(t *testing.T) {
	sellerID := uuid.New()
	owner, err := NewMember(sellerID, MemberRoleOwner, "Olga", "olga@acme.io")
	require.NoError(t, err)

	admin := MemberRoleAdmin
	err = owner.Update(MemberUpdate{Role: &admin})
	assert.True(t, errors.Is(err, shared.ErrNotAllowed))

	m, err := NewMember(sellerID, MemberRoleMember, "Max", "max@acme.io")
	require.NoError(t, err)
	ownerRole := MemberRoleOwner
	assert.Error(t, m.Update(MemberUpdate{Role: &ownerRole}))

	require.NoError(t, m.Update(MemberUpdate{Role: &admin}))
	assert.True(t, m.Role.CanManageMembers())
}

func TestMemberInvite_Accept(t *testing.T) {
	inv, err := NewMemberInvite(uuid.New(), "New@Acme.io", MemberRoleMember)
	require.NoError(t, err)
	assert.Equal(t, "new@acme.io", inv.Email)
	assert.Len(t, inv.Token, 48)

	t.Run("expired invite", func(t *testing.T) {
		err := inv.Accept(inv.ExpiresAt.Add(time.Second))
		assert.True(t, errors.Is(err, shared.ErrNotAllowed))
	})

	t.Run("accept once", func(t *testing.T) {
		require.NoError(t, inv.Accept(time.Now()))
		assert.True(t, inv.Accepted)
		assert.Error(t, inv.Accept(time.Now()))
	})

	t.Run("cannot invite an owner", func(t *testing.T) {
		_, err := NewMemberInvite(uuid.New(), "x@acme.io", MemberRoleOwner)
		assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
	})
}

func TestOnboarding_Apply(t *testing.T) {
	o := NewOnboarding(uuid.New())
	assert.False(t, o.IsComplete())

	o.Apply(OnboardingFacts{HasStoreInformation: true, PayoutAccountActive: true, ShippingOptionsCount: 1})
	assert.False(t, o.IsComplete())
	assert.True(t, o.LocationsShipping)

	o.Apply(OnboardingFacts{HasStoreInformation: true, PayoutAccountActive: true, ShippingOptionsCount: 1, ProductsCount: 3})
	assert.True(t, o.IsComplete())
}
