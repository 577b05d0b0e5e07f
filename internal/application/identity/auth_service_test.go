package identity

import (
	"context"
	"testing"
	"time"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type authFixture struct {
	db        *gorm.DB
	service   *AuthService
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-with-enough-length",
		RefreshSecret:          "test-refresh-secret-with-enough-length",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "marketplace-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := NewAuthService(
		persistence.NewGormAuthIdentityRepository(db),
		persistence.NewGormUserRepository(db),
		persistence.NewGormCustomerRepository(db),
		persistence.NewGormMemberRepository(db),
		jwtService,
		blacklist,
		AuthServiceConfig{MaxLoginAttempts: 3, LockDuration: time.Minute},
		zap.NewNop(),
	)
	return &authFixture{db: db, service: service, jwt: jwtService, blacklist: blacklist}
}

func TestAuthService_CustomerRegisterAndLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	customer, err := f.service.RegisterCustomer(ctx, RegisterCustomerRequest{
		Email:     "Jane@Example.com",
		Password:  "secret123",
		FirstName: "Jane",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", customer.Email)
	assert.True(t, customer.HasAccount)

	result, err := f.service.Login(ctx, identity.ActorTypeCustomer, LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "customer", result.Actor.ActorType)
	assert.Equal(t, customer.ID, result.Actor.ActorID)
	assert.Nil(t, result.Actor.SellerID)

	claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, customer.ID.String(), claims.ActorID)

	// the same email can not log in as another actor type
	_, err = f.service.Login(ctx, identity.ActorTypeUser, LoginRequest{Email: "jane@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestAuthService_RegisterCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("reuses guest customer", func(t *testing.T) {
		f := newAuthFixture(t)
		customers := persistence.NewGormCustomerRepository(f.db)
		guest, err := identity.NewCustomer("guest@example.com", "", "", "")
		require.NoError(t, err)
		require.NoError(t, customers.Save(ctx, guest))

		resp, err := f.service.RegisterCustomer(ctx, RegisterCustomerRequest{
			Email: "guest@example.com", Password: "secret123", FirstName: "Gus",
		})
		require.NoError(t, err)
		assert.Equal(t, guest.ID, resp.ID)
		assert.Equal(t, "Gus", resp.FirstName)

		stored, err := customers.FindByID(ctx, guest.ID)
		require.NoError(t, err)
		assert.True(t, stored.HasAccount)
	})

	t.Run("duplicate account", func(t *testing.T) {
		f := newAuthFixture(t)
		req := RegisterCustomerRequest{Email: "dup@example.com", Password: "secret123"}
		_, err := f.service.RegisterCustomer(ctx, req)
		require.NoError(t, err)

		_, err = f.service.RegisterCustomer(ctx, req)
		assert.ErrorIs(t, err, shared.ErrDuplicate)
	})

	t.Run("weak password", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.service.RegisterCustomer(ctx, RegisterCustomerRequest{Email: "weak@example.com", Password: "password"})
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})
}

func TestAuthService_LoginFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.service.RegisterCustomer(ctx, RegisterCustomerRequest{Email: "lock@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = f.service.Login(ctx, identity.ActorTypeCustomer, LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	for i := 0; i < 3; i++ {
		_, err = f.service.Login(ctx, identity.ActorTypeCustomer, LoginRequest{Email: "lock@example.com", Password: "wrong1234"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	}

	// locked even with the right password
	_, err = f.service.Login(ctx, identity.ActorTypeCustomer, LoginRequest{Email: "lock@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestAuthService_SellerMemberLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	s, err := seller.NewSeller("Acme Goods", "owner@acme.test", true)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormSellerRepository(f.db).Save(ctx, s))
	member, err := seller.NewMember(s.ID, seller.MemberRoleOwner, "Olivia", "owner@acme.test")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormMemberRepository(f.db).Save(ctx, member))

	_, err = f.service.RegisterIdentity(ctx, identity.ActorTypeSeller, member.ID, member.Email, "secret123")
	require.NoError(t, err)

	result, err := f.service.Login(ctx, identity.ActorTypeSeller, LoginRequest{Email: "owner@acme.test", Password: "secret123"})
	require.NoError(t, err)
	require.NotNil(t, result.Actor.SellerID)
	assert.Equal(t, s.ID, *result.Actor.SellerID)
	assert.Equal(t, "owner", result.Actor.Role)

	claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	sellerID, err := claims.SellerUUID()
	require.NoError(t, err)
	require.NotNil(t, sellerID)
	assert.Equal(t, s.ID, *sellerID)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.service.RegisterCustomer(ctx, RegisterCustomerRequest{Email: "rot@example.com", Password: "secret123"})
	require.NoError(t, err)
	login, err := f.service.Login(ctx, identity.ActorTypeCustomer, LoginRequest{Email: "rot@example.com", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := f.service.Refresh(ctx, RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.Actor.ActorID, refreshed.Actor.ActorID)

	_, err = f.service.Refresh(ctx, RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = f.service.Refresh(ctx, RefreshTokenRequest{RefreshToken: "not-a-token"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.service.RegisterCustomer(ctx, RegisterCustomerRequest{Email: "out@example.com", Password: "secret123"})
	require.NoError(t, err)
	login, err := f.service.Login(ctx, identity.ActorTypeCustomer, LoginRequest{Email: "out@example.com", Password: "secret123"})
	require.NoError(t, err)

	access, err := f.jwt.ValidateAccessToken(login.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.service.Logout(ctx, access, LogoutRequest{RefreshToken: login.RefreshToken}))

	revoked, err := f.blacklist.IsRevoked(ctx, access.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = f.service.Refresh(ctx, RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	assert.ErrorIs(t, f.service.Logout(ctx, nil, LogoutRequest{}), shared.ErrUnauthorized)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	created, err := f.service.EnsureAdmin(ctx, "admin@marketplace.test", "admin1234")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.service.EnsureAdmin(ctx, "admin@marketplace.test", "admin1234")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = f.service.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	result, err := f.service.Login(ctx, identity.ActorTypeUser, LoginRequest{Email: "admin@marketplace.test", Password: "admin1234"})
	require.NoError(t, err)
	assert.Equal(t, "user", result.Actor.ActorType)
}
