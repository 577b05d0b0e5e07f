package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // failed attempts before the identity is locked
	LockDuration     time.Duration // how long a locked identity stays locked
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

var errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid email or password")

// AuthService authenticates admins, seller members and customers
type AuthService struct {
	identities identity.AuthIdentityRepository
	users      identity.UserRepository
	customers  identity.CustomerRepository
	members    seller.MemberRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	identities identity.AuthIdentityRepository,
	users identity.UserRepository,
	customers identity.CustomerRepository,
	members seller.MemberRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		identities: identities,
		users:      users,
		customers:  customers,
		members:    members,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

// Login authenticates an actor of the given type and returns a token pair
func (s *AuthService) Login(ctx context.Context, actorType identity.ActorType, req LoginRequest) (*LoginResult, error) {
	if !actorType.IsValid() {
		return nil, shared.InvalidArgument("Invalid actor type: %s", actorType)
	}
	email, err := identity.NormalizeEmail(req.Email)
	if err != nil {
		return nil, errInvalidCredentials
	}

	ai, err := s.identities.FindByEmail(ctx, actorType, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown identity", zap.String("actor_type", actorType.String()))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if ai.IsLocked(time.Now()) {
		s.logger.Warn("Login attempt for locked identity", zap.String("identity_id", ai.ID.String()))
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Account is locked. Please try again later")
	}

	if !ai.VerifyPassword(req.Password) {
		locked := ai.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.identities.Save(ctx, ai); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Identity locked after too many failed attempts",
				zap.String("identity_id", ai.ID.String()),
				zap.Int("max_attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Too many failed login attempts. Account has been locked")
		}
		return nil, errInvalidCredentials
	}

	subject, err := s.subjectFor(ctx, ai.ActorType, ai.ActorID)
	if err != nil {
		return nil, err
	}
	result, err := s.issue(subject, ai.Email)
	if err != nil {
		return nil, err
	}

	ai.RecordLoginSuccess()
	if err := s.identities.Save(ctx, ai); err != nil {
		// the tokens are valid regardless
		s.logger.Error("Failed to record login success", zap.Error(err))
	}

	s.logger.Info("Actor logged in",
		zap.String("actor_type", actorType.String()),
		zap.String("actor_id", ai.ActorID.String()))
	return result, nil
}

// Refresh exchanges a refresh token for a new pair and revokes the old refresh token
func (s *AuthService) Refresh(ctx context.Context, req RefreshTokenRequest) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Debug("Refresh token rejected", zap.Error(err))
		return nil, tokenError(err)
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, tokenError(auth.ErrTokenRevoked)
	}

	actorID, err := claims.ActorUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}
	actorType := identity.ActorType(claims.ActorType)
	ai, err := s.identities.FindByActor(ctx, actorType, actorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, tokenError(auth.ErrInvalidClaims)
		}
		return nil, err
	}

	// members may have changed role or been removed since the token was issued
	subject, err := s.subjectFor(ctx, actorType, actorID)
	if err != nil {
		return nil, err
	}
	result, err := s.issue(subject, ai.Email)
	if err != nil {
		return nil, err
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Warn("Failed to revoke rotated refresh token", zap.Error(err))
	}
	return result, nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, req LogoutRequest) error {
	if access == nil {
		return shared.ErrUnauthorized
	}
	if err := s.blacklist.Revoke(ctx, access.ID, access.RemainingTTL()); err != nil {
		return err
	}
	if req.RefreshToken == "" {
		return nil
	}
	refresh, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		// an unusable refresh token needs no revocation
		return nil
	}
	if refresh.ActorID != access.ActorID {
		return shared.NewDomainError(shared.CodeForbidden, "Refresh token belongs to another actor")
	}
	return s.blacklist.Revoke(ctx, refresh.ID, refresh.RemainingTTL())
}

// EnsureEmailAvailable fails with a duplicate error when email already has
// credentials for actorType
func (s *AuthService) EnsureEmailAvailable(ctx context.Context, actorType identity.ActorType, email string) error {
	normalized, err := identity.NormalizeEmail(email)
	if err != nil {
		return err
	}
	exists, err := s.identities.ExistsByEmail(ctx, actorType, normalized)
	if err != nil {
		return err
	}
	if exists {
		return shared.Duplicate("An identity for %s already exists", normalized)
	}
	return nil
}

// RegisterIdentity creates email/password credentials for an existing actor
func (s *AuthService) RegisterIdentity(ctx context.Context, actorType identity.ActorType, actorID uuid.UUID, email, password string) (*identity.AuthIdentity, error) {
	if err := s.EnsureEmailAvailable(ctx, actorType, email); err != nil {
		return nil, err
	}

	ai, err := identity.NewAuthIdentity(actorType, actorID, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.identities.Save(ctx, ai); err != nil {
		return nil, err
	}
	ai.ClearDomainEvents()
	return ai, nil
}

// RegisterCustomer creates a customer account, reusing a guest customer
// record with the same email
func (s *AuthService) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*CustomerResponse, error) {
	if err := identity.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	customer, err := s.customers.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if customer.HasAccount {
			return nil, shared.Duplicate("A customer with email %s already exists", customer.Email)
		}
		first, last, phone := req.FirstName, req.LastName, req.Phone
		if err := customer.UpdateProfile(&first, &last, &phone); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		customer, err = identity.NewCustomer(req.Email, req.FirstName, req.LastName, req.Phone)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	customer.MarkRegistered()
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	customer.ClearDomainEvents()

	if _, err := s.RegisterIdentity(ctx, identity.ActorTypeCustomer, customer.ID, customer.Email, req.Password); err != nil {
		return nil, err
	}

	s.logger.Info("Customer registered", zap.String("customer_id", customer.ID.String()))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// EnsureAdmin creates the bootstrap admin user and its credentials when no
// admin identity exists for email. It returns true when the admin was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	normalized, err := identity.NormalizeEmail(email)
	if err != nil {
		return false, err
	}
	exists, err := s.identities.ExistsByEmail(ctx, identity.ActorTypeUser, normalized)
	if err != nil || exists {
		return false, err
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if errors.Is(err, shared.ErrNotFound) {
		user, err = identity.NewUser(normalized, "Admin", "")
		if err != nil {
			return false, err
		}
		if err := s.users.Save(ctx, user); err != nil {
			return false, err
		}
		user.ClearDomainEvents()
	} else if err != nil {
		return false, err
	}

	if _, err := s.RegisterIdentity(ctx, identity.ActorTypeUser, user.ID, normalized, password); err != nil {
		return false, err
	}
	s.logger.Info("Bootstrap admin created", zap.String("email", normalized))
	return true, nil
}

// subjectFor builds the token subject; seller members carry their seller and role
func (s *AuthService) subjectFor(ctx context.Context, actorType identity.ActorType, actorID uuid.UUID) (auth.Subject, error) {
	subject := auth.Subject{ActorType: actorType.String(), ActorID: actorID}
	if actorType != identity.ActorTypeSeller {
		return subject, nil
	}
	member, err := s.members.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return auth.Subject{}, errInvalidCredentials
		}
		return auth.Subject{}, err
	}
	sellerID := member.SellerID
	subject.SellerID = &sellerID
	subject.Role = string(member.Role)
	return subject, nil
}

func (s *AuthService) issue(subject auth.Subject, email string) (*LoginResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(subject)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodeUnexpected, "Failed to generate authentication tokens", err)
	}
	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Actor: ActorInfo{
			ActorType: subject.ActorType,
			ActorID:   subject.ActorID,
			Email:     email,
			SellerID:  subject.SellerID,
			Role:      subject.Role,
		},
	}, nil
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.WrapDomainError(shared.CodeUnauthorized, "Token has expired", err)
	case errors.Is(err, auth.ErrTokenRevoked):
		return shared.WrapDomainError(shared.CodeUnauthorized, "Token has been revoked", err)
	default:
		return shared.WrapDomainError(shared.CodeUnauthorized, "Invalid token", err)
	}
}
