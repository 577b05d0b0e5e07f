package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ActorType identifies which kind of principal an identity authenticates
type ActorType string

const (
	ActorTypeUser     ActorType = "user"     // marketplace admin staff
	ActorTypeSeller   ActorType = "seller"   // member of a seller
	ActorTypeCustomer ActorType = "customer" // storefront shopper
)

// IsValid checks if the actor type is known
func (a ActorType) IsValid() bool {
	switch a {
	case ActorTypeUser, ActorTypeSeller, ActorTypeCustomer:
		return true
	}
	return false
}

// String returns the string representation of ActorType
func (a ActorType) String() string {
	return string(a)
}

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// AuthIdentity holds the email/password credentials of one actor.
// Email is unique per actor type, so the same address can be both a customer
// and a seller member.
type AuthIdentity struct {
	shared.BaseAggregateRoot
	ActorType      ActorType
	ActorID        uuid.UUID
	Email          string
	PasswordHash   string
	FailedAttempts int
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
}

// NewAuthIdentity creates credentials for an actor, hashing the password
func NewAuthIdentity(actorType ActorType, actorID uuid.UUID, email, password string) (*AuthIdentity, error) {
	if !actorType.IsValid() {
		return nil, shared.InvalidArgument("Invalid actor type: %s", actorType)
	}
	if actorID == uuid.Nil {
		return nil, shared.InvalidArgument("Actor ID is required")
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeUnexpected, "Failed to hash password", err)
	}

	ai := &AuthIdentity{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ActorType:         actorType,
		ActorID:           actorID,
		Email:             email,
		PasswordHash:      hash,
	}
	ai.AddDomainEvent(NewAuthIdentityCreatedEvent(ai))
	return ai, nil
}

// VerifyPassword compares the plain password with the stored hash
func (a *AuthIdentity) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password after verifying the current one
func (a *AuthIdentity) ChangePassword(current, next string) error {
	if !a.VerifyPassword(current) {
		return shared.NewDomainError(shared.CodeUnauthorized, "Current password is incorrect")
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}
	hash, err := hashPassword(next)
	if err != nil {
		return shared.WrapDomainError(shared.CodeUnexpected, "Failed to hash password", err)
	}
	a.PasswordHash = hash
	a.Touch()
	a.IncrementVersion()
	return nil
}

// IsLocked reports whether the identity is temporarily locked at the given time
func (a *AuthIdentity) IsLocked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}

// RecordLoginSuccess records a successful login and clears failures
func (a *AuthIdentity) RecordLoginSuccess() {
	now := time.Now()
	a.LastLoginAt = &now
	a.FailedAttempts = 0
	a.LockedUntil = nil
	a.UpdatedAt = now
	a.IncrementVersion()
}

// RecordLoginFailure counts a failed attempt and locks the identity once
// maxAttempts is reached. Returns true if the identity became locked.
func (a *AuthIdentity) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	a.FailedAttempts++
	a.Touch()
	a.IncrementVersion()

	if maxAttempts > 0 && a.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		a.LockedUntil = &until
		a.FailedAttempts = 0
		return true
	}
	return false
}

// NormalizeEmail lowercases and validates an email address
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.InvalidArgument("Email is required")
	}
	if len(email) > 200 {
		return "", shared.InvalidArgument("Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return "", shared.InvalidArgument("Invalid email format")
	}
	return email, nil
}

// ValidatePassword enforces the password policy
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return shared.InvalidArgument("Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.InvalidArgument("Password cannot exceed 72 characters")
	}
	hasLetter := strings.ContainsFunc(password, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	})
	hasDigit := strings.ContainsFunc(password, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
	if !hasLetter || !hasDigit {
		return shared.InvalidArgument("Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
