package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
)

// AuthIdentityModel is the persistence model for login credentials
type AuthIdentityModel struct {
	AggregateModel
	ActorType      identity.ActorType `gorm:"type:varchar(20);not null;uniqueIndex:idx_auth_identity_actor_email,priority:1;index:idx_auth_identity_actor,priority:1"`
	ActorID        uuid.UUID          `gorm:"type:uuid;not null;index:idx_auth_identity_actor,priority:2"`
	Email          string             `gorm:"type:varchar(255);not null;uniqueIndex:idx_auth_identity_actor_email,priority:2"`
	PasswordHash   string             `gorm:"type:varchar(255);not null"`
	FailedAttempts int                `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
}

// TableName returns the table name for GORM
func (AuthIdentityModel) TableName() string {
	return "auth_identities"
}

// ToDomain converts the persistence model to a domain AuthIdentity
func (m *AuthIdentityModel) ToDomain() *identity.AuthIdentity {
	return &identity.AuthIdentity{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ActorType:         m.ActorType,
		ActorID:           m.ActorID,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
		LastLoginAt:       m.LastLoginAt,
	}
}

// AuthIdentityModelFromDomain creates a persistence model from a domain AuthIdentity
func AuthIdentityModelFromDomain(a *identity.AuthIdentity) *AuthIdentityModel {
	m := &AuthIdentityModel{
		ActorType:      a.ActorType,
		ActorID:        a.ActorID,
		Email:          a.Email,
		PasswordHash:   a.PasswordHash,
		FailedAttempts: a.FailedAttempts,
		LockedUntil:    a.LockedUntil,
		LastLoginAt:    a.LastLoginAt,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}

// UserModel is the persistence model for marketplace administrators
type UserModel struct {
	AggregateModel
	Email     string `gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName string `gorm:"type:varchar(100)"`
	LastName  string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Email:             m.Email,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}

// CustomerModel is the persistence model for store customers
type CustomerModel struct {
	AggregateModel
	Email      string `gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName  string `gorm:"type:varchar(100)"`
	LastName   string `gorm:"type:varchar(100)"`
	Phone      string `gorm:"type:varchar(50)"`
	HasAccount bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *identity.Customer {
	return &identity.Customer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Email:             m.Email,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Phone:             m.Phone,
		HasAccount:        m.HasAccount,
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer
func CustomerModelFromDomain(c *identity.Customer) *CustomerModel {
	m := &CustomerModel{
		Email:      c.Email,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Phone:      c.Phone,
		HasAccount: c.HasAccount,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
