package identity

import (
	"strings"

	"github.com/marketplace/backend/internal/domain/shared"
)

// User is a marketplace operator with access to the admin API
type User struct {
	shared.BaseAggregateRoot
	Email     string
	FirstName string
	LastName  string
}

// NewUser creates a new admin user
func NewUser(email, firstName, lastName string) (*User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
	}
	u.AddDomainEvent(NewUserCreatedEvent(u))
	return u, nil
}

// FullName returns the display name of the user
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
