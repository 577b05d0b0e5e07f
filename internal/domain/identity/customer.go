package identity

import (
	"strings"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Customer is a storefront shopper
type Customer struct {
	shared.BaseAggregateRoot
	Email      string
	FirstName  string
	LastName   string
	Phone      string
	HasAccount bool
}

// NewCustomer creates a customer record. HasAccount is set once credentials exist.
func NewCustomer(email, firstName, lastName, phone string) (*Customer, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(phone) > 50 {
		return nil, shared.InvalidArgument("Phone cannot exceed 50 characters")
	}
	c := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		Phone:             strings.TrimSpace(phone),
	}
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// MarkRegistered flags the customer as having login credentials
func (c *Customer) MarkRegistered() {
	c.HasAccount = true
	c.Touch()
	c.IncrementVersion()
}

// UpdateProfile changes the customer's contact details
func (c *Customer) UpdateProfile(firstName, lastName, phone *string) error {
	if firstName != nil {
		c.FirstName = strings.TrimSpace(*firstName)
	}
	if lastName != nil {
		c.LastName = strings.TrimSpace(*lastName)
	}
	if phone != nil {
		if len(*phone) > 50 {
			return shared.InvalidArgument("Phone cannot exceed 50 characters")
		}
		c.Phone = strings.TrimSpace(*phone)
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}
