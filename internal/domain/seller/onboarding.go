package seller

import (
	"time"

	"github.com/google/uuid"
)

// Onboarding tracks the setup steps a new seller has completed
type Onboarding struct {
	ID                uuid.UUID
	SellerID          uuid.UUID
	StoreInformation  bool
	StripeConnection  bool
	LocationsShipping bool
	Products          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OnboardingFacts are the observations the onboarding flags are derived from
type OnboardingFacts struct {
	HasStoreInformation  bool
	PayoutAccountActive  bool
	ShippingOptionsCount int64
	ProductsCount        int64
}

// NewOnboarding creates an empty onboarding record for a seller
func NewOnboarding(sellerID uuid.UUID) *Onboarding {
	now := time.Now()
	return &Onboarding{
		ID:        uuid.New(),
		SellerID:  sellerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply recomputes every flag from the given facts
func (o *Onboarding) Apply(f OnboardingFacts) {
	o.StoreInformation = f.HasStoreInformation
	o.StripeConnection = f.PayoutAccountActive
	o.LocationsShipping = f.ShippingOptionsCount > 0
	o.Products = f.ProductsCount > 0
	o.UpdatedAt = time.Now()
}

// IsComplete returns true when every step is done
func (o *Onboarding) IsComplete() bool {
	return o.StoreInformation && o.StripeConnection && o.LocationsShipping && o.Products
}
