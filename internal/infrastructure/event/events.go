package event

import (
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/domain/returnrequest"
	"github.com/marketplace/backend/internal/domain/seller"
)

// RegisterMarketplaceEvents registers every domain event with serializer
func RegisterMarketplaceEvents(serializer *EventSerializer) {
	// identity
	serializer.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	serializer.Register(identity.EventTypeCustomerCreated, &identity.CustomerCreatedEvent{})
	serializer.Register(identity.EventTypeAuthIdentityCreated, &identity.AuthIdentityCreatedEvent{})

	// seller
	serializer.Register(seller.EventTypeSellerCreated, &seller.SellerCreatedEvent{})
	serializer.Register(seller.EventTypeSellerUpdated, &seller.SellerUpdatedEvent{})
	serializer.Register(seller.EventTypeSellerStatusChanged, &seller.SellerStatusChangedEvent{})
	serializer.Register(seller.EventTypeMemberInvited, &seller.MemberInvitedEvent{})

	// catalog
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductStatusChanged, &catalog.ProductStatusChangedEvent{})
	serializer.Register(catalog.EventTypeCategoryCreated, &catalog.CategoryCreatedEvent{})

	// order
	serializer.Register(order.EventTypeOrderPlaced, &order.OrderPlacedEvent{})
	serializer.Register(order.EventTypeOrderDelivered, &order.OrderDeliveredEvent{})
	serializer.Register(order.EventTypeOrderCompleted, &order.OrderCompletedEvent{})
	serializer.Register(order.EventTypeOrderCanceled, &order.OrderCanceledEvent{})

	// payout
	serializer.Register(payout.EventTypePayoutAccountStatusChanged, &payout.PayoutAccountStatusChangedEvent{})
	serializer.Register(payout.EventTypePayoutPaid, &payout.PayoutPaidEvent{})
	serializer.Register(payout.EventTypePayoutFailed, &payout.PayoutFailedEvent{})
	serializer.Register(payout.EventTypePayoutReversed, &payout.PayoutReversedEvent{})

	// return requests
	serializer.Register(returnrequest.EventTypeReturnRequestCreated, &returnrequest.ReturnRequestCreatedEvent{})
	serializer.Register(returnrequest.EventTypeReturnRequestEscalated, &returnrequest.ReturnRequestEscalatedEvent{})
	serializer.Register(returnrequest.EventTypeReturnRequestRefunded, &returnrequest.ReturnRequestRefundedEvent{})
}
