package models

// All returns every persistence model in dependency order for AutoMigrate
func All() []any {
	return []any{
		&AuthIdentityModel{},
		&UserModel{},
		&CustomerModel{},
		&SellerModel{},
		&MemberModel{},
		&MemberInviteModel{},
		&SellerOnboardingModel{},
		&ProductTypeModel{},
		&ProductCategoryModel{},
		&ProductModel{},
		&AttributeModel{},
		&AttributePossibleValueModel{},
		&AttributeCategoryModel{},
		&AttributeValueModel{},
		&PriceListModel{},
		&PriceModel{},
		&ShippingProfileModel{},
		&ShippingOptionModel{},
		&DisplayIDSequenceModel{},
		&OrderSetModel{},
		&OrderModel{},
		&OrderLineItemModel{},
		&CommissionRuleModel{},
		&CommissionLineModel{},
		&PayoutAccountModel{},
		&PayoutOnboardingModel{},
		&PayoutModel{},
		&PayoutReversalModel{},
		&ReturnRequestModel{},
		&ReturnRequestLineModel{},
		&WishlistModel{},
		&WishlistItemModel{},
		&OutboxEntryModel{},
	}
}
