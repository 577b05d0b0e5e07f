package commission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func percent(rate string) Rate {
	return Rate{Type: RateTypePercentage, PercentageRate: dec(rate)}
}

func mustRule(t *testing.T, name string, ref ReferenceType, referenceID string, rate Rate) Rule {
	t.Helper()
	r, err := NewRule(name, ref, referenceID, rate)
	require.NoError(t, err)
	return *r
}

func TestParseReference(t *testing.T) {
	seller := uuid.New()
	category := uuid.New()

	_, err := ParseReference(ReferenceSite, "")
	assert.NoError(t, err)
	_, err = ParseReference(ReferenceSite, seller.String())
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))

	p, err := ParseReference(ReferenceSellerProductCategory, ComposeReferenceID(seller, category))
	require.NoError(t, err)
	assert.Equal(t, seller, *p.SellerID)
	assert.Equal(t, category, *p.CategoryID)
	assert.Nil(t, p.TypeID)

	_, err = ParseReference(ReferenceSellerProductType, seller.String())
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))

	_, err = ParseReference(ReferenceProductType, "not-a-uuid")
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestRate_Validate(t *testing.T) {
	assert.NoError(t, percent("12.5").Validate())
	assert.Error(t, percent("101").Validate())
	assert.Error(t, Rate{Type: RateTypeFlat}.Validate())
	assert.Error(t, Rate{Type: "tiered"}.Validate())

	bad := percent("10")
	bad.MinAmounts = valueobject.CurrencyAmounts{{CurrencyCode: "eur", Amount: dec("5")}}
	bad.MaxAmounts = valueobject.CurrencyAmounts{{CurrencyCode: "eur", Amount: dec("2")}}
	assert.True(t, errors.Is(bad.Validate(), shared.ErrInvalidArgument))
}

func TestRuleSet_SelectPrecedence(t *testing.T) {
	seller := uuid.New()
	otherSeller := uuid.New()
	typeID := uuid.New()
	categoryID := uuid.New()

	site := mustRule(t, "Site", ReferenceSite, "", percent("10"))
	byType := mustRule(t, "Type", ReferenceProductType, typeID.String(), percent("11"))
	byCategory := mustRule(t, "Category", ReferenceProductCategory, categoryID.String(), percent("12"))
	bySeller := mustRule(t, "Seller", ReferenceSeller, seller.String(), percent("13"))
	bySellerType := mustRule(t, "Seller type", ReferenceSellerProductType, ComposeReferenceID(seller, typeID), percent("14"))
	bySellerCategory := mustRule(t, "Seller category", ReferenceSellerProductCategory, ComposeReferenceID(seller, categoryID), percent("15"))
	inactive := mustRule(t, "Inactive", ReferenceSeller, otherSeller.String(), percent("50"))
	inactive.IsActive = false

	all := []Rule{site, byType, byCategory, bySeller, bySellerType, bySellerCategory, inactive}

	tests := []struct {
		name     string
		rules    []Rule
		seller   uuid.UUID
		typeID   *uuid.UUID
		category *uuid.UUID
		want     string
	}{
		{"seller+category beats everything", all, seller, &typeID, &categoryID, "Seller category"},
		{"seller+type without category", all, seller, &typeID, nil, "Seller type"},
		{"seller without product refs", all, seller, nil, nil, "Seller"},
		{"category for other seller", all, otherSeller, &typeID, &categoryID, "Category"},
		{"type for other seller", all, otherSeller, &typeID, nil, "Type"},
		{"inactive rule skipped, site fallback", all, otherSeller, nil, nil, "Site"},
		{"no rules", nil, seller, &typeID, &categoryID, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRuleSet(tt.rules).Select(tt.seller, tt.typeID, tt.category)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestCalculate(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	seller := uuid.New()
	shoes := uuid.New()
	bags := uuid.New()

	siteRate := percent("10")
	siteRate.IncludeShipping = true
	site := mustRule(t, "Site fee", ReferenceSite, "", siteRate)

	shoeRate := percent("20")
	shoeRate.IncludeTax = true
	shoeRate.MaxAmounts = valueobject.CurrencyAmounts{{CurrencyCode: "eur", Amount: dec("15")}}
	shoeRule := mustRule(t, "Shoes", ReferenceSellerProductCategory, ComposeReferenceID(seller, shoes), shoeRate)

	bagRule := mustRule(t, "Bags flat", ReferenceProductCategory, bags.String(), Rate{
		Type:        RateTypeFlat,
		FlatAmounts: valueobject.CurrencyAmounts{{CurrencyCode: "eur", Amount: dec("1.50")}},
	})

	shoeLine, bagLine, plainLine := uuid.New(), uuid.New(), uuid.New()
	in := OrderInput{
		OrderID:      uuid.New(),
		SellerID:     seller,
		CurrencyCode: "EUR",
		Items: []ItemInput{
			{LineItemID: shoeLine, CategoryID: &shoes, Quantity: 1, Subtotal: dec("100"), TaxTotal: dec("19")},
			{LineItemID: bagLine, CategoryID: &bags, Quantity: 3, Subtotal: dec("60"), TaxTotal: dec("0")},
			{LineItemID: plainLine, Quantity: 1, Subtotal: dec("33.35"), TaxTotal: dec("3")},
		},
		ShippingTotal:    dec("10"),
		ShippingTaxTotal: dec("1"),
	}

	lines := Calculate(in, NewRuleSet([]Rule{site, shoeRule, bagRule}), now)
	require.Len(t, lines, 4)

	byItem := make(map[string]Line, len(lines))
	for _, l := range lines {
		byItem[l.ItemLineID] = l
		assert.Equal(t, "eur", l.CurrencyCode)
		assert.Equal(t, in.OrderID, l.OrderID)
		assert.Equal(t, now, l.CreatedAt)
	}

	// 20% of 119 = 23.80 capped at 15
	assert.True(t, byItem[shoeLine.String()].Value.Equal(dec("15")))
	assert.Equal(t, "shoes", byItem[shoeLine.String()].Code)
	// 1.50 per unit
	assert.True(t, byItem[bagLine.String()].Value.Equal(dec("4.50")))
	// 10% of 33.35 = 3.335 rounds half away from zero
	assert.True(t, byItem[plainLine.String()].Value.Equal(dec("3.34")), byItem[plainLine.String()].Value.String())
	// shipping without tax
	assert.True(t, byItem[ShippingLineID].Value.Equal(dec("1")))
	assert.Equal(t, site.ID, byItem[ShippingLineID].RuleID)

	assert.True(t, Sum(lines).Equal(dec("23.84")))
}

func TestCalculate_NoShippingWithoutIncludeShipping(t *testing.T) {
	seller := uuid.New()
	site := mustRule(t, "Site", ReferenceSite, "", percent("10"))
	in := OrderInput{
		OrderID:       uuid.New(),
		SellerID:      seller,
		CurrencyCode:  "usd",
		Items:         []ItemInput{{LineItemID: uuid.New(), Quantity: 1, Subtotal: dec("50")}},
		ShippingTotal: dec("8"),
	}
	lines := Calculate(in, NewRuleSet([]Rule{site}), time.Now())
	require.Len(t, lines, 1)
	assert.NotEqual(t, ShippingLineID, lines[0].ItemLineID)
}

func TestCalculate_FlatRateOnShipping(t *testing.T) {
	seller := uuid.New()
	flat := mustRule(t, "Flat", ReferenceSeller, seller.String(), Rate{
		Type:            RateTypeFlat,
		IncludeShipping: true,
		FlatAmounts:     valueobject.CurrencyAmounts{{CurrencyCode: "usd", Amount: dec("2")}},
	})
	item := uuid.New()
	in := OrderInput{
		OrderID:       uuid.New(),
		SellerID:      seller,
		CurrencyCode:  "usd",
		Items:         []ItemInput{{LineItemID: item, Quantity: 3, Subtotal: dec("90")}},
		ShippingTotal: dec("12"),
	}
	lines := Calculate(in, NewRuleSet([]Rule{flat}), time.Now())
	require.Len(t, lines, 2)
	assert.Equal(t, item.String(), lines[0].ItemLineID)
	assert.True(t, lines[0].Value.Equal(dec("6")), "per unit on items")
	assert.Equal(t, ShippingLineID, lines[1].ItemLineID)
	assert.True(t, lines[1].Value.Equal(dec("2")), "once on shipping")

	in.ShippingTotal = decimal.Zero
	assert.Len(t, Calculate(in, NewRuleSet([]Rule{flat}), time.Now()), 1, "free shipping carries no commission")
}

func TestCalculate_FlatRateMissingCurrency(t *testing.T) {
	seller := uuid.New()
	flat := mustRule(t, "Flat", ReferenceSeller, seller.String(), Rate{
		Type:        RateTypeFlat,
		FlatAmounts: valueobject.CurrencyAmounts{{CurrencyCode: "usd", Amount: dec("2")}},
	})
	in := OrderInput{
		OrderID:      uuid.New(),
		SellerID:     seller,
		CurrencyCode: "eur",
		Items:        []ItemInput{{LineItemID: uuid.New(), Quantity: 2, Subtotal: dec("50")}},
	}
	assert.Empty(t, Calculate(in, NewRuleSet([]Rule{flat}), time.Now()))
}

type fakeLookup struct {
	calls   map[string]int
	sellers map[uuid.UUID]string
	types   map[uuid.UUID]string
	cats    map[uuid.UUID]string
}

func (f *fakeLookup) SellerNames(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	f.calls["sellers"]++
	return pick(f.sellers, ids), nil
}

func (f *fakeLookup) ProductTypeValues(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	f.calls["types"]++
	return pick(f.types, ids), nil
}

func (f *fakeLookup) CategoryNames(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	f.calls["categories"]++
	return pick(f.cats, ids), nil
}

func pick(src map[uuid.UUID]string, ids []uuid.UUID) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string)
	for _, id := range ids {
		if v, ok := src[id]; ok {
			out[id] = v
		}
	}
	return out
}

func TestResolveReferences(t *testing.T) {
	acme, globex, ghost := uuid.New(), uuid.New(), uuid.New()
	shoes := uuid.New()
	apparel := uuid.New()

	lookup := &fakeLookup{
		calls:   map[string]int{},
		sellers: map[uuid.UUID]string{acme: "Acme", globex: "Globex"},
		types:   map[uuid.UUID]string{apparel: "Apparel"},
		cats:    map[uuid.UUID]string{shoes: "Shoes"},
	}

	rules := []Rule{
		mustRule(t, "site", ReferenceSite, "", percent("10")),
		mustRule(t, "acme", ReferenceSeller, acme.String(), percent("10")),
		mustRule(t, "globex", ReferenceSeller, globex.String(), percent("10")),
		mustRule(t, "ghost", ReferenceSeller, ghost.String(), percent("10")),
		mustRule(t, "apparel", ReferenceProductType, apparel.String(), percent("10")),
		mustRule(t, "acme shoes", ReferenceSellerProductCategory, ComposeReferenceID(acme, shoes), percent("10")),
	}
	broken := mustRule(t, "broken", ReferenceSeller, acme.String(), percent("10"))
	broken.ReferenceID = "garbage"
	rules = append(rules, broken)

	display, err := ResolveReferences(context.Background(), rules, lookup)
	require.NoError(t, err)

	assert.Equal(t, SiteDisplay, display[rules[0].ID])
	assert.Equal(t, "Acme", display[rules[1].ID])
	assert.Equal(t, "Globex", display[rules[2].ID])
	assert.Equal(t, ghost.String(), display[rules[3].ID])
	assert.Equal(t, "Apparel", display[rules[4].ID])
	assert.Equal(t, "Acme / Shoes", display[rules[5].ID])
	assert.Equal(t, "garbage", display[broken.ID])

	// one batched lookup per kind regardless of rule count
	assert.Equal(t, map[string]int{"sellers": 1, "types": 1, "categories": 1}, lookup.calls)
}

func TestResolveReferences_SkipsEmptyKinds(t *testing.T) {
	lookup := &fakeLookup{calls: map[string]int{}}
	rules := []Rule{mustRule(t, "site", ReferenceSite, "", percent("5"))}

	display, err := ResolveReferences(context.Background(), rules, lookup)
	require.NoError(t, err)
	assert.Equal(t, SiteDisplay, display[rules[0].ID])
	assert.Empty(t, lookup.calls)
}
