package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of decimal places stored for monetary amounts
const AmountPlaces = 2

// ErrCurrencyMismatch is returned when combining amounts in different currencies
var ErrCurrencyMismatch = errors.New("currency mismatch")

// NormalizeCurrency lowercases and trims an ISO 4217 currency code
func NormalizeCurrency(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// RoundAmount rounds to AmountPlaces, half away from zero
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// Money is a value object representing a monetary amount.
// It is immutable - all operations return new Money instances.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	currency = NormalizeCurrency(currency)
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("invalid currency code %q", currency)
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustMoney creates Money and panics on an invalid currency
func MustMoney(amount decimal.Decimal, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency string) Money {
	return Money{amount: decimal.Zero, currency: NormalizeCurrency(currency)}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the lowercase currency code
func (m Money) Currency() string {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add returns the sum of both amounts
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns the difference of both amounts
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// MultiplyByInt returns the amount multiplied by an integer
func (m Money) MultiplyByInt(factor int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(factor)), currency: m.currency}
}

// Percentage returns percent% of the amount, rounded
func (m Money) Percentage(percent decimal.Decimal) Money {
	return Money{
		amount:   RoundAmount(m.amount.Mul(percent).Div(decimal.NewFromInt(100))),
		currency: m.currency,
	}
}

// Clamp limits the amount to [lower, upper]; nil bounds are ignored
func (m Money) Clamp(lower, upper *decimal.Decimal) Money {
	amount := m.amount
	if lower != nil && amount.LessThan(*lower) {
		amount = *lower
	}
	if upper != nil && amount.GreaterThan(*upper) {
		amount = *upper
	}
	return Money{amount: amount, currency: m.currency}
}

// Round returns the Money rounded to AmountPlaces
func (m Money) Round() Money {
	return Money{amount: RoundAmount(m.amount), currency: m.currency}
}

// Equals returns true if both Money values have the same amount and currency
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(AmountPlaces), strings.ToUpper(m.currency))
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(CurrencyAmount{CurrencyCode: m.currency, Amount: m.amount})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var v CurrencyAmount
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewMoney(v.Amount, v.CurrencyCode)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// CurrencyAmount is an amount tagged with a currency, as stored in
// per-currency configuration such as flat commission fees
type CurrencyAmount struct {
	CurrencyCode string          `json:"currency_code"`
	Amount       decimal.Decimal `json:"amount"`
}

// CurrencyAmounts is a list of per-currency amounts
type CurrencyAmounts []CurrencyAmount

// For returns the amount configured for the currency, if any
func (c CurrencyAmounts) For(currency string) (decimal.Decimal, bool) {
	currency = NormalizeCurrency(currency)
	for _, a := range c {
		if NormalizeCurrency(a.CurrencyCode) == currency {
			return a.Amount, true
		}
	}
	return decimal.Zero, false
}

// Validate checks every entry has a currency code and a non-negative amount
func (c CurrencyAmounts) Validate() error {
	seen := make(map[string]bool, len(c))
	for _, a := range c {
		code := NormalizeCurrency(a.CurrencyCode)
		if len(code) != 3 {
			return fmt.Errorf("invalid currency code %q", a.CurrencyCode)
		}
		if a.Amount.IsNegative() {
			return fmt.Errorf("amount for %s cannot be negative", code)
		}
		if seen[code] {
			return fmt.Errorf("duplicate amount for %s", code)
		}
		seen[code] = true
	}
	return nil
}
