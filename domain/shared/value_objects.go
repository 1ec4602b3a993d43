package shared

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MoneyTolerance is the largest difference treated as equal when comparing derived amounts.
var MoneyTolerance = decimal.RequireFromString("0.01")

// ErrNegativeAmount is returned when an amount that must be non-negative is below zero.
var ErrNegativeAmount = errors.New("amount must not be negative")

// Money is an immutable amount in a currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a Money value object.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{amount: amount, currency: currency}
}

// Zero returns zero in currency.
func Zero(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errors.New("cannot add money with different currencies")
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns m - other.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errors.New("cannot subtract money with different currencies")
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Multiply returns m * quantity.
func (m Money) Multiply(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))), currency: m.currency}
}

func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Equals compares two Money values exactly.
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount) && m.currency == other.currency
}

// WithinTolerance reports whether a and b differ by at most MoneyTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(MoneyTolerance)
}
