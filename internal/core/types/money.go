// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors; amounts are
// rounded to 2 fractional digits only at well-defined points
// (line totals, tax amounts, installment amounts).
type Money = decimal.Decimal

// MoneyScale is the number of fractional digits monetary amounts carry
// once rounded (Postgres NUMERIC(15,2) semantics).
const MoneyScale = 2

// TotalTolerance is the maximum accepted difference between a declared
// document total and the sum of its computed line totals.
var TotalTolerance = decimal.New(1, -2) // 0.01

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundMoney rounds to MoneyScale digits, half away from zero.
func RoundMoney(m Money) Money {
	return m.Round(MoneyScale)
}

// Percent applies a percentage rate to a base amount: base * rate / 100,
// rounded to MoneyScale digits.
func Percent(base, rate Money) Money {
	return RoundMoney(base.Mul(rate).Div(decimal.NewFromInt(100)))
}

// WithinTolerance reports whether two amounts differ by at most
// TotalTolerance.
func WithinTolerance(a, b Money) bool {
	return a.Sub(b).Abs().LessThanOrEqual(TotalTolerance)
}
