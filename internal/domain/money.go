package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in integer minor units (1/100).
// All balance arithmetic happens on this type; decimals only appear
// at the parsing and formatting boundary.
type Cents int64

var hundred = decimal.NewFromInt(100)

// ParseCents converts a user-supplied amount string into Cents.
// The amount must be a positive number with at most two fractional
// digits; anything else is ErrInvalidAmount.
func ParseCents(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("ParseCents: %q: %w", s, ErrInvalidAmount)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("ParseCents: %q: %w", s, ErrInvalidAmount)
	}
	scaled := d.Mul(hundred)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("ParseCents: %q: %w", s, ErrInvalidAmount)
	}
	if !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("ParseCents: %q: %w", s, ErrInvalidAmount)
	}
	return Cents(scaled.IntPart()), nil
}

// String renders the amount with exactly two decimal places, e.g. "100.00".
func (c Cents) String() string {
	return decimal.New(int64(c), -2).StringFixed(2)
}

func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}
