// Package money provides an integer-cent monetary type.
//
// All ledger arithmetic is integer-only; decimals only appear at the JSON
// boundary, where amounts are two-decimal numbers. Parsing and formatting go
// through shopspring/decimal so no binary-float drift can enter the ledger.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a signed monetary value in the smallest currency unit.
type Cents int64

// FromDecimal converts a decimal amount (e.g. 10.005) to cents, rounding
// half away from zero.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Shift(2).Round(0).IntPart())
}

// Parse converts a decimal string such as "30.00" or "-0.5" to cents.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// Decimal returns the amount as a two-decimal-place decimal.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with two decimal places, e.g. "-10.00".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// MarshalJSON encodes the amount as a plain two-decimal JSON number,
// matching the wire contract (net_balance, amount fields).
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts JSON numbers or decimal strings and rounds to the
// nearest cent.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*c = FromDecimal(d)
	return nil
}
