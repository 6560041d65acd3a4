// Package money holds currency amounts as integer cents.
//
// Amounts cross the API and database boundaries as decimals with two
// fractional digits; inside the application every sum, share and balance is
// an exact int64 count of cents.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an amount in hundredths of the currency unit.
type Cents int64

// Zero is the zero amount.
const Zero Cents = 0

var ErrInvalidAmount = errors.New("invalid amount")

// FromDecimal rounds d half away from zero to whole cents.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Shift(2).Round(0).IntPart())
}

// FromFloat converts a float amount (e.g. 12.345) to cents, rounding half away from zero.
func FromFloat(f float64) Cents {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Parse reads a decimal string such as "12.34" or "-3". More than two
// fractional digits are rounded half away from zero.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d), nil
}

// MustParse is Parse for literals; it panics on malformed input.
func MustParse(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Decimal returns the amount in currency units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float64 is for display and conversion math only.
func (c Cents) Float64() float64 {
	return c.Decimal().InexactFloat64()
}

// String formats the amount with exactly two fractional digits.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Abs returns the magnitude of c.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// Sum adds up amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}

// MarshalJSON writes the amount as a JSON number with two decimals.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}
	*c = FromDecimal(d)
	return nil
}

// Scan reads NUMERIC columns.
func (c *Cents) Scan(value any) error {
	var d decimal.NullDecimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan amount: %w", err)
	}
	if !d.Valid {
		*c = 0
		return nil
	}
	*c = FromDecimal(d.Decimal)
	return nil
}

// Value writes the amount as a decimal string for NUMERIC columns.
func (c Cents) Value() (driver.Value, error) {
	return c.String(), nil
}

// ValidCurrencyCode reports whether code looks like an ISO 4217 or crypto
// ticker: three to five upper-case letters.
func ValidCurrencyCode(code string) bool {
	if len(code) < 3 || len(code) > 5 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
