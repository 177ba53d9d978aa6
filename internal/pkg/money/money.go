package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount as an integer number of centavos.
// All remittance arithmetic happens on this type; decimals only
// appear at the database boundary.
type Cents int64

var hundred = decimal.NewFromInt(100)

// FromDecimal converts a numeric(12,2) value into cents.
// Values with sub-cent residue are rejected instead of rounded,
// a rounding difference here would change what the bank transfers.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	scaled := d.Mul(hundred)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("money: %s has sub-cent precision", d.String())
	}
	if scaled.IsNegative() {
		return 0, fmt.Errorf("money: negative amount %s", d.String())
	}
	return Cents(scaled.IntPart()), nil
}

// FromUnits builds an amount from whole currency units and cents.
func FromUnits(units int64, cents int64) Cents {
	return Cents(units*100 + cents)
}

// Decimal converts back to a two-decimal value for persistence.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(hundred)
}

// Add returns c + other.
func (c Cents) Add(other Cents) Cents {
	return c + other
}

// IsPositive reports whether the amount is strictly greater than zero.
func (c Cents) IsPositive() bool {
	return c > 0
}

// Format renders the amount in pt-BR display form, e.g. 1500050 -> "15.000,50".
func (c Cents) Format() string {
	units := int64(c) / 100
	rem := int64(c) % 100

	digits := fmt.Sprintf("%d", units)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return fmt.Sprintf("%s,%02d", strings.Join(groups, "."), rem)
}

func (c Cents) String() string {
	return c.Format()
}
