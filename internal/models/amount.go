package models

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Limits of the DECIMAL(10, 2) amount column.
const (
	AmountScale     = 2
	AmountIntDigits = 8
)

// Amount is a fixed-point money value with two fractional digits on the wire.
// Scanning and driver encoding come from the embedded decimal.
type Amount struct {
	decimal.Decimal
}

func NewAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d}, nil
}

func MustAmount(s string) Amount {
	a, err := NewAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount { return Amount{a.Decimal.Add(b.Decimal)} }

func (a Amount) Equal(b Amount) bool { return a.Decimal.Equal(b.Decimal) }

// FitsColumn reports whether a is stored exactly: no more than two significant
// fractional digits and an absolute value below 1e8. Only the coefficient and
// exponent are inspected, so a huge exponent is never expanded.
func (a Amount) FitsColumn() bool {
	if a.IsZero() {
		return true
	}
	coef := new(big.Int).Abs(a.Coefficient())
	digits := int64(len(coef.String()))
	exp := int64(a.Exponent())
	if exp < -AmountScale {
		// the extra fractional digits must all be zeros
		k := -AmountScale - exp
		if k >= digits {
			return false
		}
		mod := new(big.Int).Exp(big.NewInt(10), big.NewInt(k), nil)
		if new(big.Int).Mod(coef, mod).Sign() != 0 {
			return false
		}
	}
	return digits+exp <= AmountIntDigits
}

// MarshalJSON renders the amount as a quoted decimal string, e.g. "-4.50".
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.StringFixed(2) + `"`), nil
}
