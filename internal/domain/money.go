package domain

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places every stored amount carries.
const MoneyScale int32 = 2

// Money is an exact fixed-point monetary quantity rounded to MoneyScale places.
// The zero value is 0.00.
type Money struct {
	d decimal.Decimal
}

// ZeroMoney is 0.00.
var ZeroMoney = Money{}

// NewMoney rounds d half away from zero to MoneyScale places.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d.Round(MoneyScale)}
}

// MoneyFromInt creates a whole-unit amount.
func MoneyFromInt(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

// MoneyFromCents creates an amount from minor units (1050 -> 10.50).
func MoneyFromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -MoneyScale)}
}

// MustParseMoney is ParseMoney for constants and tests. It panics on bad input.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMoney is the single string-to-money entry point. It accepts "1234.5",
// "1234,5", "1.234,56" and "1,234.56"; when both separators are present the
// last one is the decimal separator.
func ParseMoney(s string) (Money, error) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, " ", "")
	if raw == "" {
		return Money{}, fmt.Errorf("%w: empty amount", ErrInvalidAmountFormat)
	}

	lastDot := strings.LastIndex(raw, ".")
	lastComma := strings.LastIndex(raw, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(raw, ",") > 1 {
			raw = strings.ReplaceAll(raw, ",", "")
		} else {
			raw = strings.Replace(raw, ",", ".", 1)
		}
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmountFormat, s)
	}

	return NewMoney(d), nil
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

func (m Money) Add(o Money) Money {
	return NewMoney(m.d.Add(o.d))
}

func (m Money) Sub(o Money) Money {
	return NewMoney(m.d.Sub(o.d))
}

// Mul multiplies by a scalar factor (an exchange rate, a percentage).
func (m Money) Mul(factor decimal.Decimal) Money {
	return NewMoney(m.d.Mul(factor))
}

// MulInt multiplies by an integer, typically a ledger sign.
func (m Money) MulInt(n int64) Money {
	return NewMoney(m.d.Mul(decimal.NewFromInt(n)))
}

func (m Money) Neg() Money {
	return Money{d: m.d.Neg()}
}

// Round returns m rounded half away from zero to scale places.
func (m Money) Round(scale int32) Money {
	return Money{d: m.d.Round(scale)}
}

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(o Money) int {
	return m.d.Cmp(o.d)
}

// Equal compares exact decimal values; 1.0 equals 1.00.
func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

func (m Money) IsZero() bool     { return m.d.IsZero() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }

// String renders the amount with exactly MoneyScale places.
func (m Money) String() string {
	return m.d.StringFixed(MoneyScale)
}

// MarshalJSON encodes the amount as a fixed two-place string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a JSON string or number.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}

	parsed, err := ParseMoney(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

// SumMoney adds amounts left to right.
func SumMoney(amounts ...Money) Money {
	total := ZeroMoney
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
