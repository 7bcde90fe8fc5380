// Package core holds the domain model: money, expenses, budgets and the
// monthly summary derived from them.
package core

import (
	"github.com/shopspring/decimal"
)

// Money is a monetary amount held in cents. Keeping cents avoids
// floating-point drift when summing; JSON payloads still carry plain
// decimal numbers.
type Money struct {
	Cents int64
}

// NewMoneyFromDecimal converts a decimal amount to cents, rounding half
// away from zero on the third decimal place.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

// ParseMoney parses a decimal string such as "12.34" into Money.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return NewMoneyFromDecimal(d), nil
}

// Decimal returns the amount as a decimal value (cents shifted back).
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) String() string {
	return m.Decimal().String()
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// MarshalJSON renders the amount as a bare decimal number, e.g. 12.34.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return ErrInvalidAmount
	}
	*m = NewMoneyFromDecimal(d)
	return nil
}
