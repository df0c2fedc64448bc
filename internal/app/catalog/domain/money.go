package domain

import (
	"fmt"
	"math/big"
)

// Money represents a monetary value with precise decimal arithmetic.
// It uses big.Rat internally to avoid floating-point precision issues.
// Money is immutable - all operations return new instances.
type Money struct {
	amount *big.Rat
}

// NewMoney creates a new Money instance from numerator and denominator.
// For example: NewMoney(1999, 100) represents 19.99
func NewMoney(numerator, denominator int64) *Money {
	if denominator == 0 {
		panic("money: denominator cannot be zero")
	}
	return &Money{
		amount: big.NewRat(numerator, denominator),
	}
}

// NewMoneyFromDecimal creates Money from a decimal string.
// For example: "19.99", "100", "0.01"
func NewMoneyFromDecimal(decimal string) (*Money, error) {
	rat := new(big.Rat)
	if _, ok := rat.SetString(decimal); !ok {
		return nil, fmt.Errorf("invalid decimal format: %s", decimal)
	}
	if !rat.Num().IsInt64() || !rat.Denom().IsInt64() {
		return nil, fmt.Errorf("decimal out of range: %s", decimal)
	}
	return &Money{amount: rat}, nil
}

var cents = big.NewRat(100, 1)

// ParsePrice parses a non-negative decimal price with at most two decimal
// places, so String renders it exactly.
func ParsePrice(decimal string) (*Money, error) {
	m, err := NewMoneyFromDecimal(decimal)
	if err != nil {
		return nil, err
	}
	if m.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative: %s", decimal)
	}
	if !new(big.Rat).Mul(m.amount, cents).IsInt() {
		return nil, fmt.Errorf("price has more than two decimal places: %s", decimal)
	}
	return m, nil
}

// IsZero returns true if the money amount is zero.
func (m *Money) IsZero() bool {
	return m.amount.Sign() == 0
}

// IsNegative returns true if the money amount is negative.
func (m *Money) IsNegative() bool {
	return m.amount.Sign() < 0
}

// GreaterThan returns true if m is greater than other.
func (m *Money) GreaterThan(other *Money) bool {
	return m.amount.Cmp(other.amount) > 0
}

// Equals returns true if m equals other.
func (m *Money) Equals(other *Money) bool {
	if other == nil {
		return false
	}
	return m.amount.Cmp(other.amount) == 0
}

// Numerator returns the numerator of the internal rational representation.
// Used for database persistence.
func (m *Money) Numerator() int64 {
	return m.amount.Num().Int64()
}

// Denominator returns the denominator of the internal rational representation.
// Used for database persistence.
func (m *Money) Denominator() int64 {
	return m.amount.Denom().Int64()
}

// String returns the amount with two decimals, e.g. "19.99".
func (m *Money) String() string {
	return m.amount.FloatString(2)
}

// MarshalText renders the exact rational for JSON payloads.
func (m *Money) MarshalText() ([]byte, error) {
	if m.amount.IsInt() {
		return []byte(m.amount.Num().String()), nil
	}
	return []byte(m.amount.FloatString(4)), nil
}
