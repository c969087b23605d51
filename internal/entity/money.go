package entity

import (
	"errors"
	"fmt"
	"math"
)

// ErrValidation is the base error wrapped by every value-object
// constructor failure. Callers match it with errors.Is to distinguish
// malformed input from domain-rule violations.
var ErrValidation = errors.New("validation error")

// Money is a positive monetary value with 2-decimal precision.
type Money struct {
	amount float64
}

// NewMoney validates and rounds the amount to 2 decimal places.
func NewMoney(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, fmt.Errorf("%w: value must be a finite number", ErrValidation)
	}

	if amount < 0 {
		return Money{}, fmt.Errorf("%w: value cannot be negative", ErrValidation)
	}

	if amount == 0 {
		return Money{}, fmt.Errorf("%w: value must be greater than zero", ErrValidation)
	}

	return Money{amount: math.Round(amount*100) / 100}, nil
}

func (m Money) Amount() float64 {
	return m.amount
}

// Equals compares two amounts within half a cent, so values that round
// to the same 2-decimal representation are equal.
func (m Money) Equals(other Money) bool {
	return math.Abs(m.amount-other.amount) < 0.005
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.amount)
}
