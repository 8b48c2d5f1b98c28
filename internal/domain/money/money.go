// Package money provides the immutable monetary value object used across the
// banking core. Amounts are stored in minor units (cents) and every arithmetic
// operation verifies that both operands carry the same currency.
package money

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidCurrencyFormat = errors.New("currency must be a 3-letter code")
)

// ErrCurrencyMismatch indicates an operation between two different currencies
type ErrCurrencyMismatch struct {
	Left  string
	Right string
}

func (e ErrCurrencyMismatch) Error() string {
	return "currency mismatch: " + e.Left + " vs " + e.Right
}

// Is implements the errors.Is interface for ErrCurrencyMismatch
func (e ErrCurrencyMismatch) Is(target error) bool {
	_, ok := target.(ErrCurrencyMismatch)
	return ok
}

// Money is an immutable (amount, currency) pair. Amount is in minor units.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// New creates a Money value, validating the currency code. A zero or negative
// amount is allowed here; positivity is enforced by NewPositive where movement
// semantics require it.
func New(amount int64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrencyFormat
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// NewPositive creates a Money value that must be strictly positive.
// Movement amounts (deposits, withdrawals, transfers) go through this.
func NewPositive(amount int64, currency string) (Money, error) {
	if amount <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return New(amount, currency)
}

// Zero returns a zero-valued Money in the given currency.
func Zero(currency string) Money {
	return Money{Amount: 0, Currency: currency}
}

// Add returns m + other, rejecting currency mismatches.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch{Left: m.Currency, Right: other.Currency}
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Subtract returns m - other, rejecting currency mismatches. The result may be
// negative; overdraft policy is the caller's concern.
func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch{Left: m.Currency, Right: other.Currency}
	}
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}, nil
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Amount > 0
}

// SameCurrency reports whether two values share a currency.
func (m Money) SameCurrency(other Money) bool {
	return m.Currency == other.Currency
}

// String renders the value for logs, e.g. "1700 EUR".
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}
