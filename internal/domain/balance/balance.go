// Package balance owns the authoritative per-account balance. Exactly one row
// exists per account, created zero-valued when the account opens, and mutated
// only through the repository's deposit/withdraw primitives. The amount is
// never derived from transaction history.
package balance

import (
	"time"

	"github.com/google/uuid"

	"github.com/atlas-banking-core/internal/domain/money"
)

// Balance is the current balance of one account
type Balance struct {
	AccountID uuid.UUID   `json:"account_id"`
	Amount    money.Money `json:"amount"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewZero creates the initial zero balance for a freshly opened account
func NewZero(accountID uuid.UUID, currency string) (*Balance, error) {
	if _, err := money.New(0, currency); err != nil {
		return nil, err
	}
	return &Balance{
		AccountID: accountID,
		Amount:    money.Zero(currency),
		UpdatedAt: time.Now(),
	}, nil
}

// Deposit adds a positive, currency-matched amount
func (b *Balance) Deposit(amount money.Money) error {
	if !amount.IsPositive() {
		return money.ErrInvalidAmount
	}
	next, err := b.Amount.Add(amount)
	if err != nil {
		return err
	}
	b.Amount = next
	b.UpdatedAt = time.Now()
	return nil
}

// Withdraw subtracts a positive, currency-matched amount. There is no
// non-negative floor; callers relying on one must check explicitly.
func (b *Balance) Withdraw(amount money.Money) error {
	if !amount.IsPositive() {
		return money.ErrInvalidAmount
	}
	next, err := b.Amount.Subtract(amount)
	if err != nil {
		return err
	}
	b.Amount = next
	b.UpdatedAt = time.Now()
	return nil
}
