// Package account holds the account aggregate: existence and lifecycle state.
// Balances live in the balance package; an account only knows who owns it and
// whether it may take part in new movements.
package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// State describes the lifecycle state of an account
type State string

const (
	StateOpen    State = "OPEN"
	StateBlocked State = "BLOCKED"
	StateClosed  State = "CLOSED"
)

// Common errors
var (
	ErrEmptyOwner       = errors.New("owner user id cannot be empty")
	ErrAccountClosed    = errors.New("account is closed")
	ErrInvalidStateName = errors.New("invalid account state")
)

// Account represents a bank account
type Account struct {
	ID          uuid.UUID `json:"id"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	State       State     `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// New creates an account in state OPEN for the given owner
func New(ownerUserID uuid.UUID) (*Account, error) {
	if ownerUserID == uuid.Nil {
		return nil, ErrEmptyOwner
	}
	now := time.Now()
	return &Account{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		State:       StateOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsOpen reports whether the account may take part in new movements
func (a *Account) IsOpen() bool {
	return a.State == StateOpen
}

// Block marks the account BLOCKED. Closed accounts cannot be blocked.
func (a *Account) Block() error {
	if a.State == StateClosed {
		return ErrAccountClosed
	}
	a.State = StateBlocked
	a.UpdatedAt = time.Now()
	return nil
}

// Reopen returns a blocked account to OPEN. Closed accounts stay closed.
func (a *Account) Reopen() error {
	if a.State == StateClosed {
		return ErrAccountClosed
	}
	a.State = StateOpen
	a.UpdatedAt = time.Now()
	return nil
}

// Close marks the account CLOSED. Terminal; closing twice is a no-op.
func (a *Account) Close() {
	a.State = StateClosed
	a.UpdatedAt = time.Now()
}

// ParseState converts a string into a State, rejecting unknown values
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateOpen, StateBlocked, StateClosed:
		return State(s), nil
	}
	return "", ErrInvalidStateName
}
