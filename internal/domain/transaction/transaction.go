// Package transaction models ledger movement records and their state machine.
// A record is immutable except for State, which only ever moves
// PENDING -> CONFIRMED or PENDING -> DECLINED. The two legs of a transfer
// share a GroupID and transition together.
package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atlas-banking-core/internal/domain/money"
)

// Type is the kind of movement a record belongs to
type Type string

const (
	TypeDeposit  Type = "DEPOSIT"
	TypeWithdraw Type = "WITHDRAW"
	TypeTransfer Type = "TRANSFER"
)

// Direction marks which side of a movement a record sits on
type Direction string

const (
	DirectionOutgoing Direction = "OUTGOING"
	DirectionIncoming Direction = "INCOMING"
)

// State is the confirmation state of a record
type State string

const (
	StatePending   State = "PENDING"
	StateConfirmed State = "CONFIRMED"
	StateDeclined  State = "DECLINED"
)

// Transaction is one ledger movement record (one leg, for transfers)
type Transaction struct {
	ID        uuid.UUID   `json:"id"`
	GroupID   uuid.UUID   `json:"group_id"`
	UserID    uuid.UUID   `json:"user_id"`
	AccountID uuid.UUID   `json:"account_id"`
	Amount    money.Money `json:"amount"`
	Type      Type        `json:"type"`
	Direction Direction   `json:"direction"`
	State     State       `json:"state"`
	Concept   string      `json:"concept"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewDeposit creates the single, immediately confirmed leg of a deposit.
// Deposits need no confirmation; the group id is fresh and unshared.
func NewDeposit(userID, accountID uuid.UUID, amount money.Money, concept string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, money.ErrInvalidAmount
	}
	return &Transaction{
		ID:        uuid.New(),
		GroupID:   uuid.New(),
		UserID:    userID,
		AccountID: accountID,
		Amount:    amount,
		Type:      TypeDeposit,
		Direction: DirectionIncoming,
		State:     StateConfirmed,
		Concept:   concept,
		CreatedAt: time.Now(),
	}, nil
}

// NewWithdrawal creates the single, immediately confirmed leg of a withdrawal
func NewWithdrawal(userID, accountID uuid.UUID, amount money.Money, concept string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, money.ErrInvalidAmount
	}
	return &Transaction{
		ID:        uuid.New(),
		GroupID:   uuid.New(),
		UserID:    userID,
		AccountID: accountID,
		Amount:    amount,
		Type:      TypeWithdraw,
		Direction: DirectionOutgoing,
		State:     StateConfirmed,
		Concept:   concept,
		CreatedAt: time.Now(),
	}, nil
}

// NewTransferLegs creates the OUTGOING origin leg and INCOMING destination leg
// of a transfer. Both start PENDING and share one fresh group id.
func NewTransferLegs(userID, originID, destinationID uuid.UUID, amount money.Money, concept string) (*Transaction, *Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, money.ErrInvalidAmount
	}
	groupID := uuid.New()
	now := time.Now()
	outgoing := &Transaction{
		ID:        uuid.New(),
		GroupID:   groupID,
		UserID:    userID,
		AccountID: originID,
		Amount:    amount,
		Type:      TypeTransfer,
		Direction: DirectionOutgoing,
		State:     StatePending,
		Concept:   concept,
		CreatedAt: now,
	}
	incoming := &Transaction{
		ID:        uuid.New(),
		GroupID:   groupID,
		UserID:    userID,
		AccountID: destinationID,
		Amount:    amount,
		Type:      TypeTransfer,
		Direction: DirectionIncoming,
		State:     StatePending,
		Concept:   concept,
		CreatedAt: now,
	}
	return outgoing, incoming, nil
}

// GuardTransition checks whether a record in state `from` may move to `to`.
// Returns (true, nil) when the transition must be applied, (false, nil) when
// the record already sits in the requested terminal state (idempotent no-op),
// and an ErrIllegalStateTransition otherwise.
func GuardTransition(id uuid.UUID, from, to State) (bool, error) {
	if from == to {
		return false, nil
	}
	if from != StatePending {
		return false, ErrIllegalStateTransition{TransactionID: id, Expected: []State{StatePending}, Actual: from}
	}
	return true, nil
}

// ErrIllegalStateTransition indicates a confirm/reject on a record that is not
// PENDING (and not already in the requested terminal state)
type ErrIllegalStateTransition struct {
	TransactionID uuid.UUID
	Expected      []State
	Actual        State
}

func (e ErrIllegalStateTransition) Error() string {
	return fmt.Sprintf("expected state to be one of %v but was %s", e.Expected, e.Actual)
}

// Is implements the errors.Is interface for ErrIllegalStateTransition
func (e ErrIllegalStateTransition) Is(target error) bool {
	t, ok := target.(ErrIllegalStateTransition)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
