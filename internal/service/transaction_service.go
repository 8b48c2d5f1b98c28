package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atlas-banking-core/internal/domain/access"
	"github.com/atlas-banking-core/internal/domain/account"
	"github.com/atlas-banking-core/internal/domain/balance"
	"github.com/atlas-banking-core/internal/domain/outbox"
	"github.com/atlas-banking-core/internal/domain/transaction"
)

// TransactionServiceImpl is the transaction orchestration engine.
//
// Validation happens before any write, in the order: origin access, origin
// lifecycle state, then (for transfers) destination existence and state.
// Every mutation runs inside one TxRunner unit: the balance row is locked for
// the duration of its read-modify-write, transaction rows and outbox messages
// are inserted in the same unit, and a failure at any step rolls back all of
// it.
//
// Transfers follow the debit-now / credit-on-confirm protocol: the origin is
// debited when the transfer is created, the two PENDING legs share a group
// id, and the destination is only credited when Confirm moves the group to
// CONFIRMED. Reject credits the origin back; the destination never held the
// funds.
type TransactionServiceImpl struct {
	txRunner        TxRunner
	accountRepo     account.Repository
	accessRepo      access.Repository
	balanceRepo     balance.Repository
	transactionRepo transaction.Repository
	outboxRepo      outbox.Repository
	logger          *slog.Logger
}

// NewTransactionService creates the orchestration engine
func NewTransactionService(
	txRunner TxRunner,
	accountRepo account.Repository,
	accessRepo access.Repository,
	balanceRepo balance.Repository,
	transactionRepo transaction.Repository,
	outboxRepo outbox.Repository,
	logger *slog.Logger,
) TransactionService {
	return &TransactionServiceImpl{
		txRunner:        txRunner,
		accountRepo:     accountRepo,
		accessRepo:      accessRepo,
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
		outboxRepo:      outboxRepo,
		logger:          logger,
	}
}

// Deposit credits the account and records one CONFIRMED DEPOSIT transaction
func (s *TransactionServiceImpl) Deposit(ctx context.Context, req MovementRequest) (*transaction.Transaction, error) {
	if err := s.authorizeMovement(ctx, req.AccountID, req.UserID); err != nil {
		return nil, err
	}

	t, err := transaction.NewDeposit(req.UserID, req.AccountID, req.Amount, req.Concept)
	if err != nil {
		return nil, err
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		balances := s.balanceRepo.WithTx(tx)

		b, err := balances.LockForUpdate(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if err := b.Deposit(req.Amount); err != nil {
			return err
		}
		if err := balances.Update(ctx, b); err != nil {
			return err
		}

		if err := s.transactionRepo.WithTx(tx).Create(ctx, t); err != nil {
			return err
		}
		return s.recordOutbox(ctx, tx, t)
	})
	if err != nil {
		s.logger.Error("Deposit failed", "account_id", req.AccountID.String(), "amount", req.Amount.String(), "error", err)
		return nil, err
	}

	s.logger.Info("Deposit completed", "transaction_id", t.ID.String(), "account_id", req.AccountID.String(), "amount", req.Amount.String())
	return t, nil
}

// Withdraw debits the account and records one CONFIRMED WITHDRAW transaction.
// The balance has no non-negative floor; overdraft policy sits with callers.
func (s *TransactionServiceImpl) Withdraw(ctx context.Context, req MovementRequest) (*transaction.Transaction, error) {
	if err := s.authorizeMovement(ctx, req.AccountID, req.UserID); err != nil {
		return nil, err
	}

	t, err := transaction.NewWithdrawal(req.UserID, req.AccountID, req.Amount, req.Concept)
	if err != nil {
		return nil, err
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		balances := s.balanceRepo.WithTx(tx)

		b, err := balances.LockForUpdate(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if err := b.Withdraw(req.Amount); err != nil {
			return err
		}
		if err := balances.Update(ctx, b); err != nil {
			return err
		}

		if err := s.transactionRepo.WithTx(tx).Create(ctx, t); err != nil {
			return err
		}
		return s.recordOutbox(ctx, tx, t)
	})
	if err != nil {
		s.logger.Error("Withdrawal failed", "account_id", req.AccountID.String(), "amount", req.Amount.String(), "error", err)
		return nil, err
	}

	s.logger.Info("Withdrawal completed", "transaction_id", t.ID.String(), "account_id", req.AccountID.String(), "amount", req.Amount.String())
	return t, nil
}

// Transfer debits the origin immediately and inserts the two PENDING legs.
// The destination balance is untouched until Confirm.
func (s *TransactionServiceImpl) Transfer(ctx context.Context, req TransferRequest) (*transaction.Transaction, *transaction.Transaction, error) {
	if err := s.authorizeMovement(ctx, req.OriginID, req.UserID); err != nil {
		return nil, nil, err
	}

	exists, err := s.accountRepo.Exists(ctx, req.DestinationID)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, account.ErrAccountNotFound{AccountID: req.DestinationID}
	}
	dest, err := s.accountRepo.GetByID(ctx, req.DestinationID)
	if err != nil {
		return nil, nil, err
	}
	if !dest.IsOpen() {
		return nil, nil, account.ErrAccountNotOpen{AccountID: dest.ID, State: dest.State}
	}

	outgoing, incoming, err := transaction.NewTransferLegs(req.UserID, req.OriginID, req.DestinationID, req.Amount, req.Concept)
	if err != nil {
		return nil, nil, err
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		balances := s.balanceRepo.WithTx(tx)

		b, err := balances.LockForUpdate(ctx, req.OriginID)
		if err != nil {
			return err
		}
		if err := b.Withdraw(req.Amount); err != nil {
			return err
		}
		if err := balances.Update(ctx, b); err != nil {
			return err
		}

		transactions := s.transactionRepo.WithTx(tx)
		if err := transactions.Create(ctx, outgoing); err != nil {
			return err
		}
		if err := transactions.Create(ctx, incoming); err != nil {
			return err
		}
		if err := s.recordOutbox(ctx, tx, outgoing); err != nil {
			return err
		}
		return s.recordOutbox(ctx, tx, incoming)
	})
	if err != nil {
		s.logger.Error("Transfer failed", "origin_id", req.OriginID.String(), "destination_id", req.DestinationID.String(), "amount", req.Amount.String(), "error", err)
		return nil, nil, err
	}

	s.logger.Info("Transfer created",
		"group_id", outgoing.GroupID.String(),
		"origin_id", req.OriginID.String(),
		"destination_id", req.DestinationID.String(),
		"amount", req.Amount.String(),
	)
	return outgoing, incoming, nil
}

// Confirm credits the destination and moves both legs PENDING -> CONFIRMED.
// A duplicate confirm is swallowed; confirming a declined transfer fails.
func (s *TransactionServiceImpl) Confirm(ctx context.Context, transactionID uuid.UUID) error {
	return s.settle(ctx, transactionID, transaction.StateConfirmed, transaction.DirectionIncoming)
}

// Reject credits the origin back and moves both legs PENDING -> DECLINED.
// A duplicate reject is swallowed; rejecting a confirmed transfer fails.
func (s *TransactionServiceImpl) Reject(ctx context.Context, transactionID uuid.UUID) error {
	return s.settle(ctx, transactionID, transaction.StateDeclined, transaction.DirectionOutgoing)
}

// settle resolves a pending transfer group into a terminal state, crediting
// the account on the leg with the given direction: the destination on
// confirm, the origin (reversing the initial debit) on reject.
func (s *TransactionServiceImpl) settle(ctx context.Context, transactionID uuid.UUID, to transaction.State, creditLeg transaction.Direction) error {
	t, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}

	apply, err := transaction.GuardTransition(t.ID, t.State, to)
	if err != nil {
		return err
	}
	if !apply {
		// Already in the requested terminal state: tolerate retry-on-timeout
		// callers without re-applying the credit.
		s.logger.Info("Transaction already settled, ignoring duplicate call",
			"transaction_id", t.ID.String(), "state", string(t.State))
		return nil
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		transactions := s.transactionRepo.WithTx(tx)

		legs, err := transactions.ListByGroupID(ctx, t.GroupID)
		if err != nil {
			return err
		}

		var credit *transaction.Transaction
		for _, leg := range legs {
			if leg.Direction == creditLeg {
				credit = leg
				break
			}
		}
		if credit == nil {
			return fmt.Errorf("transaction group %s has no %s leg", t.GroupID.String(), creditLeg)
		}

		balances := s.balanceRepo.WithTx(tx)
		b, err := balances.LockForUpdate(ctx, credit.AccountID)
		if err != nil {
			return err
		}
		if err := b.Deposit(credit.Amount); err != nil {
			return err
		}
		if err := balances.Update(ctx, b); err != nil {
			return err
		}

		// CAS on the group: a concurrent duplicate call that won the race
		// leaves zero PENDING rows, and this whole unit rolls back.
		changed, err := transactions.UpdateStateByGroupID(ctx, t.GroupID, transaction.StatePending, to)
		if err != nil {
			return err
		}
		if changed != int64(len(legs)) {
			return transaction.ErrConcurrentStateChange{GroupID: t.GroupID}
		}

		for _, leg := range legs {
			leg.State = to
			if err := s.recordOutbox(ctx, tx, leg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, transaction.ErrConcurrentStateChange{}) {
			s.logger.Warn("Concurrent settlement detected, no changes applied",
				"transaction_id", transactionID.String(), "group_id", t.GroupID.String())
		} else {
			s.logger.Error("Failed to settle transaction",
				"transaction_id", transactionID.String(), "target_state", string(to), "error", err)
		}
		return err
	}

	s.logger.Info("Transaction settled",
		"transaction_id", transactionID.String(),
		"group_id", t.GroupID.String(),
		"state", string(to),
	)
	return nil
}

// GetByID retrieves one transaction record
func (s *TransactionServiceImpl) GetByID(ctx context.Context, transactionID uuid.UUID) (*transaction.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, transactionID)
}

// ListByAccountID retrieves a page of records touching the account, newest
// first, plus the total count
func (s *TransactionServiceImpl) ListByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*transaction.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	total, err := s.transactionRepo.CountByAccountID(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}

	transactions, err := s.transactionRepo.ListByAccountID(ctx, accountID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// ListByGroupID retrieves the paired legs of a transfer
func (s *TransactionServiceImpl) ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]*transaction.Transaction, error) {
	return s.transactionRepo.ListByGroupID(ctx, groupID)
}

// authorizeMovement applies the validation sequence shared by every movement:
// the requesting user needs an effective operating grant on the account, and
// the account must be OPEN. Fails fast; nothing is written on rejection.
func (s *TransactionServiceImpl) authorizeMovement(ctx context.Context, accountID, userID uuid.UUID) error {
	a, err := s.accessRepo.Find(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, access.ErrAccessNotFound{}) {
			return access.ErrAccessDenied{AccountID: accountID, UserID: userID}
		}
		return err
	}
	if !a.CanOperate() {
		return access.ErrAccessDenied{AccountID: accountID, UserID: userID}
	}

	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !acc.IsOpen() {
		return account.ErrAccountNotOpen{AccountID: acc.ID, State: acc.State}
	}

	return nil
}

// recordOutbox writes the transaction's current state into the outbox within
// the surrounding unit, feeding the statement archive
func (s *TransactionServiceImpl) recordOutbox(ctx context.Context, tx pgx.Tx, t *transaction.Transaction) error {
	message, err := outbox.NewMessage(t)
	if err != nil {
		return err
	}
	return s.outboxRepo.WithTx(tx).Create(ctx, message)
}
