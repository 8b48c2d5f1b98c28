package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-banking-core/internal/domain/outbox"
)

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}

	msg := &outbox.Message{
		TransactionID: uuid.New(),
		GroupID:       uuid.New(),
		AccountID:     uuid.New(),
		Payload:       json.RawMessage(`{"amount":170}`),
		Status:        outbox.StatusPending,
		Attempts:      0,
		CreatedAt:     time.Now(),
	}

	query := `
		INSERT INTO movement_outbox \(transaction_id, group_id, account_id, payload, status, attempts, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)
		RETURNING id
	`

	mock.ExpectQuery(query).
		WithArgs(msg.TransactionID, msg.GroupID, msg.AccountID, msg.Payload, msg.Status, msg.Attempts, msg.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	err = repo.Create(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, int64(42), msg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_GetPending(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	now := time.Now()

	query := `
		SELECT id, transaction_id, group_id, account_id, payload, status, attempts, created_at, last_attempt_at
		FROM movement_outbox
		WHERE status = \$1
		ORDER BY created_at ASC
		LIMIT \$2
		FOR UPDATE SKIP LOCKED
	`

	rows := pgxmock.NewRows([]string{"id", "transaction_id", "group_id", "account_id", "payload", "status", "attempts", "created_at", "last_attempt_at"}).
		AddRow(int64(1), uuid.New(), uuid.New(), uuid.New(), json.RawMessage(`{}`), outbox.StatusPending, 0, now, nil).
		AddRow(int64(2), uuid.New(), uuid.New(), uuid.New(), json.RawMessage(`{}`), outbox.StatusPending, 2, now, &now)

	mock.ExpectQuery(query).WithArgs(outbox.StatusPending, 10).WillReturnRows(rows)

	messages, err := repo.GetPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, int64(1), messages[0].ID)
	assert.Nil(t, messages[0].LastAttemptAt)
	assert.Equal(t, 2, messages[1].Attempts)
	assert.NotNil(t, messages[1].LastAttemptAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}

	query := `
		UPDATE movement_outbox
		SET status = \$1, last_attempt_at = \$2
		WHERE id = \$3
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(outbox.StatusProcessed, pgxmock.AnyArg(), int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateStatus(ctx, 7, outbox.StatusProcessed)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(outbox.StatusProcessed, pgxmock.AnyArg(), int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(ctx, 7, outbox.StatusProcessed)
		assert.ErrorIs(t, err, outbox.ErrMessageNotFound{ID: 7})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_IncrementAttempts(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}

	query := `
		UPDATE movement_outbox
		SET attempts = attempts \+ 1, last_attempt_at = \$1
		WHERE id = \$2
	`

	mock.ExpectExec(query).
		WithArgs(pgxmock.AnyArg(), int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.IncrementAttempts(ctx, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
