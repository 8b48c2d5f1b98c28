package outbox

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-banking-core/internal/domain/money"
	"github.com/atlas-banking-core/internal/domain/statement"
	"github.com/atlas-banking-core/internal/domain/transaction"
)

func TestNewMessage(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		amount, err := money.NewPositive(170, "EUR")
		require.NoError(t, err)

		tx, err := transaction.NewDeposit(uuid.New(), uuid.New(), amount, "salary")
		require.NoError(t, err)

		msg, err := NewMessage(tx)
		require.NoError(t, err)
		require.NotNil(t, msg)

		assert.Equal(t, tx.ID, msg.TransactionID)
		assert.Equal(t, tx.GroupID, msg.GroupID)
		assert.Equal(t, tx.AccountID, msg.AccountID)
		assert.Equal(t, StatusPending, msg.Status)
		assert.Equal(t, 0, msg.Attempts)
		assert.Nil(t, msg.LastAttemptAt)

		entry, err := msg.StatementEntry()
		require.NoError(t, err)
		assert.Equal(t, tx.ID, entry.TransactionID)
		assert.Equal(t, int64(170), entry.Amount)
		assert.Equal(t, "EUR", entry.Currency)
		assert.Equal(t, transaction.StateConfirmed, entry.State)
	})
}

func TestMessage_IncrementAttempts(t *testing.T) {
	msg := &Message{Attempts: 1}

	msg.IncrementAttempts()

	assert.Equal(t, 2, msg.Attempts)
	require.NotNil(t, msg.LastAttemptAt)
	assert.WithinDuration(t, time.Now(), *msg.LastAttemptAt, time.Second)
}

func TestMessage_MarkAsProcessed(t *testing.T) {
	msg := &Message{Status: StatusPending}

	msg.MarkAsProcessed()

	assert.Equal(t, StatusProcessed, msg.Status)
	require.NotNil(t, msg.LastAttemptAt)
}

func TestMessage_MarkAsFailed(t *testing.T) {
	msg := &Message{Status: StatusPending}

	msg.MarkAsFailed()

	assert.Equal(t, StatusFailedToPublish, msg.Status)
	require.NotNil(t, msg.LastAttemptAt)
}

func TestMessage_StatementEntry(t *testing.T) {
	t.Run("InvalidPayload", func(t *testing.T) {
		msg := &Message{Payload: []byte("not json")}

		_, err := msg.StatementEntry()
		assert.Error(t, err)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		amount, err := money.NewPositive(20, "EUR")
		require.NoError(t, err)

		outgoing, _, err := transaction.NewTransferLegs(uuid.New(), uuid.New(), uuid.New(), amount, "rent")
		require.NoError(t, err)

		msg, err := NewMessage(outgoing)
		require.NoError(t, err)

		entry, err := msg.StatementEntry()
		require.NoError(t, err)

		expected := statement.FromTransaction(outgoing)
		assert.Equal(t, expected.TransactionID, entry.TransactionID)
		assert.Equal(t, expected.Direction, entry.Direction)
		assert.Equal(t, transaction.StatePending, entry.State)
	})
}
