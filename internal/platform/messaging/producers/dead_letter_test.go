package producers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDLQProducer_PublishToDLQ(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	dlqTopic := "test-dlq-topic"
	ctx := context.Background()

	t.Run("SuccessfulPublish", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DLQProducer{
			logger:   logger,
			writer:   mockWriter,
			dlqTopic: dlqTopic,
		}

		key := "tx-key"
		originalValue := []byte(`{"not valid json`)
		reason := "unmarshal failure"

		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 {
				return false
			}
			msg := msgs[0]
			if string(msg.Key) != key {
				return false
			}

			var payload struct {
				OriginalKey   string `json:"original_key"`
				OriginalValue string `json:"original_value"`
				DLQReason     string `json:"dlq_reason"`
				Timestamp     string `json:"timestamp"`
			}
			if err := json.Unmarshal(msg.Value, &payload); err != nil {
				return false
			}
			if payload.OriginalKey != key ||
				payload.OriginalValue != string(originalValue) ||
				payload.DLQReason != reason ||
				payload.Timestamp == "" {
				return false
			}

			if len(msg.Headers) != 1 || msg.Headers[0].Key != "dlq-reason" {
				return false
			}
			return string(msg.Headers[0].Value) == reason
		})).Return(nil).Once()

		err := producer.PublishToDLQ(ctx, key, originalValue, reason)
		require.NoError(t, err)
		mockWriter.AssertExpectations(t)
	})

	t.Run("ReturnsErrorOnWriterError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DLQProducer{
			logger:   logger,
			writer:   mockWriter,
			dlqTopic: dlqTopic,
		}

		writerErr := errors.New("broker unavailable")
		mockWriter.On("WriteMessages", ctx, mock.Anything).Return(writerErr).Once()

		err := producer.PublishToDLQ(ctx, "key", []byte("value"), "reason")
		require.Error(t, err)
		assert.ErrorIs(t, err, writerErr)
		mockWriter.AssertExpectations(t)
	})

	t.Run("NilProducerReturnsError", func(t *testing.T) {
		var producer *DLQProducer

		err := producer.PublishToDLQ(ctx, "key", []byte("value"), "reason")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not initialized")
	})
}

func TestDLQProducer_Close(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("ClosesWriter", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DLQProducer{logger: logger, writer: mockWriter, dlqTopic: "t"}

		mockWriter.On("Close").Return(nil).Once()

		assert.NoError(t, producer.Close())
		mockWriter.AssertExpectations(t)
	})

	t.Run("NilProducerCloseIsNoOp", func(t *testing.T) {
		var producer *DLQProducer
		assert.NoError(t, producer.Close())
	})
}
