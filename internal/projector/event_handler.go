package projector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/atlas-banking-core/internal/domain/statement"
	"github.com/atlas-banking-core/internal/platform/messaging/producers"
)

// MovementEventHandler handles movement events from the Kafka topic
type MovementEventHandler struct {
	projectionService ProjectionService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewMovementEventHandler creates a new handler
func NewMovementEventHandler(
	logger *slog.Logger,
	projectionService ProjectionService,
	producer producers.DeadLetterPublisher,
) *MovementEventHandler {
	return &MovementEventHandler{
		projectionService: projectionService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes one Kafka message
func (h *MovementEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var entry statement.Entry
	if err := json.Unmarshal(value, &entry); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal statement entry from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// An unparseable payload never becomes parseable; dead letter it
		// instead of blocking the partition
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	h.logger.Info("Received movement event",
		"transaction_id", entry.TransactionID.String(),
		"account_id", entry.AccountID.String(),
		"state", string(entry.State),
	)

	if err := h.projectionService.ProjectEntry(ctx, &entry); err != nil {
		h.logger.Error("Failed to project movement event",
			"transaction_id", entry.TransactionID.String(),
			"account_id", entry.AccountID.String(),
			"error", err,
		)
		return fmt.Errorf("projecting movement %s failed: %w", entry.TransactionID.String(), err)
	}

	return nil
}
