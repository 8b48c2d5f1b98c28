package producers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/atlas-banking-core/internal/config"
)

// MovementEventProducer publishes outbox payloads to the movement topic. The
// outbox rows already carry marshaled statement entries, so the producer
// ships bytes as-is.
type MovementEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewMovementEventProducer creates the movement topic producer and ensures
// the topic exists
func NewMovementEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*MovementEventProducer, error) {
	if cfg.MovementTopic == "" {
		return nil, fmt.Errorf("kafka movement topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for movement producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.MovementTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure movement topic %s exists: %w", cfg.MovementTopic, err)
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.MovementTopic,
		Balancer: &kafka.LeastBytes{},
		// RequireAll keeps the outbox state honest: a row is only marked
		// PROCESSED once the broker acknowledged the event.
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &MovementEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.MovementTopic,
	}, nil
}

func (p *MovementEventProducer) Publish(ctx context.Context, key string, value []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish movement event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish movement event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published movement event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *MovementEventProducer) Close() error {
	p.logger.Info("Closing movement event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
