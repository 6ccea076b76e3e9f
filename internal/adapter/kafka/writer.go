package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-to-wear/internal/config"
	"github.com/couchcryptid/weather-to-wear/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// writeBatchTimeout bounds how long the producer holds a partial batch.
const writeBatchTimeout = 10 * time.Millisecond

// Writer produces activity events to a Kafka topic.
// It implements activity.BatchWriter.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured activity topic. Its
// batch size matches the recorder's so one WriteBatch call is one produce.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaActivityTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           writeBatchTimeout,
	}
	return &Writer{writer: w, logger: logger}
}

// WriteBatch publishes events in a single WriteMessages call. Events are keyed
// by zipcode so one location's activity stays ordered within a partition.
func (w *Writer) WriteBatch(ctx context.Context, events []domain.ActivityEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write activity batch: %w", err)
	}
	w.logger.Debug("activity batch written", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

// Close flushes pending messages and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage encodes an event as JSON, keyed by zipcode or "default"
// for the unfiltered location.
func serializeToMessage(event domain.ActivityEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize activity event: %w", err)
	}
	key := event.Zipcode
	if key == "" {
		key = "default"
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(event.Kind)},
			{Key: "occurred_at", Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}
