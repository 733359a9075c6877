package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/solar-lookup/internal/config"
	"github.com/couchcryptid/solar-lookup/internal/domain"
	"github.com/couchcryptid/solar-lookup/internal/observability"
)

// Writer publishes search events to a Kafka topic.
// It implements lookup.EventPublisher.
type Writer struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates an asynchronous Kafka producer for the configured topic.
// Delivery results are reported through logs and metrics.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &Writer{logger: logger, metrics: metrics}
	w.writer = &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           100 * time.Millisecond,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion:             w.completed,
	}
	return w
}

// Publish serializes event and queues it for delivery.
func (w *Writer) Publish(ctx context.Context, event domain.SearchEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

func (w *Writer) completed(messages []kafkago.Message, err error) {
	if err != nil {
		w.metrics.PublishErrors.Add(float64(len(messages)))
		w.logger.Warn("search events not delivered", "count", len(messages), "error", err)
		return
	}
	w.metrics.EventsPublished.Add(float64(len(messages)))
}

// serializeToMessage marshals a SearchEvent into a Kafka message keyed by
// event ID.
func serializeToMessage(event domain.SearchEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize search event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(event.Outcome)},
			{Key: "searched_at", Value: []byte(event.SearchedAt.Format(time.RFC3339))},
		},
	}, nil
}
