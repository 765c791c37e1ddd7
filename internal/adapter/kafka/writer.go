package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Snapshot identifies the dashboard refresh a batch of events belongs to.
type Snapshot struct {
	ID     string
	Region string
}

// Writer produces displayed earthquake events to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the export topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes one message per event in a single
// WriteMessages call.
func (w *Writer) Publish(ctx context.Context, snapshotID, region string, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	snap := Snapshot{ID: snapshotID, Region: region}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i], snap)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d events: %w", len(msgs), err)
	}
	w.logger.Debug("events published", "count", len(msgs), "snapshot_id", snapshotID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Event into a Kafka message.
func serializeToMessage(event domain.Event, snap Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize earthquake event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "classification", Value: []byte(event.Classification())},
			{Key: "snapshot_id", Value: []byte(snap.ID)},
			{Key: "region", Value: []byte(snap.Region)},
		},
	}, nil
}
