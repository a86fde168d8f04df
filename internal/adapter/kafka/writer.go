package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces simulation-created events to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the simulation topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	return &Writer{writer: newKafkaWriter(brokers, topic), topic: topic, logger: logger}
}

// newKafkaWriter configures a producer that flushes each event as soon as it
// is written.
func newKafkaWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		BatchSize:              1,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
	}
}

// PublishSimulation writes one event for sim, keyed by its id so every event
// for a simulation lands on the same partition.
func (w *Writer) PublishSimulation(ctx context.Context, sim domain.Simulation) error {
	msg, err := serializeToMessage(sim)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write simulation event to %s: %w", w.topic, err)
	}
	w.logger.Debug("simulation event published", "simulation_id", sim.ID, "topic", w.topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Simulation into a Kafka message.
func serializeToMessage(sim domain.Simulation) (kafkago.Message, error) {
	data, err := json.Marshal(sim)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize simulation: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(sim.ID.String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "location_id", Value: []byte(sim.Location.ID.String())},
			{Key: "created_at", Value: []byte(sim.CreatedAt.Format(time.RFC3339))},
		},
	}, nil
}
