package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Event is a single audit record describing a clinically relevant action:
// a snapshot computation, a rule change, an alert acknowledgement.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Actor     string                 `json:"actor"`
	PatientID string                 `json:"patient_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Publisher emits audit events to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, eventType, actor, patientID string, data map[string]interface{}) error
	Close() error
}

// KafkaPublisher writes audit events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    zerolog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType, actor, patientID string, data map[string]interface{}) error {
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		PatientID: patientID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
			{Key: "actor", Value: []byte(actor)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		p.log.Error().Err(err).
			Str("event_id", event.ID).
			Str("event_type", eventType).
			Msg("failed to publish audit event")
		return fmt.Errorf("write audit event: %w", err)
	}

	p.log.Debug().
		Str("event_id", event.ID).
		Str("event_type", eventType).
		Str("topic", p.writer.Topic).
		Msg("audit event published")

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards all events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, eventType, actor, patientID string, data map[string]interface{}) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
