package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/nicovaras/clare/internal/modules/console/application/port"
	"github.com/nicovaras/clare/internal/modules/console/domain"
)

// KafkaAuditPublisher writes activity events to a Kafka topic keyed by user id.
type KafkaAuditPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaAuditPublisher(brokers []string, topic string) *KafkaAuditPublisher {
	return &KafkaAuditPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           50 * time.Millisecond,
			WriteTimeout:           5 * time.Second,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

func (p *KafkaAuditPublisher) Publish(ctx context.Context, event *domain.ActivityEvent) error {
	msg, err := encodeActivity(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", p.topic, err)
	}
	slog.Debug("kafka activity published", slog.String("topic", p.topic), slog.String("eventId", event.ID), slog.String("panel", string(event.Panel)))
	return nil
}

func (p *KafkaAuditPublisher) Close() error {
	return p.writer.Close()
}

// NoopAuditPublisher discards events when no brokers are configured.
type NoopAuditPublisher struct{}

func (NoopAuditPublisher) Publish(context.Context, *domain.ActivityEvent) error { return nil }

func (NoopAuditPublisher) Close() error { return nil }

// NewAuditPublisher returns a Kafka publisher, or a no-op one when brokers or topic are missing.
func NewAuditPublisher(brokers []string, topic string) port.AuditPublisher {
	if len(brokers) == 0 || topic == "" {
		slog.Info("kafka audit disabled")
		return NoopAuditPublisher{}
	}
	slog.Info("kafka audit enabled", slog.Any("brokers", brokers), slog.String("topic", topic))
	return NewKafkaAuditPublisher(brokers, topic)
}

func encodeActivity(event *domain.ActivityEvent) (kafka.Message, error) {
	if event == nil {
		return kafka.Message{}, fmt.Errorf("nil activity event")
	}
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode activity event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "panel", Value: []byte(event.Panel)},
			{Key: "level", Value: []byte(event.Level)},
		},
	}, nil
}

var (
	_ port.AuditPublisher = (*KafkaAuditPublisher)(nil)
	_ port.AuditPublisher = NoopAuditPublisher{}
)
