package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/nicovaras/clare/internal/modules/console/domain"
)

// KafkaAuditConsumer reads activity events back from the audit topic.
type KafkaAuditConsumer struct {
	reader *kafka.Reader
}

func NewKafkaAuditConsumer(brokers []string, groupID string, topic string) *KafkaAuditConsumer {
	return &KafkaAuditConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

// Consume hands each decoded event to handler until ctx is done.
func (c *KafkaAuditConsumer) Consume(ctx context.Context, handler func(*domain.ActivityEvent) error) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			continue
		}
		event, err := decodeActivity(m)
		if err != nil {
			slog.Warn("kafka activity decode error", slog.String("topic", m.Topic), slog.Int64("offset", m.Offset), slog.Any("error", err))
			continue
		}
		slog.Debug("kafka activity consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("eventId", event.ID),
			slog.String("panel", string(event.Panel)),
		)
		if err := handler(event); err != nil {
			slog.Warn("kafka handler error", slog.Any("error", err))
		}
	}
}

func (c *KafkaAuditConsumer) Close() error {
	return c.reader.Close()
}

func decodeActivity(m kafka.Message) (*domain.ActivityEvent, error) {
	var event domain.ActivityEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		return nil, fmt.Errorf("decode activity event: %w", err)
	}
	if event.Panel == "" {
		for _, h := range m.Headers {
			if h.Key == "panel" {
				event.Panel = domain.Panel(h.Value)
			}
		}
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = m.Time.UTC()
	}
	return &event, nil
}
