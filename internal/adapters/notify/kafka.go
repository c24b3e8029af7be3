package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"checkintracker/internal/domain"
)

const DefaultKafkaTopic = "checkin-notifications"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes notifications to a Kafka topic, keyed by ticket id so
// one ticket's notifications stay in order on a partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	if topic == "" {
		topic = DefaultKafkaTopic
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})
	return &KafkaPublisher{writer: writer, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, n *domain.Notification) error {
	body, err := encode(n)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(n.Key),
		Value: body,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(n.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", n.Type, err)
	}
	p.logger.Debug("notification published", "broker", "kafka", "topic", p.topic, "type", n.Type, "key", n.Key)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
