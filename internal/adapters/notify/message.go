// Package notify publishes attendance and certificate notifications to a broker.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"checkintracker/internal/domain"
)

// Config selects and configures the publisher.
type Config struct {
	Driver       string
	KafkaBrokers []string
	KafkaTopic   string
	RabbitMQURL  string
}

// NewPublisher builds the publisher named by cfg.Driver: "kafka", "rabbitmq" or "noop".
// Unknown drivers fall back to noop.
func NewPublisher(cfg Config, logger *slog.Logger) (domain.EventPublisher, error) {
	switch strings.ToLower(cfg.Driver) {
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("kafka publisher: no brokers configured")
		}
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger), nil
	case "rabbitmq":
		return NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	case "", "noop":
		return NewNoop(logger), nil
	default:
		logger.Warn("unknown notify driver, using noop", "driver", cfg.Driver)
		return NewNoop(logger), nil
	}
}

func encode(n *domain.Notification) ([]byte, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshal notification: %w", err)
	}
	return body, nil
}

// Noop logs notifications at debug level and drops them.
type Noop struct {
	logger *slog.Logger
}

func NewNoop(logger *slog.Logger) *Noop {
	return &Noop{logger: logger}
}

func (p *Noop) Publish(_ context.Context, n *domain.Notification) error {
	p.logger.Debug("notification dropped (noop)", "type", n.Type, "key", n.Key)
	return nil
}

func (p *Noop) Close() error { return nil }
