// Package events hands committed reservation lifecycle events to a broker.
package events

import (
	"context"
	"fmt"
	"strings"

	"tranquidescanso/internal/domain"
)

type Config struct {
	Driver       string // none|rabbitmq|kafka
	AMQPURL      string
	Queue        string
	KafkaBrokers []string
	KafkaTopic   string
}

// New builds the publisher selected by cfg.Driver.
func New(cfg Config) (domain.EventPublisher, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "none":
		return Noop{}, nil
	case "rabbitmq", "amqp":
		return NewRabbitMQ(cfg.AMQPURL, cfg.Queue)
	case "kafka":
		return NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, domain.ReservationEvent) error { return nil }
func (Noop) Close() error                                           { return nil }
