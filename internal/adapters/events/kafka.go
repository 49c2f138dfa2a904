package events

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/segmentio/kafka-go"

	"tranquidescanso/internal/adapters/observability"
	"tranquidescanso/internal/domain"
)

// Kafka writes events keyed by reservation id, so one reservation's events
// stay ordered within a partition.
type Kafka struct {
	w *kafka.Writer
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if topic == "" {
		topic = "reservation.events"
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Kafka{w: w}, nil
}

func kafkaMessage(ev domain.ReservationEvent) (kafka.Message, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.ReservationID, 10)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}, nil
}

func (p *Kafka) Publish(ctx context.Context, ev domain.ReservationEvent) error {
	msg, err := kafkaMessage(ev)
	if err != nil {
		return err
	}
	err = p.w.WriteMessages(ctx, msg)
	observability.ObservePublish("kafka", err)
	return err
}

func (p *Kafka) Close() error { return p.w.Close() }
