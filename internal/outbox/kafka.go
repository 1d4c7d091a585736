package outbox

import (
	"context"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/01moynul/storefront-golang/internal/logging"
	"github.com/01moynul/storefront-golang/internal/models"
)

const eventTypeHeader = "event_type"

// ParseBrokers splits a comma separated broker list, skipping blanks.
func ParseBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// KafkaPublisher writes every outbox message to one topic, keyed by order
// id so all events of an order land on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msgs []models.OutboxMessage) error {
	return p.writer.WriteMessages(ctx, toKafka(p.topic, msgs)...)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toKafka(topic string, msgs []models.OutboxMessage) []kafka.Message {
	out := make([]kafka.Message, len(msgs))
	for i, m := range msgs {
		out[i] = kafka.Message{
			Topic: topic,
			Key:   []byte(m.Key),
			Value: m.Payload,
			Time:  m.CreatedAt,
			Headers: []kafka.Header{
				{Key: eventTypeHeader, Value: []byte(m.Topic)},
				{Key: "event_id", Value: []byte(m.EventID)},
			},
		}
	}
	return out
}

// LogPublisher stands in for Kafka when no brokers are configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, msgs []models.OutboxMessage) error {
	for _, m := range msgs {
		logging.Log(logging.Fields{EventID: m.EventID, OrderID: m.Key, Step: "outbox_log", Status: "ok", Message: string(m.Payload)})
	}
	return nil
}
