package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"betledger/events"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// messageWriter is the part of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventPublisher appends ledger events to a Kafka topic keyed by bankroll
type KafkaEventPublisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewKafkaWriter builds a writer for a comma separated broker list
func NewKafkaWriter(brokers, topic string) (*kafka.Writer, error) {
	var addrs []string
	for _, broker := range strings.Split(brokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			addrs = append(addrs, broker)
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("kafka brokers not provided")
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
	}, nil
}

// NewKafkaEventPublisher creates a publisher over a writer
func NewKafkaEventPublisher(writer messageWriter, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer: writer,
		topic:  topic,
		now:    time.Now,
	}
}

// Publish writes the event envelope as one message
func (p *KafkaEventPublisher) Publish(ctx context.Context, event events.Event) error {
	now := p.now()
	envelope, err := NewEventEnvelope(event, now)
	if err != nil {
		return err
	}
	value, err := envelope.Marshal()
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(PartitionKey(event)),
		Value: value,
		Time:  now,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event to kafka topic %s: %w", p.topic, err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"topic":     p.topic,
	}).Debug("Published event to kafka")
	return nil
}

// Handle adapts Publish to an event bus handler
func (p *KafkaEventPublisher) Handle(ctx context.Context, event events.Event) {
	if err := p.Publish(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"topic":     p.topic,
			"error":     err,
		}).Error("Failed to forward event to kafka")
	}
}

// Close flushes and closes the writer
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}
