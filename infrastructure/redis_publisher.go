package infrastructure

import (
	"context"
	"fmt"
	"time"

	"betledger/events"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// redisPublisherClient is the part of *redis.Client the publisher needs
type redisPublisherClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// ConnectRedis opens a client and checks the server answers
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return client, nil
}

// RedisEventPublisher fans ledger events out to a Redis pub/sub channel
type RedisEventPublisher struct {
	client  redisPublisherClient
	channel string
	now     func() time.Time
}

// NewRedisEventPublisher creates a publisher for one channel
func NewRedisEventPublisher(client redisPublisherClient, channel string) *RedisEventPublisher {
	return &RedisEventPublisher{
		client:  client,
		channel: channel,
		now:     time.Now,
	}
}

// Publish sends the event envelope to the channel
func (p *RedisEventPublisher) Publish(ctx context.Context, event events.Event) error {
	envelope, err := NewEventEnvelope(event, p.now())
	if err != nil {
		return err
	}
	data, err := envelope.Marshal()
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event to redis: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"channel":   p.channel,
	}).Debug("Published event to redis")
	return nil
}

// Handle adapts Publish to an event bus handler
func (p *RedisEventPublisher) Handle(ctx context.Context, event events.Event) {
	if err := p.Publish(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"channel":   p.channel,
			"error":     err,
		}).Error("Failed to forward event to redis")
	}
}
