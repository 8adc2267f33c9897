package events

import (
	"context"

	"evshare/pkg/kafka"
	kafka_config "evshare/pkg/kafka/config"
	kafka_middleware "evshare/pkg/kafka/middleware"
	"evshare/pkg/logger"
)

// Publisher is the event bus dependency injected into services. Publishing
// is best-effort: callers log failures but never fail the primary operation
// on a publish error.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload BookingPayload) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

// NewKafkaPublisher builds a Publisher over the shared Kafka producer. When
// no brokers are configured it returns a no-op publisher so services run
// without an event bus in local development.
func NewKafkaPublisher(cfg *kafka_config.Config, source string, log *logger.Logger) (Publisher, error) {
	if !cfg.Enabled() {
		log.Warn("Kafka brokers not configured, events will be dropped")
		return NewNoopPublisher(), nil
	}

	producer, err := kafka.NewProducer(cfg, TopicBookings, DLQTopicBookings)
	if err != nil {
		return nil, err
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(log))

	return &kafkaPublisher{
		producer: producer,
		source:   source,
	}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, payload BookingPayload) error {
	msg := kafka.NewMessage().
		WithKey(payload.BookingID).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(p.source).
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, eventType string, payload BookingPayload) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}
