package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/invensync/invensync/internal/inventory/domain"
	"github.com/invensync/invensync/pkg/logger"
)

// Publisher wraps Kafka producer
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{
		producer: producer,
		brokers:  brokers,
	}, nil
}

// ItemExpiring publishes an expiring-item alert event. It satisfies the
// decay engine's ExpiryAlerter contract.
func (p *Publisher) ItemExpiring(ctx context.Context, item domain.InventoryItem) error {
	if item.ExpiryDays == nil {
		return nil
	}

	event := ItemExpiringEvent{
		EventID:    uuid.NewString(),
		EventType:  EventTypeItemExpiring,
		ItemID:     item.ID,
		OwnerID:    item.OwnerID,
		Name:       item.Name,
		Category:   item.Category,
		ExpiryDays: *item.ExpiryDays,
		Status:     string(item.Status),
		Timestamp:  time.Now(),
	}

	return p.publishItemExpiring(ctx, event)
}

func (p *Publisher) publishItemExpiring(ctx context.Context, event ItemExpiringEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.item_expiring",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicItemExpiring),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", EventTypeItemExpiring),
			attribute.String("item.id", event.ItemID),
			attribute.Int("item.expiry_days", event.ExpiryDays),
		),
	)
	defer span.End()

	span.SetAttributes(attribute.String("event.id", event.EventID))

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{
			Key:   []byte("event_type"),
			Value: []byte(EventTypeItemExpiring),
		},
		{
			Key:   []byte("event_id"),
			Value: []byte(event.EventID),
		},
	}
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(key),
			Value: []byte(value),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic: TopicItemExpiring,
		// Key by owner so one user's alerts stay ordered
		Key:     sarama.StringEncoder("owner_" + event.OwnerID),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Logger.Error().
			Err(err).
			Str("topic", TopicItemExpiring).
			Str("item_id", event.ItemID).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.Logger.Info().
		Str("event_id", event.EventID).
		Str("event_type", event.EventType).
		Str("topic", TopicItemExpiring).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("item_id", event.ItemID).
		Int("expiry_days", event.ExpiryDays).
		Msg("Item expiring event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
