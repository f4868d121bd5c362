package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/restaunax/orders-api/internal/domain"
)

const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
)

var publisherTracer = otel.Tracer("events/publisher")

// Publisher emits order lifecycle events. Messages are keyed by order id so
// all events for one order land on the same partition, in order.
type Publisher struct {
	created       *kafka.Writer
	statusChanged *kafka.Writer
}

func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		created:       newWriter(brokers, TopicOrderCreated),
		statusChanged: newWriter(brokers, TopicOrderStatusChanged),
	}
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           100 * time.Millisecond,
	}
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, order domain.Order) error {
	event := domain.OrderCreatedEvent{
		EventID:   uuid.New().String(),
		OrderID:   order.ID,
		OrderType: order.OrderType,
		Items:     order.Items,
		Total:     order.Total,
		Timestamp: order.CreatedAt,
	}
	return p.publish(ctx, p.created, TopicOrderCreated, order.ID, event)
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, orderID string, oldStatus, newStatus domain.OrderStatus) error {
	event := domain.OrderStatusChangedEvent{
		EventID:   uuid.New().String(),
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Timestamp: time.Now().UTC(),
	}
	return p.publish(ctx, p.statusChanged, TopicOrderStatusChanged, orderID, event)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	ctx, span := publisherTracer.Start(ctx, "send "+topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(topic),
			semconv.MessagingKafkaMessageKey(key),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{msg: &msg})

	if err := writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (p *Publisher) Close() error {
	if err := p.created.Close(); err != nil {
		_ = p.statusChanged.Close()
		return err
	}
	return p.statusChanged.Close()
}
