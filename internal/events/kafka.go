package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher returns an asynchronous publisher: PublishOrder only
// queues the message, and delivery failures are logged by the writer's
// completion callback.
func NewKafkaPublisher(topic string, lg *zap.Logger, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		Completion:             logCompletion(lg),
	}
	return &KafkaPublisher{writer: w}
}

func logCompletion(lg *zap.Logger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, msg := range msgs {
			lg.Error("Order event delivery failed",
				zap.ByteString("order_id", msg.Key),
				zap.String("topic", msg.Topic),
				zap.Error(err),
			)
		}
	}
}

// PublishOrder writes event keyed by order id, so events of one order stay in one partition.
func (p *KafkaPublisher) PublishOrder(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal order event")
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, "write order event")
	}
	return nil
}

// Close flushes queued messages before closing the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
