package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	kafka "event-booking/internal/delivery/kafka"
	"event-booking/pkg/logger"
)

// Producer publishes booking notification events. The caller treats every
// publish as fire-and-forget; errors are for logging only.
type Producer interface {
	PublishBookingConfirmed(ctx context.Context, event kafka.BookingConfirmedEvent) error
	PublishBookingCancelled(ctx context.Context, event kafka.BookingCancelledEvent) error
	PublishBookingExpired(ctx context.Context, event kafka.BookingExpiredEvent) error
	Close() error
}

type implProducer struct {
	l    logger.Logger
	prod sarama.SyncProducer
}

func NewProducer(prod sarama.SyncProducer, l logger.Logger) Producer {
	return &implProducer{
		l:    l,
		prod: prod,
	}
}

func (p *implProducer) PublishBookingConfirmed(ctx context.Context, event kafka.BookingConfirmedEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicBookingConfirmed, event.BookingReference, event)
}

func (p *implProducer) PublishBookingCancelled(ctx context.Context, event kafka.BookingCancelledEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicBookingCancelled, event.BookingReference, event)
}

func (p *implProducer) PublishBookingExpired(ctx context.Context, event kafka.BookingExpiredEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicBookingExpired, event.BookingReference, event)
}

func (p *implProducer) publish(ctx context.Context, topic, key string, event any) error {
	val, err := json.Marshal(event)
	if err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.publish: %v", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key), // Partition by booking reference for ordering
		Value: sarama.ByteEncoder(val),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("timestamp"),
				Value: []byte(time.Now().Format(time.RFC3339)),
			},
		},
	}

	_, _, err = p.prod.SendMessage(msg)
	return err
}

func (p *implProducer) Close() error {
	return p.prod.Close()
}
