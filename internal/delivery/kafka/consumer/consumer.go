package consumer

import (
	"context"
	"sync"

	"github.com/IBM/sarama"

	kafka "event-booking/internal/delivery/kafka"
	"event-booking/internal/notification"
	"event-booking/pkg/logger"
)

// Consumer drains the booking notification topics and hands each event to
// the mailer. Handler errors are logged, never redelivered as failures: a
// lost email must not wedge the group.
type Consumer struct {
	consGr sarama.ConsumerGroup
	mailer notification.Mailer
	l      logger.Logger
	wg     sync.WaitGroup
}

func NewConsumer(consGr sarama.ConsumerGroup, mailer notification.Mailer, l logger.Logger) *Consumer {
	return &Consumer{
		consGr: consGr,
		mailer: mailer,
		l:      l,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	topics := []string{kafka.TopicBookingConfirmed, kafka.TopicBookingCancelled, kafka.TopicBookingExpired}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			if err := c.consGr.Consume(ctx, topics, c); err != nil {
				c.l.Errorf(ctx, "delivery.kafka.consumer.Consumer.Start: %v", err)
			}

			if ctx.Err() != nil {
				return
			}
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for err := range c.consGr.Errors() {
			c.l.Errorf(ctx, "delivery.kafka.consumer.Consumer: %v", err)
		}
	}()

	c.l.Infof(ctx, "Notification consumer is consuming topics: %v", topics)
}

func (c *Consumer) Close() error {
	if err := c.consGr.Close(); err != nil {
		return err
	}
	c.wg.Wait()
	return nil
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if err := c.processMessage(session.Context(), msg); err != nil {
			c.l.Errorf(session.Context(), "delivery.kafka.consumer.Consumer.ConsumeClaim: topic=%s: %v", msg.Topic, err)
		}
		session.MarkMessage(msg, "")
	}
	return nil
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	switch msg.Topic {
	case kafka.TopicBookingConfirmed:
		return c.handleBookingConfirmed(ctx, msg)
	case kafka.TopicBookingCancelled:
		return c.handleBookingCancelled(ctx, msg)
	case kafka.TopicBookingExpired:
		return c.handleBookingExpired(ctx, msg)
	default:
		c.l.Warnf(ctx, "Unknown topic: %s", msg.Topic)
		return nil
	}
}
