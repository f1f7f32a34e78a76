package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	kafka "event-booking/internal/delivery/kafka"
)

func (c *Consumer) handleBookingConfirmed(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event kafka.BookingConfirmedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("unmarshal booking confirmed event: %w", err)
	}

	return c.mailer.SendBookingConfirmation(ctx, event.UserEmail, event.BookingReference,
		event.EventTitle, event.VenueName, event.Quantity, event.TotalAmount, event.TicketNumbers)
}

func (c *Consumer) handleBookingCancelled(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event kafka.BookingCancelledEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("unmarshal booking cancelled event: %w", err)
	}

	return c.mailer.SendBookingCancellation(ctx, event.UserEmail, event.BookingReference, event.EventTitle)
}

func (c *Consumer) handleBookingExpired(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event kafka.BookingExpiredEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("unmarshal booking expired event: %w", err)
	}

	return c.mailer.SendBookingExpiry(ctx, event.UserEmail, event.BookingReference, event.EventTitle)
}
