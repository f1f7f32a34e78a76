package notification

import (
	"context"

	"event-booking/pkg/logger"
)

// Mailer renders and delivers a notification email. Delivery is best effort;
// the consumer logs failures and moves on.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, to, bookingRef, eventTitle, venueName string, quantity int, totalAmount string, ticketNumbers []string) error
	SendBookingCancellation(ctx context.Context, to, bookingRef, eventTitle string) error
	SendBookingExpiry(ctx context.Context, to, bookingRef, eventTitle string) error
}

// logMailer is the default Mailer: it records what would have been sent.
// Real SMTP delivery plugs in behind the same interface.
type logMailer struct {
	l logger.Logger
}

func NewLogMailer(l logger.Logger) Mailer {
	return &logMailer{l: l}
}

func (m *logMailer) SendBookingConfirmation(ctx context.Context, to, bookingRef, eventTitle, venueName string, quantity int, totalAmount string, ticketNumbers []string) error {
	m.l.Infof(ctx, "email to=%s booking=%s event=%q venue=%q tickets=%d amount=%s numbers=%v: booking confirmed",
		to, bookingRef, eventTitle, venueName, quantity, totalAmount, ticketNumbers)
	return nil
}

func (m *logMailer) SendBookingCancellation(ctx context.Context, to, bookingRef, eventTitle string) error {
	m.l.Infof(ctx, "email to=%s booking=%s event=%q: booking cancelled", to, bookingRef, eventTitle)
	return nil
}

func (m *logMailer) SendBookingExpiry(ctx context.Context, to, bookingRef, eventTitle string) error {
	m.l.Infof(ctx, "email to=%s booking=%s event=%q: booking expired", to, bookingRef, eventTitle)
	return nil
}
