package kafka

import "time"

// Topic names
const (
	TopicBookingConfirmed = "booking.confirmed"
	TopicBookingCancelled = "booking.cancelled"
	TopicBookingExpired   = "booking.expired"
)

// Events published by the booking service. All are consumed by the
// notification pipeline; delivery is best effort and never blocks a booking
// or payment transition.

type BookingConfirmedEvent struct {
	BookingReference string    `json:"booking_reference"`
	UserEmail        string    `json:"user_email"`
	EventTitle       string    `json:"event_title"`
	EventStartDate   time.Time `json:"event_start_date"`
	VenueName        string    `json:"venue_name"`
	Quantity         int       `json:"quantity"`
	TotalAmount      string    `json:"total_amount"`
	TicketNumbers    []string  `json:"ticket_numbers"`
	Timestamp        time.Time `json:"timestamp"`
}

type BookingCancelledEvent struct {
	BookingReference string    `json:"booking_reference"`
	UserEmail        string    `json:"user_email"`
	EventTitle       string    `json:"event_title"`
	Quantity         int       `json:"quantity"`
	Timestamp        time.Time `json:"timestamp"`
}

type BookingExpiredEvent struct {
	BookingReference string    `json:"booking_reference"`
	UserEmail        string    `json:"user_email"`
	EventTitle       string    `json:"event_title"`
	Quantity         int       `json:"quantity"`
	Timestamp        time.Time `json:"timestamp"`
}
