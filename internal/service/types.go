package service

import (
	"time"

	"github.com/shopspring/decimal"

	"event-booking/internal/domain"
)

type CreateBookingInput struct {
	EventID      string
	TicketTypeID string
	UserID       string
	Quantity     int
}

// BookingDetail is a booking with its owned records resolved.
type BookingDetail struct {
	Booking domain.Booking
	Tickets []domain.Ticket
	Payment *domain.Payment
}

type CreateEventInput struct {
	Title        string
	Description  string
	VenueName    string
	VenueAddress string
	StartDate    time.Time
	EndDate      time.Time
	OrganizerID  string
}

type CreateTicketTypeInput struct {
	EventID     string
	OrganizerID string
	Name        string
	Price       decimal.Decimal
	Quantity    int
}

type RegisterInput struct {
	Email    string
	FullName string
	Password string
	Role     domain.UserRole
}

type AuthResult struct {
	User        domain.User
	AccessToken string
}

// PaymentOrder is what the client needs to start a checkout with the
// payment provider.
type PaymentOrder struct {
	OrderID          string          `json:"order_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	BookingReference string          `json:"booking_reference"`
	GatewayKeyID     string          `json:"gateway_key_id"`
}

type VerifyPaymentInput struct {
	BookingReference string
	OrderID          string
	PaymentID        string
	Signature        string
	UserID           string
}
