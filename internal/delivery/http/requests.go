package http

import (
	"time"

	"github.com/shopspring/decimal"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=USER ORGANIZER"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createEventRequest struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	VenueName    string    `json:"venue_name" validate:"required"`
	VenueAddress string    `json:"venue_address"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required"`
}

type createTicketTypeRequest struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"required"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
}

type createBookingRequest struct {
	EventID      string `json:"event_id" validate:"required"`
	TicketTypeID string `json:"ticket_type_id" validate:"required"`
	Quantity     int    `json:"quantity" validate:"required,min=1,max=10"`
}

type createPaymentOrderRequest struct {
	BookingReference string `json:"booking_reference" validate:"required"`
}

type verifyPaymentRequest struct {
	BookingReference string `json:"booking_reference"`
	OrderID          string `json:"order_id" validate:"required"`
	PaymentID        string `json:"payment_id" validate:"required"`
	Signature        string `json:"signature" validate:"required"`
}
