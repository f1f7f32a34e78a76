package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
)

// Booking holds a reservation against a ticket type. While PENDING it
// carries a deadline; the deadline is cleared on confirmation. CONFIRMED,
// CANCELLED and EXPIRED are terminal.
type Booking struct {
	ID           string          `db:"id" json:"id"`
	Reference    string          `db:"reference" json:"reference"`
	EventID      string          `db:"event_id" json:"event_id"`
	TicketTypeID string          `db:"ticket_type_id" json:"ticket_type_id"`
	UserID       string          `db:"user_id" json:"user_id"`
	Quantity     int             `db:"quantity" json:"quantity"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status       BookingStatus   `db:"status" json:"status"`
	ExpiresAt    *time.Time      `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

func (b *Booking) IsTerminal() bool {
	return b.Status != BookingStatusPending
}

func (b *Booking) IsExpiredAt(now time.Time) bool {
	return b.Status == BookingStatusPending && b.ExpiresAt != nil && b.ExpiresAt.Before(now)
}
