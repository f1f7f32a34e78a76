package domain

import "time"

type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "ACTIVE"
	TicketStatusUsed      TicketStatus = "USED"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

// Ticket is issued exactly once per unit of a confirmed booking's quantity.
type Ticket struct {
	ID           string       `db:"id" json:"id"`
	BookingID    string       `db:"booking_id" json:"booking_id"`
	TicketTypeID string       `db:"ticket_type_id" json:"ticket_type_id"`
	Number       string       `db:"number" json:"number"`
	QRPayload    string       `db:"qr_payload" json:"qr_payload"`
	Status       TicketStatus `db:"status" json:"status"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}
