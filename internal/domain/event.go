package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusCancelled EventStatus = "CANCELLED"
	EventStatusCompleted EventStatus = "COMPLETED"
)

type Event struct {
	ID           string      `db:"id" json:"id"`
	Title        string      `db:"title" json:"title"`
	Description  string      `db:"description" json:"description"`
	VenueName    string      `db:"venue_name" json:"venue_name"`
	VenueAddress string      `db:"venue_address" json:"venue_address"`
	StartDate    time.Time   `db:"start_date" json:"start_date"`
	EndDate      time.Time   `db:"end_date" json:"end_date"`
	Status       EventStatus `db:"status" json:"status"`
	OrganizerID  string      `db:"organizer_id" json:"organizer_id"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// IsBookable reports whether bookings may be created against the event.
func (e *Event) IsBookable(now time.Time) bool {
	return e.Status == EventStatusPublished && e.StartDate.After(now)
}

// TicketType is a priced admission category with a fixed total and a live
// available count. AvailableQuantity is mutated only through the store's
// reserve/release operations.
type TicketType struct {
	ID                string          `db:"id" json:"id"`
	EventID           string          `db:"event_id" json:"event_id"`
	Name              string          `db:"name" json:"name"`
	Price             decimal.Decimal `db:"price" json:"price"`
	TotalQuantity     int             `db:"total_quantity" json:"total_quantity"`
	AvailableQuantity int             `db:"available_quantity" json:"available_quantity"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}
