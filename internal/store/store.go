package store

import (
	"context"
	"time"

	"event-booking/internal/domain"
)

// Store is the persistence boundary for the booking core. Implementations
// must guarantee that everything executed inside WithinTx is applied
// atomically, and that ReserveQuantity/ReleaseQuantity serialize per
// ticket-type row.
type Store interface {
	// WithinTx runs fn against a transactional view of the store. If fn
	// returns an error, none of its mutations are observable.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	UserStore
	EventStore
	InventoryStore
	BookingStore
	TicketStore
	PaymentStore
}

type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type EventStore interface {
	CreateEvent(ctx context.Context, e *domain.Event) error
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	ListEvents(ctx context.Context, status domain.EventStatus) ([]domain.Event, error)
	UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus) error
	CreateTicketType(ctx context.Context, tt *domain.TicketType) error
	GetTicketType(ctx context.Context, id string) (*domain.TicketType, error)
	ListTicketTypes(ctx context.Context, eventID string) ([]domain.TicketType, error)
}

// InventoryStore owns the available/total counters. Both operations are
// atomic check-and-mutate steps scoped to one ticket-type row; concurrent
// callers against the same row never both observe the pre-mutation value.
type InventoryStore interface {
	// ReserveQuantity decrements available_quantity by qty if at least qty
	// is available, otherwise returns *InsufficientInventoryError.
	ReserveQuantity(ctx context.Context, ticketTypeID string, qty int) error
	// ReleaseQuantity increments available_quantity by qty. A release that
	// would push the counter past total_quantity indicates a double-release
	// bug and returns *ReleaseOverflowError instead of clamping.
	ReleaseQuantity(ctx context.Context, ticketTypeID string, qty int) error
}

type BookingStore interface {
	CreateBooking(ctx context.Context, b *domain.Booking) error
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	GetBookingByReference(ctx context.Context, ref string) (*domain.Booking, error)
	// GetBookingForUpdate locks the booking row for the remainder of the
	// enclosing transaction. Must be called inside WithinTx.
	GetBookingForUpdate(ctx context.Context, id string) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, b *domain.Booking) error
	ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	// ListExpiredPendingIDs returns ids of PENDING bookings whose deadline
	// passed before now. The result is a snapshot; callers must re-check
	// state transactionally before acting on each id.
	ListExpiredPendingIDs(ctx context.Context, now time.Time, limit int) ([]string, error)
}

type TicketStore interface {
	CreateTickets(ctx context.Context, tickets []domain.Ticket) error
	ListTicketsByBooking(ctx context.Context, bookingID string) ([]domain.Ticket, error)
	GetTicketByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	UpdateTicketStatus(ctx context.Context, id string, status domain.TicketStatus) error
	CancelTicketsByBooking(ctx context.Context, bookingID string) error
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, p *domain.Payment) error
	GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	// GetPaymentByOrderIDForUpdate locks the payment row for the remainder
	// of the enclosing transaction.
	GetPaymentByOrderIDForUpdate(ctx context.Context, orderID string) (*domain.Payment, error)
	GetPaymentByBooking(ctx context.Context, bookingID string) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, p *domain.Payment) error
}
