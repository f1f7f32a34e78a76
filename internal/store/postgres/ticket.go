package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"event-booking/internal/domain"
	"event-booking/internal/store"
)

func (s *Store) CreateTickets(ctx context.Context, tickets []domain.Ticket) error {
	for _, t := range tickets {
		_, err := s.ext.ExecContext(ctx, `
			INSERT INTO tickets (id, booking_id, ticket_type_id, number,
				qr_payload, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, t.BookingID, t.TicketTypeID, t.Number, t.QRPayload, t.Status, t.CreatedAt)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return store.ErrDuplicate
			}
			return fmt.Errorf("create ticket %s: %w", t.Number, err)
		}
	}
	return nil
}

func (s *Store) ListTicketsByBooking(ctx context.Context, bookingID string) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	err := sqlx.SelectContext(ctx, s.ext, &tickets,
		`SELECT * FROM tickets WHERE booking_id = $1 ORDER BY number`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list tickets by booking: %w", err)
	}
	return tickets, nil
}

func (s *Store) GetTicketByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	var t domain.Ticket
	err := sqlx.GetContext(ctx, s.ext, &t, `SELECT * FROM tickets WHERE number = $1`, number)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) UpdateTicketStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	res, err := s.ext.ExecContext(ctx,
		`UPDATE tickets SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	return requireOneRow(res)
}

func (s *Store) CancelTicketsByBooking(ctx context.Context, bookingID string) error {
	_, err := s.ext.ExecContext(ctx,
		`UPDATE tickets SET status = $1 WHERE booking_id = $2`,
		domain.TicketStatusCancelled, bookingID)
	if err != nil {
		return fmt.Errorf("cancel tickets by booking: %w", err)
	}
	return nil
}
