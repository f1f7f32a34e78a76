package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"event-booking/internal/store"
)

// ReserveQuantity performs the check-and-decrement as one conditional UPDATE,
// which Postgres serializes per row. No explicit lock is needed: two
// concurrent reserves against the same ticket type cannot both see the
// pre-decrement value.
func (s *Store) ReserveQuantity(ctx context.Context, ticketTypeID string, qty int) error {
	res, err := s.ext.ExecContext(ctx, `
		UPDATE ticket_types
		SET available_quantity = available_quantity - $1
		WHERE id = $2 AND available_quantity >= $1`,
		qty, ticketTypeID)
	if err != nil {
		return fmt.Errorf("reserve quantity: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve quantity: %w", err)
	}
	if n == 1 {
		return nil
	}

	var available int
	err = sqlx.GetContext(ctx, s.ext, &available,
		`SELECT available_quantity FROM ticket_types WHERE id = $1`, ticketTypeID)
	if err != nil {
		return notFound(err)
	}

	return &store.InsufficientInventoryError{
		TicketTypeID: ticketTypeID,
		Available:    available,
		Requested:    qty,
	}
}

// ReleaseQuantity refuses to push the counter past total_quantity: that can
// only happen on a double release and must surface, not be clamped away.
func (s *Store) ReleaseQuantity(ctx context.Context, ticketTypeID string, qty int) error {
	res, err := s.ext.ExecContext(ctx, `
		UPDATE ticket_types
		SET available_quantity = available_quantity + $1
		WHERE id = $2 AND available_quantity + $1 <= total_quantity`,
		qty, ticketTypeID)
	if err != nil {
		return fmt.Errorf("release quantity: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release quantity: %w", err)
	}
	if n == 1 {
		return nil
	}

	var exists bool
	err = sqlx.GetContext(ctx, s.ext, &exists,
		`SELECT EXISTS (SELECT 1 FROM ticket_types WHERE id = $1)`, ticketTypeID)
	if err != nil {
		return fmt.Errorf("release quantity: %w", err)
	}
	if !exists {
		return store.ErrNotFound
	}

	return &store.ReleaseOverflowError{TicketTypeID: ticketTypeID, Released: qty}
}
