package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"event-booking/internal/domain"
	"event-booking/internal/store"
)

func (s *Store) CreateBooking(ctx context.Context, b *domain.Booking) error {
	_, err := s.ext.ExecContext(ctx, `
		INSERT INTO bookings (id, reference, event_id, ticket_type_id, user_id,
			quantity, total_amount, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID, b.Reference, b.EventID, b.TicketTypeID, b.UserID,
		b.Quantity, b.TotalAmount, b.Status, b.ExpiresAt, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return store.ErrDuplicate
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	err := sqlx.GetContext(ctx, s.ext, &b, `SELECT * FROM bookings WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *Store) GetBookingByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	var b domain.Booking
	err := sqlx.GetContext(ctx, s.ext, &b, `SELECT * FROM bookings WHERE reference = $1`, ref)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// GetBookingForUpdate takes a row lock so confirm, cancel and expire
// serialize per booking for the rest of the transaction.
func (s *Store) GetBookingForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	err := sqlx.GetContext(ctx, s.ext, &b,
		`SELECT * FROM bookings WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *Store) UpdateBooking(ctx context.Context, b *domain.Booking) error {
	res, err := s.ext.ExecContext(ctx, `
		UPDATE bookings
		SET status = $1, expires_at = $2, updated_at = now()
		WHERE id = $3`,
		b.Status, b.ExpiresAt, b.ID)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return requireOneRow(res)
}

func (s *Store) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := sqlx.SelectContext(ctx, s.ext, &bookings,
		`SELECT * FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by user: %w", err)
	}
	return bookings, nil
}

func (s *Store) ListExpiredPendingIDs(ctx context.Context, now time.Time, limit int) ([]string, error) {
	var ids []string
	err := sqlx.SelectContext(ctx, s.ext, &ids, `
		SELECT id FROM bookings
		WHERE status = $1 AND expires_at < $2
		ORDER BY expires_at
		LIMIT $3`,
		domain.BookingStatusPending, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired pending bookings: %w", err)
	}
	return ids, nil
}
