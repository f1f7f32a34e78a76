package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"event-booking/internal/domain"
	"event-booking/internal/store"
)

func (s *Store) CreatePayment(ctx context.Context, p *domain.Payment) error {
	_, err := s.ext.ExecContext(ctx, `
		INSERT INTO payments (id, booking_id, order_id, payment_id, signature,
			status, amount, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.BookingID, p.OrderID, p.PaymentID, p.Signature,
		p.Status, p.Amount, p.PaidAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return store.ErrDuplicate
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (s *Store) GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	err := sqlx.GetContext(ctx, s.ext, &p, `SELECT * FROM payments WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// GetPaymentByOrderIDForUpdate locks the payment row; the duplicate-delivery
// guard in the confirmation path depends on this.
func (s *Store) GetPaymentByOrderIDForUpdate(ctx context.Context, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	err := sqlx.GetContext(ctx, s.ext, &p,
		`SELECT * FROM payments WHERE order_id = $1 FOR UPDATE`, orderID)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) GetPaymentByBooking(ctx context.Context, bookingID string) (*domain.Payment, error) {
	var p domain.Payment
	err := sqlx.GetContext(ctx, s.ext, &p, `SELECT * FROM payments WHERE booking_id = $1`, bookingID)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) UpdatePayment(ctx context.Context, p *domain.Payment) error {
	res, err := s.ext.ExecContext(ctx, `
		UPDATE payments
		SET order_id = $1, payment_id = $2, signature = $3, status = $4,
			paid_at = $5, updated_at = now()
		WHERE id = $6`,
		p.OrderID, p.PaymentID, p.Signature, p.Status, p.PaidAt, p.ID)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return requireOneRow(res)
}
