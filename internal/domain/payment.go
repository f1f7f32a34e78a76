package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Payment is created lazily when a payment order is first requested for a
// booking. At most one Payment exists per booking.
type Payment struct {
	ID        string          `db:"id" json:"id"`
	BookingID string          `db:"booking_id" json:"booking_id"`
	OrderID   string          `db:"order_id" json:"order_id"`
	PaymentID string          `db:"payment_id" json:"payment_id"`
	Signature string          `db:"signature" json:"-"`
	Status    PaymentStatus   `db:"status" json:"status"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	PaidAt    *time.Time      `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
