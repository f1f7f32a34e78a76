package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"event-booking/internal/domain"
	"event-booking/internal/store"
	"event-booking/pkg/logger"
)

type PaymentService interface {
	// CreateOrder lazily creates the booking's Payment record and registers
	// an order with the gateway. Re-requesting reuses the record with a
	// fresh order id; a booking never has more than one Payment.
	CreateOrder(ctx context.Context, bookingRef, userID string) (*PaymentOrder, error)
	// Verify is the synchronous confirmation path: the client hands back
	// the gateway's signature, which must validate before the booking is
	// confirmed.
	Verify(ctx context.Context, in VerifyPaymentInput) (*BookingDetail, error)
	// ConfirmPayment is the idempotent convergence point shared by Verify
	// and the provider webhook. A payment already SUCCESS is returned as a
	// no-op regardless of which path delivered it first.
	ConfirmPayment(ctx context.Context, orderID, paymentID string, status domain.PaymentStatus, signature string) (*BookingDetail, error)
}

type paymentService struct {
	store      store.Store
	gateway    PaymentGateway
	bookingSvc BookingService
	keyID      string
	l          logger.Logger
	now        func() time.Time
}

func NewPaymentService(st store.Store, gw PaymentGateway, bookingSvc BookingService, keyID string, l logger.Logger) PaymentService {
	return &paymentService{
		store:      st,
		gateway:    gw,
		bookingSvc: bookingSvc,
		keyID:      keyID,
		l:          l,
		now:        time.Now,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, bookingRef, userID string) (*PaymentOrder, error) {
	booking, err := s.store.GetBookingByReference(ctx, bookingRef)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrUnauthorized
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, fmt.Errorf("%w: booking is not pending", ErrValidation)
	}
	if booking.IsExpiredAt(s.now()) {
		return nil, ErrBookingExpired
	}

	// The gateway call happens outside the transaction; only the resulting
	// order id is persisted.
	orderID, err := s.gateway.CreateOrder(ctx, booking.TotalAmount, booking.Reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		payment, err := tx.GetPaymentByBooking(ctx, booking.ID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			now := s.now()
			return tx.CreatePayment(ctx, &domain.Payment{
				ID:        uuid.New().String(),
				BookingID: booking.ID,
				OrderID:   orderID,
				Status:    domain.PaymentStatusPending,
				Amount:    booking.TotalAmount,
				CreatedAt: now,
				UpdatedAt: now,
			})
		case err != nil:
			return err
		}

		payment.OrderID = orderID
		payment.Status = domain.PaymentStatusPending
		return tx.UpdatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.l.Infof(ctx, "Payment order %s created for booking %s", orderID, bookingRef)

	return &PaymentOrder{
		OrderID:          orderID,
		Amount:           booking.TotalAmount,
		Currency:         "INR",
		BookingReference: booking.Reference,
		GatewayKeyID:     s.keyID,
	}, nil
}

func (s *paymentService) Verify(ctx context.Context, in VerifyPaymentInput) (*BookingDetail, error) {
	payment, err := s.store.GetPaymentByOrderID(ctx, in.OrderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	booking, err := s.store.GetBooking(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != in.UserID {
		return nil, ErrUnauthorized
	}
	if in.BookingReference != "" && in.BookingReference != booking.Reference {
		return nil, fmt.Errorf("%w: order does not belong to booking %s", ErrValidation, in.BookingReference)
	}

	if !s.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		if _, err := s.ConfirmPayment(ctx, in.OrderID, in.PaymentID, domain.PaymentStatusFailed, ""); err != nil {
			s.l.Errorf(ctx, "service.paymentService.Verify: recording failed payment: %v", err)
		}
		return nil, fmt.Errorf("%w: invalid signature", ErrPaymentFailed)
	}

	return s.ConfirmPayment(ctx, in.OrderID, in.PaymentID, domain.PaymentStatusSuccess, in.Signature)
}

func (s *paymentService) ConfirmPayment(ctx context.Context, orderID, paymentID string, status domain.PaymentStatus, signature string) (*BookingDetail, error) {
	var (
		bookingID        string
		alreadyConfirmed bool
	)

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		payment, err := tx.GetPaymentByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		bookingID = payment.BookingID

		// Duplicate-delivery guard: the verify call and the webhook both
		// land here and only the first SUCCESS goes through.
		if payment.Status == domain.PaymentStatusSuccess {
			alreadyConfirmed = true
			return nil
		}

		switch status {
		case domain.PaymentStatusSuccess:
			now := s.now()
			payment.PaymentID = paymentID
			payment.Signature = signature
			payment.Status = domain.PaymentStatusSuccess
			payment.PaidAt = &now
		case domain.PaymentStatusFailed:
			payment.PaymentID = paymentID
			payment.Status = domain.PaymentStatusFailed
		default:
			return fmt.Errorf("%w: unsupported payment status %q", ErrValidation, status)
		}

		return tx.UpdatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	if alreadyConfirmed {
		s.l.Infof(ctx, "Payment for order %s already processed, skipping", orderID)
		// Confirm is idempotent and hands back the existing booking state.
		return s.bookingSvc.Confirm(ctx, bookingID)
	}

	if status == domain.PaymentStatusFailed {
		s.l.Warnf(ctx, "Payment for order %s marked as failed", orderID)
		// The booking stays PENDING; it may be retried or reaped later.
		return nil, nil
	}

	return s.bookingSvc.Confirm(ctx, bookingID)
}
