package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	kafka "event-booking/internal/delivery/kafka"
	"event-booking/internal/delivery/kafka/producer"
	"event-booking/internal/domain"
	"event-booking/internal/metrics"
	"event-booking/internal/store"
	"event-booking/pkg/logger"
)

const DefaultHoldTTL = 10 * time.Minute

type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*BookingDetail, error)
	GetByReference(ctx context.Context, ref, userID string) (*BookingDetail, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	// Confirm transitions a PENDING booking to CONFIRMED and issues its
	// tickets. Safe under concurrent at-least-twice invocation: a booking
	// already CONFIRMED returns the existing tickets without side effects.
	// A booking past its deadline is expired instead and ErrBookingExpired
	// is returned.
	Confirm(ctx context.Context, bookingID string) (*BookingDetail, error)
	Cancel(ctx context.Context, ref, userID string) (*BookingDetail, error)
	// Expire releases inventory for a PENDING booking whose deadline
	// passed. It re-checks state under the row lock and is a no-op if the
	// booking left PENDING meanwhile.
	Expire(ctx context.Context, bookingID string) error
	// FindExpired snapshots ids of due PENDING bookings for the reaper.
	FindExpired(ctx context.Context, limit int) ([]string, error)
}

type bookingService struct {
	store   store.Store
	issuer  TicketIssuer
	prod    producer.Producer
	holdTTL time.Duration
	l       logger.Logger
	now     func() time.Time
}

func NewBookingService(st store.Store, issuer TicketIssuer, prod producer.Producer, holdTTL time.Duration, l logger.Logger) BookingService {
	if holdTTL <= 0 {
		holdTTL = DefaultHoldTTL
	}
	return &bookingService{
		store:   st,
		issuer:  issuer,
		prod:    prod,
		holdTTL: holdTTL,
		l:       l,
		now:     time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, in CreateBookingInput) (*BookingDetail, error) {
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	now := s.now()

	event, err := s.store.GetEvent(ctx, in.EventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.Status != domain.EventStatusPublished {
		return nil, fmt.Errorf("%w: event is not available for booking", ErrValidation)
	}
	if !event.StartDate.After(now) {
		return nil, fmt.Errorf("%w: event has already started", ErrValidation)
	}

	tt, err := s.store.GetTicketType(ctx, in.TicketTypeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTicketTypeNotFound
		}
		return nil, err
	}
	if tt.EventID != event.ID {
		return nil, fmt.Errorf("%w: ticket type does not belong to this event", ErrValidation)
	}

	expiresAt := now.Add(s.holdTTL)
	booking := &domain.Booking{
		ID:           uuid.New().String(),
		Reference:    newBookingReference(),
		EventID:      event.ID,
		TicketTypeID: tt.ID,
		UserID:       in.UserID,
		Quantity:     in.Quantity,
		TotalAmount:  tt.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
		Status:       domain.BookingStatusPending,
		ExpiresAt:    &expiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.ReserveQuantity(ctx, tt.ID, in.Quantity); err != nil {
			return err
		}
		return tx.CreateBooking(ctx, booking)
	})
	if err != nil {
		var insErr *store.InsufficientInventoryError
		if errors.As(err, &insErr) {
			metrics.InsufficientInventory.Inc()
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	s.l.Infof(ctx, "Booking %s created: event=%s type=%s qty=%d, expires at %s",
		booking.Reference, event.ID, tt.ID, in.Quantity, expiresAt.Format(time.RFC3339))

	return &BookingDetail{Booking: *booking}, nil
}

func (s *bookingService) GetByReference(ctx context.Context, ref, userID string) (*BookingDetail, error) {
	booking, err := s.store.GetBookingByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrUnauthorized
	}

	return s.resolveDetail(ctx, booking)
}

func (s *bookingService) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.store.ListBookingsByUser(ctx, userID)
}

func (s *bookingService) Confirm(ctx context.Context, bookingID string) (*BookingDetail, error) {
	now := s.now()

	var (
		detail  BookingDetail
		expired bool
		issued  bool
	)

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		booking, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		switch booking.Status {
		case domain.BookingStatusConfirmed:
			// The other confirmation path got here first. Return its result.
			tickets, err := tx.ListTicketsByBooking(ctx, booking.ID)
			if err != nil {
				return err
			}
			detail = BookingDetail{Booking: *booking, Tickets: tickets}
			return nil
		case domain.BookingStatusCancelled, domain.BookingStatusExpired:
			return fmt.Errorf("%w: booking is %s", ErrValidation, booking.Status)
		}

		if booking.IsExpiredAt(now) {
			// Deadline passed before payment landed: perform the expire
			// transition here and report it after commit.
			if err := tx.ReleaseQuantity(ctx, booking.TicketTypeID, booking.Quantity); err != nil {
				return err
			}
			booking.Status = domain.BookingStatusExpired
			if err := tx.UpdateBooking(ctx, booking); err != nil {
				return err
			}
			expired = true
			return nil
		}

		tickets := make([]domain.Ticket, 0, booking.Quantity)
		for _, it := range s.issuer.Issue(booking.Reference, booking.EventID, booking.Quantity) {
			tickets = append(tickets, domain.Ticket{
				ID:           uuid.New().String(),
				BookingID:    booking.ID,
				TicketTypeID: booking.TicketTypeID,
				Number:       it.Number,
				QRPayload:    it.QRPayload,
				Status:       domain.TicketStatusActive,
				CreatedAt:    now,
			})
		}
		if err := tx.CreateTickets(ctx, tickets); err != nil {
			return err
		}

		booking.Status = domain.BookingStatusConfirmed
		booking.ExpiresAt = nil
		if err := tx.UpdateBooking(ctx, booking); err != nil {
			return err
		}

		detail = BookingDetail{Booking: *booking, Tickets: tickets}
		issued = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if expired {
		metrics.BookingsExpired.Inc()
		s.l.Warnf(ctx, "Booking %s confirmation arrived after deadline; booking expired", bookingID)
		s.notifyExpired(ctx, bookingID)
		return nil, ErrBookingExpired
	}

	if issued {
		metrics.BookingsConfirmed.Inc()
		s.l.Infof(ctx, "Booking %s confirmed, %d tickets issued", detail.Booking.Reference, len(detail.Tickets))
		s.notifyConfirmed(ctx, &detail)
	}

	return &detail, nil
}

func (s *bookingService) Cancel(ctx context.Context, ref, userID string) (*BookingDetail, error) {
	var detail BookingDetail

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		booking, err := tx.GetBookingByReference(ctx, ref)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.UserID != userID {
			return ErrUnauthorized
		}

		booking, err = tx.GetBookingForUpdate(ctx, booking.ID)
		if err != nil {
			return err
		}

		switch booking.Status {
		case domain.BookingStatusCancelled:
			return fmt.Errorf("%w: booking is already cancelled", ErrValidation)
		case domain.BookingStatusExpired:
			return fmt.Errorf("%w: booking has expired", ErrValidation)
		}

		if err := tx.ReleaseQuantity(ctx, booking.TicketTypeID, booking.Quantity); err != nil {
			return err
		}
		if err := tx.CancelTicketsByBooking(ctx, booking.ID); err != nil {
			return err
		}

		booking.Status = domain.BookingStatusCancelled
		booking.ExpiresAt = nil
		if err := tx.UpdateBooking(ctx, booking); err != nil {
			return err
		}

		tickets, err := tx.ListTicketsByBooking(ctx, booking.ID)
		if err != nil {
			return err
		}

		detail = BookingDetail{Booking: *booking, Tickets: tickets}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCancelled.Inc()
	s.l.Infof(ctx, "Booking %s cancelled, %d tickets released", detail.Booking.Reference, detail.Booking.Quantity)
	s.notifyCancelled(ctx, &detail)

	return &detail, nil
}

func (s *bookingService) Expire(ctx context.Context, bookingID string) error {
	now := s.now()

	var expired bool
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		booking, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		// The booking may have been confirmed or cancelled between the
		// reaper's query and this transaction. Losing that race is fine.
		if !booking.IsExpiredAt(now) {
			return nil
		}

		if err := tx.ReleaseQuantity(ctx, booking.TicketTypeID, booking.Quantity); err != nil {
			return err
		}
		booking.Status = domain.BookingStatusExpired
		if err := tx.UpdateBooking(ctx, booking); err != nil {
			return err
		}
		expired = true
		return nil
	})
	if err != nil {
		return err
	}

	if expired {
		metrics.BookingsExpired.Inc()
		s.l.Infof(ctx, "Booking %s expired, inventory released", bookingID)
		s.notifyExpired(ctx, bookingID)
	}
	return nil
}

func (s *bookingService) FindExpired(ctx context.Context, limit int) ([]string, error) {
	return s.store.ListExpiredPendingIDs(ctx, s.now(), limit)
}

func (s *bookingService) resolveDetail(ctx context.Context, booking *domain.Booking) (*BookingDetail, error) {
	tickets, err := s.store.ListTicketsByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	detail := &BookingDetail{Booking: *booking, Tickets: tickets}

	payment, err := s.store.GetPaymentByBooking(ctx, booking.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	detail.Payment = payment

	return detail, nil
}

// Notification helpers. Publishing is fire-and-forget: failures are logged
// and never affect the committed transition.

func (s *bookingService) notifyConfirmed(ctx context.Context, detail *BookingDetail) {
	if s.prod == nil {
		return
	}

	user, event, err := s.lookupRecipient(ctx, &detail.Booking)
	if err != nil {
		s.l.Errorf(ctx, "service.bookingService.notifyConfirmed: %v", err)
		return
	}

	numbers := make([]string, 0, len(detail.Tickets))
	for _, t := range detail.Tickets {
		numbers = append(numbers, t.Number)
	}

	if err := s.prod.PublishBookingConfirmed(ctx, kafka.BookingConfirmedEvent{
		BookingReference: detail.Booking.Reference,
		UserEmail:        user.Email,
		EventTitle:       event.Title,
		EventStartDate:   event.StartDate,
		VenueName:        event.VenueName,
		Quantity:         detail.Booking.Quantity,
		TotalAmount:      detail.Booking.TotalAmount.String(),
		TicketNumbers:    numbers,
	}); err != nil {
		s.l.Errorf(ctx, "service.bookingService.notifyConfirmed: %v", err)
	}
}

func (s *bookingService) notifyCancelled(ctx context.Context, detail *BookingDetail) {
	if s.prod == nil {
		return
	}

	user, event, err := s.lookupRecipient(ctx, &detail.Booking)
	if err != nil {
		s.l.Errorf(ctx, "service.bookingService.notifyCancelled: %v", err)
		return
	}

	if err := s.prod.PublishBookingCancelled(ctx, kafka.BookingCancelledEvent{
		BookingReference: detail.Booking.Reference,
		UserEmail:        user.Email,
		EventTitle:       event.Title,
		Quantity:         detail.Booking.Quantity,
	}); err != nil {
		s.l.Errorf(ctx, "service.bookingService.notifyCancelled: %v", err)
	}
}

func (s *bookingService) notifyExpired(ctx context.Context, bookingID string) {
	if s.prod == nil {
		return
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		s.l.Errorf(ctx, "service.bookingService.notifyExpired: %v", err)
		return
	}

	user, event, err := s.lookupRecipient(ctx, booking)
	if err != nil {
		s.l.Errorf(ctx, "service.bookingService.notifyExpired: %v", err)
		return
	}

	if err := s.prod.PublishBookingExpired(ctx, kafka.BookingExpiredEvent{
		BookingReference: booking.Reference,
		UserEmail:        user.Email,
		EventTitle:       event.Title,
		Quantity:         booking.Quantity,
	}); err != nil {
		s.l.Errorf(ctx, "service.bookingService.notifyExpired: %v", err)
	}
}

func (s *bookingService) lookupRecipient(ctx context.Context, booking *domain.Booking) (*domain.User, *domain.Event, error) {
	user, err := s.store.GetUser(ctx, booking.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup user %s: %w", booking.UserID, err)
	}
	event, err := s.store.GetEvent(ctx, booking.EventID)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup event %s: %w", booking.EventID, err)
	}
	return user, event, nil
}
