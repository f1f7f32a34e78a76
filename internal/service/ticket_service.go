package service

import (
	"context"
	"errors"
	"fmt"

	"event-booking/internal/domain"
	"event-booking/internal/store"
	"event-booking/pkg/logger"
)

type TicketService interface {
	GetByNumber(ctx context.Context, number, userID string) (*domain.Ticket, error)
	// Redeem marks an ACTIVE ticket USED at the gate. USED and CANCELLED
	// tickets are rejected.
	Redeem(ctx context.Context, number string) (*domain.Ticket, error)
}

type ticketService struct {
	store store.Store
	l     logger.Logger
}

func NewTicketService(st store.Store, l logger.Logger) TicketService {
	return &ticketService{store: st, l: l}
}

func (s *ticketService) GetByNumber(ctx context.Context, number, userID string) (*domain.Ticket, error) {
	ticket, err := s.store.GetTicketByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	booking, err := s.store.GetBooking(ctx, ticket.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrUnauthorized
	}

	return ticket, nil
}

func (s *ticketService) Redeem(ctx context.Context, number string) (*domain.Ticket, error) {
	var redeemed *domain.Ticket

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		ticket, err := tx.GetTicketByNumber(ctx, number)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTicketNotFound
			}
			return err
		}

		switch ticket.Status {
		case domain.TicketStatusUsed:
			return fmt.Errorf("%w: ticket has already been used", ErrValidation)
		case domain.TicketStatusCancelled:
			return fmt.Errorf("%w: ticket has been cancelled", ErrValidation)
		}

		if err := tx.UpdateTicketStatus(ctx, ticket.ID, domain.TicketStatusUsed); err != nil {
			return err
		}

		ticket.Status = domain.TicketStatusUsed
		redeemed = ticket
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.l.Infof(ctx, "Ticket %s redeemed", number)
	return redeemed, nil
}
