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

type EventService interface {
	Create(ctx context.Context, in CreateEventInput) (*domain.Event, error)
	AddTicketType(ctx context.Context, in CreateTicketTypeInput) (*domain.TicketType, error)
	Publish(ctx context.Context, eventID, organizerID string) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, []domain.TicketType, error)
	ListPublished(ctx context.Context) ([]domain.Event, error)
}

type eventService struct {
	store store.Store
	l     logger.Logger
}

func NewEventService(st store.Store, l logger.Logger) EventService {
	return &eventService{store: st, l: l}
}

func (s *eventService) Create(ctx context.Context, in CreateEventInput) (*domain.Event, error) {
	if !in.EndDate.After(in.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}

	now := time.Now()
	event := &domain.Event{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Description:  in.Description,
		VenueName:    in.VenueName,
		VenueAddress: in.VenueAddress,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Status:       domain.EventStatusDraft,
		OrganizerID:  in.OrganizerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	s.l.Infof(ctx, "Event %s created by organizer %s", event.ID, in.OrganizerID)
	return event, nil
}

func (s *eventService) AddTicketType(ctx context.Context, in CreateTicketTypeInput) (*domain.TicketType, error) {
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	event, err := s.store.GetEvent(ctx, in.EventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.OrganizerID != in.OrganizerID {
		return nil, ErrUnauthorized
	}

	tt := &domain.TicketType{
		ID:                uuid.New().String(),
		EventID:           event.ID,
		Name:              in.Name,
		Price:             in.Price,
		TotalQuantity:     in.Quantity,
		AvailableQuantity: in.Quantity,
		CreatedAt:         time.Now(),
	}

	if err := s.store.CreateTicketType(ctx, tt); err != nil {
		return nil, err
	}
	return tt, nil
}

func (s *eventService) Publish(ctx context.Context, eventID, organizerID string) (*domain.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, ErrUnauthorized
	}
	if event.Status != domain.EventStatusDraft {
		return nil, fmt.Errorf("%w: only draft events can be published", ErrValidation)
	}

	types, err := s.store.ListTicketTypes(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: event has no ticket types", ErrValidation)
	}

	if err := s.store.UpdateEventStatus(ctx, eventID, domain.EventStatusPublished); err != nil {
		return nil, err
	}

	event.Status = domain.EventStatusPublished
	s.l.Infof(ctx, "Event %s published", eventID)
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, []domain.TicketType, error) {
	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, err
	}

	types, err := s.store.ListTicketTypes(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return event, types, nil
}

func (s *eventService) ListPublished(ctx context.Context) ([]domain.Event, error) {
	return s.store.ListEvents(ctx, domain.EventStatusPublished)
}
