package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"event-booking/internal/domain"
)

func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	_, err := s.ext.ExecContext(ctx, `
		INSERT INTO events (id, title, description, venue_name, venue_address,
			start_date, end_date, status, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.Title, e.Description, e.VenueName, e.VenueAddress,
		e.StartDate, e.EndDate, e.Status, e.OrganizerID, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	err := sqlx.GetContext(ctx, s.ext, &e, `SELECT * FROM events WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (s *Store) ListEvents(ctx context.Context, status domain.EventStatus) ([]domain.Event, error) {
	var events []domain.Event
	var err error
	if status == "" {
		err = sqlx.SelectContext(ctx, s.ext, &events,
			`SELECT * FROM events ORDER BY start_date`)
	} else {
		err = sqlx.SelectContext(ctx, s.ext, &events,
			`SELECT * FROM events WHERE status = $1 ORDER BY start_date`, status)
	}
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *Store) UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus) error {
	res, err := s.ext.ExecContext(ctx,
		`UPDATE events SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	return requireOneRow(res)
}

func (s *Store) CreateTicketType(ctx context.Context, tt *domain.TicketType) error {
	_, err := s.ext.ExecContext(ctx, `
		INSERT INTO ticket_types (id, event_id, name, price, total_quantity,
			available_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tt.ID, tt.EventID, tt.Name, tt.Price, tt.TotalQuantity,
		tt.AvailableQuantity, tt.CreatedAt)
	if err != nil {
		return fmt.Errorf("create ticket type: %w", err)
	}
	return nil
}

func (s *Store) GetTicketType(ctx context.Context, id string) (*domain.TicketType, error) {
	var tt domain.TicketType
	err := sqlx.GetContext(ctx, s.ext, &tt, `SELECT * FROM ticket_types WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &tt, nil
}

func (s *Store) ListTicketTypes(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	var types []domain.TicketType
	err := sqlx.SelectContext(ctx, s.ext, &types,
		`SELECT * FROM ticket_types WHERE event_id = $1 ORDER BY created_at`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	return types, nil
}
