package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-booking/internal/domain"
	"event-booking/internal/store/memory"
	"event-booking/pkg/logger"
)

func newEventService() (EventService, string) {
	return NewEventService(memory.New(), logger.NewTest()), uuid.New().String()
}

func createDraftEvent(t *testing.T, svc EventService, organizerID string) *domain.Event {
	t.Helper()
	start := time.Now().Add(72 * time.Hour)
	event, err := svc.Create(context.Background(), CreateEventInput{
		Title:       "Jazz Evening",
		VenueName:   "Blue Hall",
		StartDate:   start,
		EndDate:     start.Add(3 * time.Hour),
		OrganizerID: organizerID,
	})
	require.NoError(t, err)
	return event
}

func TestCreateEventStartsAsDraft(t *testing.T) {
	svc, organizerID := newEventService()

	event := createDraftEvent(t, svc, organizerID)
	assert.Equal(t, domain.EventStatusDraft, event.Status)
}

func TestCreateEventRejectsInvertedDates(t *testing.T) {
	svc, organizerID := newEventService()
	start := time.Now().Add(72 * time.Hour)

	_, err := svc.Create(context.Background(), CreateEventInput{
		Title:       "Backwards",
		VenueName:   "Blue Hall",
		StartDate:   start,
		EndDate:     start.Add(-time.Hour),
		OrganizerID: organizerID,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddTicketTypeSeedsInventory(t *testing.T) {
	svc, organizerID := newEventService()
	event := createDraftEvent(t, svc, organizerID)

	tt, err := svc.AddTicketType(context.Background(), CreateTicketTypeInput{
		EventID:     event.ID,
		OrganizerID: organizerID,
		Name:        "VIP",
		Price:       decimal.NewFromInt(120),
		Quantity:    25,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, tt.TotalQuantity)
	assert.Equal(t, 25, tt.AvailableQuantity)
}

func TestAddTicketTypeRequiresOwnership(t *testing.T) {
	svc, organizerID := newEventService()
	event := createDraftEvent(t, svc, organizerID)

	_, err := svc.AddTicketType(context.Background(), CreateTicketTypeInput{
		EventID:     event.ID,
		OrganizerID: uuid.New().String(),
		Name:        "VIP",
		Price:       decimal.NewFromInt(120),
		Quantity:    25,
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPublishRequiresTicketTypes(t *testing.T) {
	svc, organizerID := newEventService()
	event := createDraftEvent(t, svc, organizerID)
	ctx := context.Background()

	_, err := svc.Publish(ctx, event.ID, organizerID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddTicketType(ctx, CreateTicketTypeInput{
		EventID:     event.ID,
		OrganizerID: organizerID,
		Name:        "General",
		Price:       decimal.NewFromInt(40),
		Quantity:    100,
	})
	require.NoError(t, err)

	published, err := svc.Publish(ctx, event.ID, organizerID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusPublished, published.Status)

	// Publishing is a one-way transition.
	_, err = svc.Publish(ctx, event.ID, organizerID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListPublishedFiltersDrafts(t *testing.T) {
	svc, organizerID := newEventService()
	ctx := context.Background()

	draft := createDraftEvent(t, svc, organizerID)
	toPublish := createDraftEvent(t, svc, organizerID)
	_, err := svc.AddTicketType(ctx, CreateTicketTypeInput{
		EventID:     toPublish.ID,
		OrganizerID: organizerID,
		Name:        "General",
		Price:       decimal.NewFromInt(10),
		Quantity:    5,
	})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, toPublish.ID, organizerID)
	require.NoError(t, err)

	events, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, toPublish.ID, events[0].ID)
	assert.NotEqual(t, draft.ID, events[0].ID)
}
