package worker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-booking/internal/domain"
	"event-booking/internal/service"
	"event-booking/internal/store/memory"
	"event-booking/pkg/logger"
)

func seedBooking(t *testing.T, st *memory.Store, holdTTL time.Duration) (service.BookingService, *domain.Booking, string) {
	t.Helper()
	ctx := context.Background()

	user := &domain.User{ID: uuid.New().String(), Email: "fan@example.com"}
	require.NoError(t, st.CreateUser(ctx, user))

	event := &domain.Event{
		ID:        uuid.New().String(),
		Title:     "Late Show",
		VenueName: "Club",
		StartDate: time.Now().Add(24 * time.Hour),
		EndDate:   time.Now().Add(26 * time.Hour),
		Status:    domain.EventStatusPublished,
	}
	require.NoError(t, st.CreateEvent(ctx, event))

	tt := &domain.TicketType{
		ID:                uuid.New().String(),
		EventID:           event.ID,
		Name:              "General",
		Price:             decimal.NewFromInt(20),
		TotalQuantity:     10,
		AvailableQuantity: 10,
	}
	require.NoError(t, st.CreateTicketType(ctx, tt))

	svc := service.NewBookingService(st, service.NewTicketIssuer(), nil, holdTTL, logger.NewTest())
	detail, err := svc.Create(ctx, service.CreateBookingInput{
		EventID:      event.ID,
		TicketTypeID: tt.ID,
		UserID:       user.ID,
		Quantity:     3,
	})
	require.NoError(t, err)

	return svc, &detail.Booking, tt.ID
}

func TestSweepExpiresOverdueBookings(t *testing.T) {
	st := memory.New()
	svc, booking, ttID := seedBooking(t, st, time.Millisecond)
	ctx := context.Background()

	// Let the hold lapse.
	time.Sleep(10 * time.Millisecond)

	r := NewReaper(svc, time.Minute, 100, logger.NewTest())
	r.Sweep(ctx)

	got, err := st.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusExpired, got.Status)

	tt, err := st.GetTicketType(ctx, ttID)
	require.NoError(t, err)
	assert.Equal(t, 10, tt.AvailableQuantity, "sweep returns the held inventory")
}

func TestSweepLeavesFreshBookingsAlone(t *testing.T) {
	st := memory.New()
	svc, booking, ttID := seedBooking(t, st, time.Hour)
	ctx := context.Background()

	r := NewReaper(svc, time.Minute, 100, logger.NewTest())
	r.Sweep(ctx)

	got, err := st.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, got.Status)

	tt, err := st.GetTicketType(ctx, ttID)
	require.NoError(t, err)
	assert.Equal(t, 7, tt.AvailableQuantity)
}

func TestStartAndStopAreIdempotent(t *testing.T) {
	st := memory.New()
	svc, _, _ := seedBooking(t, st, time.Hour)

	r := NewReaper(svc, 10*time.Millisecond, 100, logger.NewTest())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.Start(ctx)
	r.Start(ctx)

	time.Sleep(25 * time.Millisecond)

	r.Stop()
	r.Stop()
}
