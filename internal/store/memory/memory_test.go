package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-booking/internal/domain"
	"event-booking/internal/store"
)

func seedTicketType(t *testing.T, s *Store, total int) *domain.TicketType {
	t.Helper()

	event := &domain.Event{
		ID:        uuid.New().String(),
		Title:     "Standup Night",
		VenueName: "Comedy Cellar",
		StartDate: time.Now().Add(24 * time.Hour),
		EndDate:   time.Now().Add(26 * time.Hour),
		Status:    domain.EventStatusPublished,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateEvent(context.Background(), event))

	tt := &domain.TicketType{
		ID:                uuid.New().String(),
		EventID:           event.ID,
		Name:              "General",
		Price:             decimal.NewFromInt(25),
		TotalQuantity:     total,
		AvailableQuantity: total,
		CreatedAt:         time.Now(),
	}
	require.NoError(t, s.CreateTicketType(context.Background(), tt))
	return tt
}

func TestReserveQuantityNeverOversells(t *testing.T) {
	s := New()
	tt := seedTicketType(t, s, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, rejected := 0, 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
				return tx.ReserveQuantity(ctx, tt.ID, 1)
			})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			var insErr *store.InsufficientInventoryError
			require.ErrorAs(t, err, &insErr)
			rejected++
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 40, rejected)

	got, err := s.GetTicketType(ctx, tt.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableQuantity)
}

func TestReserveQuantityReportsAvailability(t *testing.T) {
	s := New()
	tt := seedTicketType(t, s, 3)

	err := s.ReserveQuantity(context.Background(), tt.ID, 5)

	var insErr *store.InsufficientInventoryError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, 3, insErr.Available)
	assert.Equal(t, 5, insErr.Requested)
}

func TestReleaseQuantityOverflow(t *testing.T) {
	s := New()
	tt := seedTicketType(t, s, 10)
	ctx := context.Background()

	require.NoError(t, s.ReserveQuantity(ctx, tt.ID, 4))
	require.NoError(t, s.ReleaseQuantity(ctx, tt.ID, 4))

	err := s.ReleaseQuantity(ctx, tt.ID, 1)
	var ovErr *store.ReleaseOverflowError
	require.ErrorAs(t, err, &ovErr)

	got, err := s.GetTicketType(ctx, tt.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.AvailableQuantity)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	s := New()
	tt := seedTicketType(t, s, 10)
	ctx := context.Background()

	bookingID := uuid.New().String()
	sentinel := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.ReserveQuantity(ctx, tt.ID, 2); err != nil {
			return err
		}
		if err := tx.CreateBooking(ctx, &domain.Booking{
			ID:           bookingID,
			Reference:    "BKDEADBEEF",
			EventID:      tt.EventID,
			TicketTypeID: tt.ID,
			UserID:       uuid.New().String(),
			Quantity:     2,
			Status:       domain.BookingStatusPending,
		}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = s.GetBooking(ctx, bookingID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.GetTicketType(ctx, tt.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.AvailableQuantity, "failed transaction must not leak the reservation")
}

func TestListExpiredPendingIDs(t *testing.T) {
	s := New()
	tt := seedTicketType(t, s, 10)
	ctx := context.Background()
	now := time.Now()

	mkBooking := func(status domain.BookingStatus, expiresAt *time.Time) string {
		id := uuid.New().String()
		require.NoError(t, s.CreateBooking(ctx, &domain.Booking{
			ID:           id,
			Reference:    "BK" + id[:8],
			EventID:      tt.EventID,
			TicketTypeID: tt.ID,
			UserID:       uuid.New().String(),
			Quantity:     1,
			Status:       status,
			ExpiresAt:    expiresAt,
		}))
		return id
	}

	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	overdue := mkBooking(domain.BookingStatusPending, &past)
	mkBooking(domain.BookingStatusPending, &future)
	mkBooking(domain.BookingStatusConfirmed, nil)
	mkBooking(domain.BookingStatusExpired, &past)

	ids, err := s.ListExpiredPendingIDs(ctx, now, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{overdue}, ids)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := &domain.User{ID: uuid.New().String(), Email: "a@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))

	dup := &domain.User{ID: uuid.New().String(), Email: "a@example.com"}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), store.ErrDuplicate)
}
