// Package memory is an in-process Store used by tests and local mode.
// Transactions are serialized by a store-wide mutex and applied to a cloned
// dataset, so a failed transaction leaves nothing observable behind.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"event-booking/internal/domain"
	"event-booking/internal/store"
)

type dataset struct {
	users             map[string]domain.User
	usersByEmail      map[string]string
	events            map[string]domain.Event
	ticketTypes       map[string]domain.TicketType
	bookings          map[string]domain.Booking
	bookingsByRef     map[string]string
	tickets           map[string]domain.Ticket
	ticketsByNumber   map[string]string
	payments          map[string]domain.Payment
	paymentsByOrder   map[string]string
	paymentsByBooking map[string]string
}

func newDataset() *dataset {
	return &dataset{
		users:             map[string]domain.User{},
		usersByEmail:      map[string]string{},
		events:            map[string]domain.Event{},
		ticketTypes:       map[string]domain.TicketType{},
		bookings:          map[string]domain.Booking{},
		bookingsByRef:     map[string]string{},
		tickets:           map[string]domain.Ticket{},
		ticketsByNumber:   map[string]string{},
		payments:          map[string]domain.Payment{},
		paymentsByOrder:   map[string]string{},
		paymentsByBooking: map[string]string{},
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.usersByEmail {
		c.usersByEmail[k] = v
	}
	for k, v := range d.events {
		c.events[k] = v
	}
	for k, v := range d.ticketTypes {
		c.ticketTypes[k] = v
	}
	for k, v := range d.bookings {
		c.bookings[k] = v
	}
	for k, v := range d.bookingsByRef {
		c.bookingsByRef[k] = v
	}
	for k, v := range d.tickets {
		c.tickets[k] = v
	}
	for k, v := range d.ticketsByNumber {
		c.ticketsByNumber[k] = v
	}
	for k, v := range d.payments {
		c.payments[k] = v
	}
	for k, v := range d.paymentsByOrder {
		c.paymentsByOrder[k] = v
	}
	for k, v := range d.paymentsByBooking {
		c.paymentsByBooking[k] = v
	}
	return c
}

type Store struct {
	mu   sync.Mutex
	data *dataset
	inTx bool
}

func New() *Store {
	return &Store{data: newDataset()}
}

var _ store.Store = (*Store)(nil)

// WithinTx serializes transactions under the store mutex and commits the
// mutated clone only when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.inTx {
		// Nested transactions join the enclosing one.
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txStore := &Store{data: s.data.clone(), inTx: true}
	if err := fn(ctx, txStore); err != nil {
		return err
	}

	s.data = txStore.data
	return nil
}

// lock guards single operations issued outside a transaction. Inside a
// transaction the store mutex is already held by WithinTx.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	defer s.lock()()
	if _, ok := s.data.usersByEmail[u.Email]; ok {
		return store.ErrDuplicate
	}
	s.data.users[u.ID] = *u
	s.data.usersByEmail[u.Email] = u.ID
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	defer s.lock()()
	id, ok := s.data.usersByEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := s.data.users[id]
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	defer s.lock()()
	u, ok := s.data.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

// Events

func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	defer s.lock()()
	s.data.events[e.ID] = *e
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	defer s.lock()()
	e, ok := s.data.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &e, nil
}

func (s *Store) ListEvents(ctx context.Context, status domain.EventStatus) ([]domain.Event, error) {
	defer s.lock()()
	var out []domain.Event
	for _, e := range s.data.events {
		if status == "" || e.Status == status {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus) error {
	defer s.lock()()
	e, ok := s.data.events[id]
	if !ok {
		return store.ErrNotFound
	}
	e.Status = status
	e.UpdatedAt = time.Now()
	s.data.events[id] = e
	return nil
}

func (s *Store) CreateTicketType(ctx context.Context, tt *domain.TicketType) error {
	defer s.lock()()
	if _, ok := s.data.events[tt.EventID]; !ok {
		return store.ErrNotFound
	}
	s.data.ticketTypes[tt.ID] = *tt
	return nil
}

func (s *Store) GetTicketType(ctx context.Context, id string) (*domain.TicketType, error) {
	defer s.lock()()
	tt, ok := s.data.ticketTypes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &tt, nil
}

func (s *Store) ListTicketTypes(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	defer s.lock()()
	var out []domain.TicketType
	for _, tt := range s.data.ticketTypes {
		if tt.EventID == eventID {
			out = append(out, tt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Inventory

func (s *Store) ReserveQuantity(ctx context.Context, ticketTypeID string, qty int) error {
	defer s.lock()()
	tt, ok := s.data.ticketTypes[ticketTypeID]
	if !ok {
		return store.ErrNotFound
	}
	if tt.AvailableQuantity < qty {
		return &store.InsufficientInventoryError{
			TicketTypeID: ticketTypeID,
			Available:    tt.AvailableQuantity,
			Requested:    qty,
		}
	}
	tt.AvailableQuantity -= qty
	s.data.ticketTypes[ticketTypeID] = tt
	return nil
}

func (s *Store) ReleaseQuantity(ctx context.Context, ticketTypeID string, qty int) error {
	defer s.lock()()
	tt, ok := s.data.ticketTypes[ticketTypeID]
	if !ok {
		return store.ErrNotFound
	}
	if tt.AvailableQuantity+qty > tt.TotalQuantity {
		return &store.ReleaseOverflowError{TicketTypeID: ticketTypeID, Released: qty}
	}
	tt.AvailableQuantity += qty
	s.data.ticketTypes[ticketTypeID] = tt
	return nil
}

// Bookings

func (s *Store) CreateBooking(ctx context.Context, b *domain.Booking) error {
	defer s.lock()()
	if _, ok := s.data.bookingsByRef[b.Reference]; ok {
		return store.ErrDuplicate
	}
	s.data.bookings[b.ID] = *b
	s.data.bookingsByRef[b.Reference] = b.ID
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	defer s.lock()()
	b, ok := s.data.bookings[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (s *Store) GetBookingByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	defer s.lock()()
	id, ok := s.data.bookingsByRef[ref]
	if !ok {
		return nil, store.ErrNotFound
	}
	b := s.data.bookings[id]
	return &b, nil
}

// GetBookingForUpdate is a plain read here: the transaction already holds
// the store mutex for its full duration.
func (s *Store) GetBookingForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	return s.GetBooking(ctx, id)
}

func (s *Store) UpdateBooking(ctx context.Context, b *domain.Booking) error {
	defer s.lock()()
	if _, ok := s.data.bookings[b.ID]; !ok {
		return store.ErrNotFound
	}
	b.UpdatedAt = time.Now()
	s.data.bookings[b.ID] = *b
	return nil
}

func (s *Store) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	defer s.lock()()
	var out []domain.Booking
	for _, b := range s.data.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListExpiredPendingIDs(ctx context.Context, now time.Time, limit int) ([]string, error) {
	defer s.lock()()
	var out []string
	for id, b := range s.data.bookings {
		if b.Status == domain.BookingStatusPending && b.ExpiresAt != nil && b.ExpiresAt.Before(now) {
			out = append(out, id)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// Tickets

func (s *Store) CreateTickets(ctx context.Context, tickets []domain.Ticket) error {
	defer s.lock()()
	for _, t := range tickets {
		if _, ok := s.data.ticketsByNumber[t.Number]; ok {
			return store.ErrDuplicate
		}
	}
	for _, t := range tickets {
		s.data.tickets[t.ID] = t
		s.data.ticketsByNumber[t.Number] = t.ID
	}
	return nil
}

func (s *Store) ListTicketsByBooking(ctx context.Context, bookingID string) ([]domain.Ticket, error) {
	defer s.lock()()
	var out []domain.Ticket
	for _, t := range s.data.tickets {
		if t.BookingID == bookingID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *Store) GetTicketByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	defer s.lock()()
	id, ok := s.data.ticketsByNumber[number]
	if !ok {
		return nil, store.ErrNotFound
	}
	t := s.data.tickets[id]
	return &t, nil
}

func (s *Store) UpdateTicketStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	defer s.lock()()
	t, ok := s.data.tickets[id]
	if !ok {
		return store.ErrNotFound
	}
	t.Status = status
	s.data.tickets[id] = t
	return nil
}

func (s *Store) CancelTicketsByBooking(ctx context.Context, bookingID string) error {
	defer s.lock()()
	for id, t := range s.data.tickets {
		if t.BookingID == bookingID {
			t.Status = domain.TicketStatusCancelled
			s.data.tickets[id] = t
		}
	}
	return nil
}

// Payments

func (s *Store) CreatePayment(ctx context.Context, p *domain.Payment) error {
	defer s.lock()()
	if _, ok := s.data.paymentsByBooking[p.BookingID]; ok {
		return store.ErrDuplicate
	}
	s.data.payments[p.ID] = *p
	s.data.paymentsByBooking[p.BookingID] = p.ID
	if p.OrderID != "" {
		s.data.paymentsByOrder[p.OrderID] = p.ID
	}
	return nil
}

func (s *Store) GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	defer s.lock()()
	id, ok := s.data.paymentsByOrder[orderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	p := s.data.payments[id]
	return &p, nil
}

func (s *Store) GetPaymentByOrderIDForUpdate(ctx context.Context, orderID string) (*domain.Payment, error) {
	return s.GetPaymentByOrderID(ctx, orderID)
}

func (s *Store) GetPaymentByBooking(ctx context.Context, bookingID string) (*domain.Payment, error) {
	defer s.lock()()
	id, ok := s.data.paymentsByBooking[bookingID]
	if !ok {
		return nil, store.ErrNotFound
	}
	p := s.data.payments[id]
	return &p, nil
}

func (s *Store) UpdatePayment(ctx context.Context, p *domain.Payment) error {
	defer s.lock()()
	old, ok := s.data.payments[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	if old.OrderID != "" && old.OrderID != p.OrderID {
		delete(s.data.paymentsByOrder, old.OrderID)
	}
	p.UpdatedAt = time.Now()
	s.data.payments[p.ID] = *p
	if p.OrderID != "" {
		s.data.paymentsByOrder[p.OrderID] = p.ID
	}
	return nil
}
