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
	"event-booking/pkg/logger"
)

// fakeGateway accepts only the "valid" signature and hands out sequential
// order ids.
type fakeGateway struct {
	orders      int
	lastAmount  decimal.Decimal
	lastReceipt string
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error) {
	g.orders++
	g.lastAmount = amount
	g.lastReceipt = receipt
	return "order_" + uuid.New().String()[:8], nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == "valid"
}

type paymentFixture struct {
	*bookingFixture
	gw  *fakeGateway
	svc *paymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	bf := newBookingFixture(t)
	gw := &fakeGateway{}
	svc := NewPaymentService(bf.store, gw, bf.svc, "rzp_test_key", logger.NewTest()).(*paymentService)
	svc.now = bf.svc.now

	return &paymentFixture{bookingFixture: bf, gw: gw, svc: svc}
}

func (f *paymentFixture) createOrder(t *testing.T, bookingRef string) *PaymentOrder {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), bookingRef, f.user.ID)
	require.NoError(t, err)
	return order
}

func TestCreateOrderRegistersPayment(t *testing.T) {
	f := newPaymentFixture(t)
	booking := f.createBooking(t, 2).Booking

	order := f.createOrder(t, booking.Reference)

	assert.True(t, order.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, booking.Reference, order.BookingReference)
	assert.Equal(t, "rzp_test_key", order.GatewayKeyID)
	assert.Equal(t, booking.Reference, f.gw.lastReceipt)

	payment, err := f.store.GetPaymentByBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, payment.OrderID)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
}

func TestCreateOrderReusesPaymentRecord(t *testing.T) {
	f := newPaymentFixture(t)
	booking := f.createBooking(t, 1).Booking
	ctx := context.Background()

	first := f.createOrder(t, booking.Reference)
	second := f.createOrder(t, booking.Reference)
	require.NotEqual(t, first.OrderID, second.OrderID)

	payment, err := f.store.GetPaymentByBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, second.OrderID, payment.OrderID, "retry refreshes the single payment record")
}

func TestCreateOrderRejectsExpiredHold(t *testing.T) {
	f := newPaymentFixture(t)
	booking := f.createBooking(t, 1).Booking
	f.setNow(f.nowVal.Add(DefaultHoldTTL + time.Second))

	_, err := f.svc.CreateOrder(context.Background(), booking.Reference, f.user.ID)
	assert.ErrorIs(t, err, ErrBookingExpired)
}

func TestVerifyConfirmsBooking(t *testing.T) {
	f := newPaymentFixture(t)
	booking := f.createBooking(t, 2).Booking
	order := f.createOrder(t, booking.Reference)
	ctx := context.Background()

	detail, err := f.svc.Verify(ctx, VerifyPaymentInput{
		BookingReference: booking.Reference,
		OrderID:          order.OrderID,
		PaymentID:        "pay_123",
		Signature:        "valid",
		UserID:           f.user.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingStatusConfirmed, detail.Booking.Status)
	assert.Len(t, detail.Tickets, 2)

	payment, err := f.store.GetPaymentByOrderID(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSuccess, payment.Status)
	assert.Equal(t, "pay_123", payment.PaymentID)
	require.NotNil(t, payment.PaidAt)
}

func TestVerifyBadSignatureMarksFailed(t *testing.T) {
	f := newPaymentFixture(t)
	booking := f.createBooking(t, 2).Booking
	order := f.createOrder(t, booking.Reference)
	ctx := context.Background()

	_, err := f.svc.Verify(ctx, VerifyPaymentInput{
		OrderID:   order.OrderID,
		PaymentID: "pay_bad",
		Signature: "forged",
		UserID:    f.user.ID,
	})
	require.ErrorIs(t, err, ErrPaymentFailed)

	payment, err := f.store.GetPaymentByOrderID(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)

	got, err := f.store.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, got.Status, "failed payment leaves the hold intact")
	assert.Equal(t, 8, f.available(t))
}

func TestVerifyRequiresOwnership(t *testing.T) {
	f := newPaymentFixture(t)
	booking := f.createBooking(t, 1).Booking
	order := f.createOrder(t, booking.Reference)

	_, err := f.svc.Verify(context.Background(), VerifyPaymentInput{
		OrderID:   order.OrderID,
		PaymentID: "pay_123",
		Signature: "valid",
		UserID:    uuid.New().String(),
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyRejectsMismatchedReference(t *testing.T) {
	f := newPaymentFixture(t)
	booking := f.createBooking(t, 1).Booking
	order := f.createOrder(t, booking.Reference)

	_, err := f.svc.Verify(context.Background(), VerifyPaymentInput{
		BookingReference: "BK00000000",
		OrderID:          order.OrderID,
		PaymentID:        "pay_123",
		Signature:        "valid",
		UserID:           f.user.ID,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConfirmPaymentDuplicateDelivery(t *testing.T) {
	f := newPaymentFixture(t)
	booking := f.createBooking(t, 2).Booking
	order := f.createOrder(t, booking.Reference)
	ctx := context.Background()

	first, err := f.svc.ConfirmPayment(ctx, order.OrderID, "pay_123", domain.PaymentStatusSuccess, "sig")
	require.NoError(t, err)
	require.Len(t, first.Tickets, 2)

	// The webhook redelivers after the synchronous verify already landed.
	second, err := f.svc.ConfirmPayment(ctx, order.OrderID, "pay_123", domain.PaymentStatusSuccess, "sig")
	require.NoError(t, err)

	assert.Equal(t, first.Tickets, second.Tickets, "no second batch of tickets")
	assert.Equal(t, 8, f.available(t), "inventory applied exactly once")

	payment, err := f.store.GetPaymentByOrderID(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSuccess, payment.Status)
}

func TestConfirmPaymentFailureKeepsBookingPending(t *testing.T) {
	f := newPaymentFixture(t)
	booking := f.createBooking(t, 1).Booking
	order := f.createOrder(t, booking.Reference)
	ctx := context.Background()

	detail, err := f.svc.ConfirmPayment(ctx, order.OrderID, "pay_123", domain.PaymentStatusFailed, "")
	require.NoError(t, err)
	assert.Nil(t, detail)

	got, err := f.store.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, got.Status)
}

func TestConfirmPaymentFailureDoesNotOverrideSuccess(t *testing.T) {
	f := newPaymentFixture(t)
	booking := f.createBooking(t, 1).Booking
	order := f.createOrder(t, booking.Reference)
	ctx := context.Background()

	_, err := f.svc.ConfirmPayment(ctx, order.OrderID, "pay_123", domain.PaymentStatusSuccess, "sig")
	require.NoError(t, err)

	// A late failure webhook for the same order must not undo the success.
	_, err = f.svc.ConfirmPayment(ctx, order.OrderID, "pay_123", domain.PaymentStatusFailed, "")
	require.NoError(t, err)

	payment, err := f.store.GetPaymentByOrderID(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSuccess, payment.Status)

	got, err := f.store.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, got.Status)
}

func TestConfirmPaymentAfterDeadlineExpiresBooking(t *testing.T) {
	f := newPaymentFixture(t)
	booking := f.createBooking(t, 3).Booking
	order := f.createOrder(t, booking.Reference)

	f.setNow(f.nowVal.Add(DefaultHoldTTL + time.Second))

	_, err := f.svc.ConfirmPayment(context.Background(), order.OrderID, "pay_late", domain.PaymentStatusSuccess, "sig")
	require.ErrorIs(t, err, ErrBookingExpired)

	got, getErr := f.store.GetBooking(context.Background(), booking.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.BookingStatusExpired, got.Status)
	assert.Equal(t, 10, f.available(t))
}

func TestUnknownOrderIsNotFound(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.ConfirmPayment(context.Background(), "order_missing", "pay_1", domain.PaymentStatusSuccess, "")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
