package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
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

const webhookSecret = "whsec_test"

type stubGateway struct{}

func (stubGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error) {
	return "order_" + uuid.New().String()[:8], nil
}

func (stubGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == "valid"
}

type webhookFixture struct {
	handler *Handler
	store   *memory.Store
	booking *domain.Booking
	orderID string
	ttID    string
}

func newWebhookFixture(t *testing.T, secret string) *webhookFixture {
	t.Helper()

	st := memory.New()
	l := logger.NewTest()
	ctx := context.Background()

	user := &domain.User{ID: uuid.New().String(), Email: "fan@example.com"}
	require.NoError(t, st.CreateUser(ctx, user))

	event := &domain.Event{
		ID:        uuid.New().String(),
		Title:     "Festival",
		VenueName: "Open Field",
		StartDate: time.Now().Add(24 * time.Hour),
		EndDate:   time.Now().Add(36 * time.Hour),
		Status:    domain.EventStatusPublished,
	}
	require.NoError(t, st.CreateEvent(ctx, event))

	tt := &domain.TicketType{
		ID:                uuid.New().String(),
		EventID:           event.ID,
		Name:              "General",
		Price:             decimal.NewFromInt(30),
		TotalQuantity:     20,
		AvailableQuantity: 20,
	}
	require.NoError(t, st.CreateTicketType(ctx, tt))

	authSvc := service.NewAuthService(st, service.AuthConfig{Secret: "jwt", TokenTTL: time.Hour}, l)
	eventSvc := service.NewEventService(st, l)
	bookingSvc := service.NewBookingService(st, service.NewTicketIssuer(), nil, service.DefaultHoldTTL, l)
	paymentSvc := service.NewPaymentService(st, stubGateway{}, bookingSvc, "rzp_test", l)
	ticketSvc := service.NewTicketService(st, l)

	detail, err := bookingSvc.Create(ctx, service.CreateBookingInput{
		EventID:      event.ID,
		TicketTypeID: tt.ID,
		UserID:       user.ID,
		Quantity:     2,
	})
	require.NoError(t, err)

	order, err := paymentSvc.CreateOrder(ctx, detail.Booking.Reference, user.ID)
	require.NoError(t, err)

	h := NewHandler(authSvc, eventSvc, bookingSvc, paymentSvc, ticketSvc, secret, l)
	return &webhookFixture{
		handler: h,
		store:   st,
		booking: &detail.Booking,
		orderID: order.OrderID,
		ttID:    tt.ID,
	}
}

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func capturedPayload(orderID string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"%s"}}}}`,
		orderID))
}

func (f *webhookFixture) deliver(body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/razorpay", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Razorpay-Signature", signature)
	}
	rec := httptest.NewRecorder()
	f.handler.PaymentWebhook(rec, req)
	return rec
}

func TestWebhookCapturedConfirmsBooking(t *testing.T) {
	f := newWebhookFixture(t, webhookSecret)
	body := capturedPayload(f.orderID)

	rec := f.deliver(body, signBody(body, webhookSecret))
	assert.Equal(t, http.StatusOK, rec.Code)

	got, err := f.store.GetBooking(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, got.Status)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newWebhookFixture(t, webhookSecret)
	body := capturedPayload(f.orderID)

	rec := f.deliver(body, signBody(body, "wrong"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	got, err := f.store.GetBooking(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, got.Status)
}

func TestWebhookRequiresSignatureWhenSecretConfigured(t *testing.T) {
	f := newWebhookFixture(t, webhookSecret)

	rec := f.deliver(capturedPayload(f.orderID), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookTrustsPayloadWithoutSecret(t *testing.T) {
	f := newWebhookFixture(t, "")

	rec := f.deliver(capturedPayload(f.orderID), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	got, err := f.store.GetBooking(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, got.Status)
}

func TestWebhookDuplicateDeliveryIsAcked(t *testing.T) {
	f := newWebhookFixture(t, webhookSecret)
	body := capturedPayload(f.orderID)
	sig := signBody(body, webhookSecret)

	assert.Equal(t, http.StatusOK, f.deliver(body, sig).Code)
	assert.Equal(t, http.StatusOK, f.deliver(body, sig).Code)

	tickets, err := f.store.ListTicketsByBooking(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Len(t, tickets, 2, "redelivery must not issue more tickets")

	tt, err := f.store.GetTicketType(context.Background(), f.ttID)
	require.NoError(t, err)
	assert.Equal(t, 18, tt.AvailableQuantity)
}

func TestWebhookPaymentFailedLeavesBookingPending(t *testing.T) {
	f := newWebhookFixture(t, webhookSecret)
	body := []byte(fmt.Sprintf(
		`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":"%s"}}}}`,
		f.orderID))

	rec := f.deliver(body, signBody(body, webhookSecret))
	assert.Equal(t, http.StatusOK, rec.Code)

	ctx := context.Background()
	got, err := f.store.GetBooking(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, got.Status)

	payment, err := f.store.GetPaymentByOrderID(ctx, f.orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
}

func TestWebhookIgnoresUnknownEvent(t *testing.T) {
	f := newWebhookFixture(t, webhookSecret)
	body := []byte(`{"event":"refund.created","payload":{}}`)

	rec := f.deliver(body, signBody(body, webhookSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookAcksUnknownOrder(t *testing.T) {
	f := newWebhookFixture(t, webhookSecret)
	body := capturedPayload("order_never_issued")

	rec := f.deliver(body, signBody(body, webhookSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
}
